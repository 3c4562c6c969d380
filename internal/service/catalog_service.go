package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime/multipart"
	"time"

	"foodapi/internal/apperr"
	"foodapi/internal/models"
	"foodapi/internal/repository"
	"foodapi/internal/storage"
)

type AddFoodInput struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description"`
	Price       float64               `json:"price" validate:"gt=0"`
	Category    string                `json:"category" validate:"required"`
	Image       *multipart.FileHeader `json:"-"`
}

type CatalogService struct {
	foods         repository.FoodRepository
	images        storage.ImageStore
	uploadTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewCatalogService(foods repository.FoodRepository, images storage.ImageStore, uploadTimeout time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		foods:         foods,
		images:        images,
		uploadTimeout: uploadTimeout,
		logger:        loggerOrDefault(logger, "catalog"),
		now:           time.Now,
	}
}

// AddFood stores the image first and then the record. If the record cannot
// be written the image is removed again.
func (s *CatalogService) AddFood(ctx context.Context, in AddFoodInput) (*models.Food, error) {
	in.Name = sanitizeText(in.Name)
	in.Description = sanitizeText(in.Description)
	in.Category = sanitizeText(in.Category)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if math.IsInf(in.Price, 0) || math.IsNaN(in.Price) {
		return nil, apperr.Validation("validation failed", "price must be a finite number")
	}
	if in.Image == nil {
		return nil, apperr.Validation("validation failed", "image is required")
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	image, err := s.images.Upload(uploadCtx, in.Image)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMissingImage),
			errors.Is(err, storage.ErrUnsupportedImage),
			errors.Is(err, storage.ErrImageTooLarge):
			return nil, apperr.Validation("invalid image", err.Error())
		default:
			return nil, s.infra("add food: image upload failed", err)
		}
	}

	food := &models.Food{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       image,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.foods.Create(ctx, food); err != nil {
		if delErr := s.images.Delete(context.WithoutCancel(ctx), image); delErr != nil {
			s.logger.Error("add food: orphaned image",
				slog.String("image", image),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, s.infra("add food: insert failed", err)
	}

	s.logger.Info("food added", slog.String("food_id", food.ID.Hex()), slog.String("category", food.Category))
	return food, nil
}

func (s *CatalogService) ListFoods(ctx context.Context, filter repository.FoodFilter) ([]models.Food, int64, error) {
	filter.Category = sanitizeText(filter.Category)
	foods, total, err := s.foods.List(ctx, filter)
	if err != nil {
		return nil, 0, s.infra("list foods failed", err)
	}
	return foods, total, nil
}

// RemoveFood deletes the record and then its image. A failed image delete
// is logged and otherwise ignored.
func (s *CatalogService) RemoveFood(ctx context.Context, foodID string) (*models.Food, error) {
	id, ok := parseID(foodID)
	if !ok {
		return nil, apperr.NotFound("food not found")
	}

	food, err := s.foods.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("food not found")
		}
		return nil, s.infra("remove food failed", err)
	}

	if err := s.images.Delete(ctx, food.Image); err != nil {
		s.logger.Warn("remove food: image delete failed",
			slog.String("food_id", id.Hex()),
			slog.String("image", food.Image),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("food removed", slog.String("food_id", id.Hex()))
	return food, nil
}

func (s *CatalogService) infra(msg string, err error) error {
	s.logger.Error(msg, slog.String("error", err.Error()))
	return apperr.Infrastructure("something went wrong", fmt.Errorf("%s: %w", msg, err))
}
