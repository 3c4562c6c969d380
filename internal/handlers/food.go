package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodapi/internal/models"
	"foodapi/internal/repository"
)

// foodView adds the public image URL to a catalog entry.
type foodView struct {
	models.Food
	ImageURL string `json:"imageUrl"`
}

func newFoodView(f models.Food, imageBaseURL string) foodView {
	url := ""
	if f.Image != "" {
		url = strings.TrimRight(imageBaseURL, "/") + "/" + f.Image
	}
	return foodView{Food: f, ImageURL: url}
}

/*
GET /api/food/list
- pagination only when both page and limit are given
*/
func ListFoods(svc CatalogService, imageBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, paginated, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, err)
			return
		}

		foods, total, err := svc.ListFoods(c.Request.Context(), repository.FoodFilter{
			Category: strings.TrimSpace(c.Query("category")),
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		views := make([]foodView, 0, len(foods))
		for _, f := range foods {
			views = append(views, newFoodView(f, imageBaseURL))
		}

		if !paginated {
			respondOK(c, http.StatusOK, views, "foods fetched")
			return
		}
		respondOK(c, http.StatusOK, gin.H{
			"foods": views,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		}, "foods fetched")
	}
}

func AddFood(svc CatalogService, imageBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := parseMultipartFoodRequest(c)
		if err != nil {
			respondError(c, err)
			return
		}

		food, err := svc.AddFood(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, newFoodView(*food, imageBaseURL), "food added")
	}
}

func RemoveFood(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		food, err := svc.RemoveFood(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"id": food.ID.Hex()}, "food removed")
	}
}
