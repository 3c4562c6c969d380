package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"foodapi/internal/apperr"
	"foodapi/internal/service"
	"foodapi/internal/storage"
)

const maxMultipartMemory = 8 << 20

// parseMultipartFoodRequest reads the add-food form. The image is only
// attached here; storing it is the catalog service's job.
func parseMultipartFoodRequest(c *gin.Context) (service.AddFoodInput, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+maxMultipartMemory)
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return service.AddFoodInput{}, apperr.Validation("invalid multipart form")
	}

	input := service.AddFoodInput{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Category:    strings.TrimSpace(c.PostForm("category")),
	}

	if value, ok := c.GetPostForm("price"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
			return service.AddFoodInput{}, apperr.Validation("validation failed", "price must be a number")
		}
		input.Price = parsed
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		input.Image = file
	case errors.Is(err, http.ErrMissingFile):
		// left nil; the service reports it
	default:
		return service.AddFoodInput{}, apperr.Validation("invalid image upload")
	}

	return input, nil
}
