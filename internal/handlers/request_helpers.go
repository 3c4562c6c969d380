package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/middleware"
)

var errRouteNotFound = apperr.NotFound("route not found")

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	middleware.RespondOK(c, status, data, message)
}

func respondError(c *gin.Context, err error) {
	middleware.RespondError(c, err)
}

// bindJSON decodes the body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func bindJSON(c *gin.Context, dst interface{}, allowEmpty bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		respondError(c, apperr.Validation("invalid body"))
		return false
	}
	return true
}

// currentUserID returns the identity set by UserAuth. Handlers behind the
// middleware can rely on it being present.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, apperr.Auth("unauthorized request"))
		return primitive.NilObjectID, false
	}
	return userID, true
}

// Healthz reports 200 while the database primary answers.
func Healthz(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
