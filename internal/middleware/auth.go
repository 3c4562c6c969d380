package middleware

import (
	"github.com/gin-gonic/gin"

	"foodapi/internal/models"
)

// AdminAuth admits only tokens carrying the admin role.
func AdminAuth(authenticator Authenticator) gin.HandlerFunc {
	return AuthGuard(authenticator, models.RoleAdmin)
}
