package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/auth"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	claimsKey = "claims"
	userIDKey = "userId"
)

// Authenticator verifies an access token and returns its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// UserAuth validates the access token and injects the claims and userId
// into the context. The token is read from the accessToken cookie first and
// the Authorization header second.
func UserAuth(authenticator Authenticator) gin.HandlerFunc {
	return AuthGuard(authenticator)
}

func AuthGuard(authenticator Authenticator, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := accessTokenFromRequest(c)
		if raw == "" {
			RespondError(c, apperr.Auth("unauthorized request"))
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), raw)
		if err != nil {
			slog.Debug("access token rejected", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
			RespondError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID())
		if err != nil {
			RespondError(c, apperr.Auth("unauthorized request"))
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if claims.Role == r {
					match = true
					break
				}
			}
			if !match {
				slog.Warn("role not allowed",
					slog.String("user_id", userID.Hex()),
					slog.String("role", claims.Role),
					slog.String("path", c.Request.URL.Path),
				)
				RespondError(c, apperr.Forbidden("forbidden"))
				return
			}
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func UserIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
