package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foodapi/internal/apperr"
	"foodapi/internal/middleware"
	"foodapi/internal/models"
	"foodapi/internal/service"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func Register(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterInput
		if !bindJSON(c, &req, false) {
			return
		}

		user, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, http.StatusOK, user, "user registered successfully")
	}
}

func Login(svc AuthService, cookies *CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginInput
		if !bindJSON(c, &req, false) {
			return
		}

		session, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		cookies.SetSession(c, session.Tokens)
		respondOK(c, http.StatusOK, sessionResponse{
			User:         session.User,
			AccessToken:  session.Tokens.AccessToken,
			RefreshToken: session.Tokens.RefreshToken,
		}, "user logged in successfully")
	}
}

// RefreshToken rotates the refresh token found in the cookie, or in the
// JSON body when no cookie is sent.
func RefreshToken(svc AuthService, cookies *CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(middleware.RefreshTokenCookie)
		if strings.TrimSpace(token) == "" {
			var req refreshRequest
			if !bindJSON(c, &req, true) {
				return
			}
			token = req.RefreshToken
		}
		if strings.TrimSpace(token) == "" {
			respondError(c, apperr.Auth("unauthorized request"))
			return
		}

		session, err := svc.Rotate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		cookies.SetSession(c, session.Tokens)
		respondOK(c, http.StatusOK, sessionResponse{
			User:         session.User,
			AccessToken:  session.Tokens.AccessToken,
			RefreshToken: session.Tokens.RefreshToken,
		}, "access token refreshed")
	}
}

func Logout(svc AuthService, cookies *CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			respondError(c, apperr.Auth("unauthorized request"))
			return
		}

		if err := svc.Logout(c.Request.Context(), claims); err != nil {
			respondError(c, err)
			return
		}

		cookies.ClearSession(c)
		respondOK(c, http.StatusOK, gin.H{}, "user logged out")
	}
}

func GetMe(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		user, err := svc.Me(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, user, "current user fetched")
	}
}
