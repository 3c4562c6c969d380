package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"foodapi/internal/auth"
	"foodapi/internal/middleware"
)

type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
	Path     string
}

// CookieManager writes the session cookies. Both are http-only.
type CookieManager struct {
	cfg CookieConfig
}

func NewCookieManager(cfg CookieConfig) *CookieManager {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieManager{cfg: cfg}
}

func (m *CookieManager) SetSession(c *gin.Context, pair auth.TokenPair) {
	now := time.Now()
	m.set(c, middleware.AccessTokenCookie, pair.AccessToken, maxAge(pair.AccessExpiresAt, now))
	m.set(c, middleware.RefreshTokenCookie, pair.RefreshToken, maxAge(pair.RefreshExpiresAt, now))
}

func (m *CookieManager) ClearSession(c *gin.Context) {
	m.set(c, middleware.AccessTokenCookie, "", -1)
	m.set(c, middleware.RefreshTokenCookie, "", -1)
}

func (m *CookieManager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(name, value, maxAge, m.cfg.Path, m.cfg.Domain, m.cfg.Secure, true)
}

func (m *CookieManager) sameSite() http.SameSite {
	switch strings.ToLower(m.cfg.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func maxAge(expiresAt, now time.Time) int {
	secs := int(expiresAt.Sub(now).Seconds())
	if secs < 1 {
		return -1
	}
	return secs
}
