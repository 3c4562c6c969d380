package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodapi/internal/apperr"
)

// Envelope is the body of every successful API response.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the body of every failed API response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

func RespondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// RespondError renders err as an error envelope and aborts the chain.
// Infrastructure causes never reach the client.
func RespondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.StatusCode()
	message := appErr.Message
	if message == "" {
		message = http.StatusText(status)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     appErr.Details,
	})
}
