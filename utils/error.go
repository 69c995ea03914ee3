package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Code:    CodeInternal,
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code string) int {
	switch code {
	case CodeValidation, CodeCutoffExceeded:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// JSONError sends a standardized JSON error response for a service error.
func JSONError(c *gin.Context, err error) {
	code := CodeOf(err)
	msg := err.Error()
	if code == CodeInternal {
		GetLogger().Error("internal error", zap.Error(err))
		msg = "An unexpected error occurred. Please try again later."
	}
	c.JSON(statusFor(code), ErrorResponse{Message: msg, Code: code})
}
