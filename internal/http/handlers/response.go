// Package handlers provides the REST endpoints of the inventory API.
//
// Every error leaves through fail(), which writes the envelope
//
//	{ "request_id": "...", "code": "not_found", "message": "part not found" }
//
// plus "details" for validation failures. 5xx responses carry a generic
// message; the underlying error is logged with the request-scoped logger and
// never serialized.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockrakh/stockrakh/internal/http/middleware"
	"github.com/stockrakh/stockrakh/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go)
	Code string `json:"code" example:"not_found"`
	// Human-readable message, safe to show to users
	Message string `json:"message" example:"part not found"`
	// Per-field problems for validation failures
	Details []services.FieldError `json:"details,omitempty"`
}

// fail aborts the request with an ErrorResponse. Server errors are logged.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail for router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// internal logs err and answers 500 with a generic message.
func internal(c *gin.Context, code string, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Str("code", code).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   "internal server error",
	})
}

// failService maps service errors onto the envelope. Unknown errors become a
// generic 500 with fallbackCode.
func failService(c *gin.Context, err error, fallbackCode string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			RequestID: c.Writer.Header().Get("X-Request-ID"),
			Code:      ErrCodeValidation,
			Message:   "validation failed",
			Details:   ve.Fields,
		})
	case errors.Is(err, services.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, err.Error())
	case errors.Is(err, services.ErrPartNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrMissingPartNumber),
		errors.Is(err, services.ErrEmptySelection),
		errors.Is(err, services.ErrUnsupportedFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		internal(c, fallbackCode, err)
	}
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
