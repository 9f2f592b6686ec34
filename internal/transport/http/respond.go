package httptransport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daisyverse/backend/internal/domain"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, response{Success: true, Message: message, Data: data})
}

// httpStatus maps domain errors to HTTP statuses.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err onto the envelope. Domain errors surface their own
// message; anything else is an internal failure reported with the
// route-level fallback message so secrets in wrapped errors never reach
// 4xx clients with misleading context.
func respondError(c *gin.Context, err error, fallback string) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, response{Success: false, Message: fallback, Error: err.Error()})
		return
	}
	c.JSON(status, response{Success: false, Message: err.Error()})
}
