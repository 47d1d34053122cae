package delivery

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response is the wire envelope used by every endpoint. Message carries one
// string or a list of per-field validation messages.
type Response struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func ListResponse(c *gin.Context, statusCode int, count int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// writeDomainError maps domain errors onto the client-facing taxonomy:
// validation -> 400 with per-field messages, not found -> 404, anything
// else -> generic 500 (details stay in the server log).
func writeDomainError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		ErrorResponse(c, http.StatusBadRequest, vErr.Messages)
		return
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Order not found")
		return
	}
	if errors.Is(err, domain.ErrProductNotFound) {
		ErrorResponse(c, http.StatusNotFound, "Product not found")
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}
