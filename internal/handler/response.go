package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/storefront-insights/internal/middleware"
)

// APIResponse is the envelope around every insights, competitor and brand
// payload. Failed extractions carry the request id so a caller can quote it
// when reporting a storefront that could not be read.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success writes data inside the envelope.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error writes message inside the envelope, tagged with the request id when
// the RequestID middleware ran.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: middleware.RequestIDFromContext(c),
	})
}
