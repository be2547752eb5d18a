// Package httpkit carries the HTTP response conventions shared by every
// handler: one error envelope, one success shape, typed-error status mapping.
package httpkit

import (
	"errors"
	"net/http"

	"qc_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope every failed request serializes to.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload with a 200.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an ErrorResponse with the given status code.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError resolves err into an HTTP response and reports whether it did.
// A nil err writes nothing and returns false, which lets handlers end with
//
//	if httpkit.HandleError(c, err) { return }
//
// Typed apperr values map their Kind to a status; anything untyped is treated
// as a caller mistake and answered with 400.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), ErrorResponse{
			Error:   appErr.Message,
			Details: appErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
