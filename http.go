package boards

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Every JSON response travels in the same envelope: success responses wrap
// the payload under data, failures carry the path, status and message.

type successEnvelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

type errorEnvelope struct {
	Success    bool   `json:"success"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
}

// RespondSuccess writes the payload wrapped in the success envelope.
func RespondSuccess(ctx router.Context, status int, data any) error {
	return ctx.JSON(status, successEnvelope{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

// RespondNoContent writes an empty 204.
func RespondNoContent(ctx router.Context) error {
	return ctx.Status(router.StatusNoContent).SendString("")
}

// RespondError maps an error onto the failure envelope. Rich errors keep
// their own status and message; anything else becomes an opaque 500 so
// internals never leak to clients.
func RespondError(ctx router.Context, err error) error {
	status := router.StatusInternalServerError
	var message any = "internal server error"

	var ve validation.Errors
	var richErr *errors.Error

	switch {
	case errors.As(err, &ve):
		status = router.StatusBadRequest
		message = ve
	case errors.As(err, &richErr):
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			status = statusFromCategory(richErr.Category)
		}
		if status < router.StatusInternalServerError {
			message = richErr.Message
		}
	}

	return ctx.JSON(status, errorEnvelope{
		Success:    false,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       ctx.OriginalURL(),
		StatusCode: status,
		Message:    message,
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return router.StatusUnauthorized
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryRateLimit:
		return router.StatusTooManyRequests
	default:
		return router.StatusInternalServerError
	}
}
