package http

import (
	"errors"
	"net/http"

	domain "kamikaya-backend/internal/domain/application"

	"github.com/labstack/echo/v4"
)

// statusCode maps lifecycle errors onto HTTP status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrTransitionNotAllowed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func invalidStatusMessage() string {
	return "Invalid status. Must be one of: " + statusList()
}

// errorMessage gives the client-facing text for err. Unexpected failures are
// prefixed with what was being attempted and keep the underlying message.
func errorMessage(err error, attempt string) string {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return invalidStatusMessage()
	case errors.Is(err, domain.ErrNotFound):
		return "Loan application not found"
	}
	if statusCode(err) == http.StatusInternalServerError {
		return attempt + ": " + err.Error()
	}
	return err.Error()
}

func jsonError(c echo.Context, err error, attempt string) error {
	return c.JSON(statusCode(err), ErrorResponse{Detail: errorMessage(err, attempt)})
}

func badRequest(c echo.Context, detail string, fields ...FieldError) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: detail, Details: fields})
}
