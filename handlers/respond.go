package handlers

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// ErrorJSON writes {"error": message} with the given status code.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]any{"error": message})
}

// ValidationErrorJSON responds 400 with per-field messages. Errors that are
// not validation.Errors are reported without a field map.
func ValidationErrorJSON(e *core.RequestEvent, err error) error {
	body := map[string]any{"error": "Validation failed"}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		body["fields"] = fieldErrs
	} else {
		body["error"] = err.Error()
	}
	return e.JSON(http.StatusBadRequest, body)
}

// InternalErrorJSON logs the cause and responds 500 with a generic message.
func InternalErrorJSON(e *core.RequestEvent, op string, err error, fields ...zap.Field) error {
	zap.L().Error(op+": request failed", append(fields, zap.Error(err))...)
	return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong, please try again")
}
