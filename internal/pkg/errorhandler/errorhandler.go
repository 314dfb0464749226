package errorhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/creditbook/creditbook-api/internal/pkg/logger"
	"github.com/creditbook/creditbook-api/internal/pkg/response"
)

// Internal handles a store or recalculation failure as a 500.
// The client gets a generic message; the cause only goes to the log.
func Internal(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logger.FromContext(ctx).Error().
		Err(err).
		Str("operation", op).
		Msg("Internal error")

	response.InternalError(w)
}

// HandlePanicError logs a recovered panic and sends a 500.
func HandlePanicError(ctx context.Context, w http.ResponseWriter, panicErr interface{}, stackTrace string) {
	logger.FromContext(ctx).Error().
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Msg("Request panic error")

	response.InternalError(w)
}

// Validation logs field errors at warn level and sends a 422.
func Validation(ctx context.Context, w http.ResponseWriter, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")

	response.ValidationError(w, fieldErrors)
}

// Decode answers a request body that could not be decoded. A value of the
// wrong type or format in a named field is a 422 on that field; anything
// else, such as broken syntax or an empty body, is a 400.
func Decode(ctx context.Context, w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		Validation(ctx, w, map[string]string{typeErr.Field: "Invalid value"})
		return
	}

	logger.FromContext(ctx).Debug().Err(err).Msg("Invalid JSON body")
	response.BadRequest(w, "Invalid JSON body")
}
