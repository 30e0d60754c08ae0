package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskgate/internal/api/shared"
	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/platform/logger"
	"github.com/phrazzld/taskgate/internal/redact"
	"github.com/phrazzld/taskgate/internal/service"
	"github.com/phrazzld/taskgate/internal/task"
)

// Request-level errors raised by the handlers themselves.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidTaskID  = errors.New("invalid task id")
	ErrPathRequired   = errors.New("path is required")
	ErrPathForbidden  = errors.New("path is outside the readable root")
)

// validationErrors are the synchronous task pipeline failures; their
// messages describe the caller's input and are safe to return.
var validationErrors = []error{
	domain.ErrParse,
	domain.ErrSchemaViolation,
	domain.ErrUnsupportedOperation,
	domain.ErrUnresolvableInput,
	service.ErrEmptyDescription,
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case isValidationError(err),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidTaskID),
		errors.Is(err, ErrPathRequired):
		return http.StatusBadRequest

	case errors.Is(err, ErrPathForbidden):
		return http.StatusForbidden

	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, task.ErrTaskTerminal):
		return http.StatusConflict

	// Backpressure: the caller may retry later
	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case isValidationError(err):
		return redact.Error(err)

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidTaskID),
		errors.Is(err, ErrPathRequired),
		errors.Is(err, ErrPathForbidden):
		return capitalize(err.Error())

	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, task.ErrTaskTerminal):
		return "Task already finished"

	case errors.Is(err, task.ErrQueueFull):
		return "Too many pending tasks, try again later"

	case errors.Is(err, task.ErrQueueClosed):
		return "Server is shutting down"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and message for err, logging the redacted
// detail. An explicit message overrides the safe default.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("handling api error",
		"status_code", status,
		"error", redact.Error(err))
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError renders struct validation failures as a short
// field-level message without echoing the submitted values.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request format"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "max":
			parts = append(parts, fe.Field()+" is too long")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}

func isValidationError(err error) bool {
	for _, known := range validationErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
