package apperror

import "net/http"

// ErrInternal is the catch-all returned to clients when no domain error
// applies; ToHTTP falls back to it for unrecognized errors.
var ErrInternal = New(
	CodeInternalError,
	"An unexpected error occurred",
	http.StatusInternalServerError,
)

// RequiredField builds a field-level required error for request binding.
func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		field+" is required",
		http.StatusBadRequest,
	)
}

// InvalidField builds a field-level format error for request binding.
func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		field+" is invalid",
		http.StatusBadRequest,
	)
}
