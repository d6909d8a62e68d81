package absenceerrors

import (
	"net/http"

	"go-timetrack/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidAbsenceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid absence id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid absence type",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested range contains no working days",
		http.StatusBadRequest,
	)
	ErrOverlappingAbsence = apperror.New(
		apperror.CodeConflict,
		"an absence already exists in the requested period",
		http.StatusConflict,
	)
	ErrAbsenceNotFound = apperror.New(
		apperror.CodeNotFound,
		"absence not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"absence is not in pending state",
		http.StatusUnprocessableEntity,
	)
	ErrAlreadyRejected = apperror.New(
		apperror.CodeInvalidState,
		"rejected absences cannot be cancelled",
		http.StatusUnprocessableEntity,
	)
)
