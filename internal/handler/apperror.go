package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidPeriod       = &AppError{http.StatusBadRequest, "INVALID_PERIOD", "Period must be in YYYY-MM format"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive number"}
	ErrInvalidLease        = &AppError{http.StatusBadRequest, "INVALID_LEASE", "Lease is invalid"}
	ErrDuplicateAddress    = &AppError{http.StatusConflict, "DUPLICATE_ADDRESS", "A property with this address already exists"}
	ErrDuplicateEntry      = &AppError{http.StatusConflict, "DUPLICATE_ENTRY", "Ledger entry already exists"}
	ErrOperatorExists      = &AppError{http.StatusConflict, "OPERATOR_EXISTS", "An operator with this email already exists"}
	ErrIdempotencyConflict = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
