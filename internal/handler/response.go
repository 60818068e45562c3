package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/service"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps a service error onto the error table. Anything
// unrecognised is logged and reported as an internal error.
func RespondDomainError(w http.ResponseWriter, err error) {
	var leaseErr *service.LeaseError
	if errors.As(err, &leaseErr) {
		fields := make([]FieldError, len(leaseErr.Fields))
		for i, f := range leaseErr.Fields {
			fields[i] = FieldError{Field: f, Message: "invalid"}
		}
		RespondAppError(w, ErrInvalidLease, fields)
		return
	}

	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrInvalidPeriod):
		appErr = ErrInvalidPeriod
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrInvalidLease):
		appErr = ErrInvalidLease
	case errors.Is(err, domain.ErrDuplicateAddress):
		appErr = ErrDuplicateAddress
	case errors.Is(err, domain.ErrDuplicateEntry):
		appErr = ErrDuplicateEntry
	case errors.Is(err, domain.ErrOperatorExists):
		appErr = ErrOperatorExists
	case errors.Is(err, domain.ErrInvalidCredentials):
		appErr = ErrInvalidCredentials
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
