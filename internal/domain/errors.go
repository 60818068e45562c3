package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidPeriod      = errors.New("period must be in YYYY-MM format")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidLease       = errors.New("invalid lease")
	ErrDuplicateAddress   = errors.New("property with this address already exists")
	ErrDuplicateEntry     = errors.New("ledger entry already exists")
	ErrOperatorExists     = errors.New("operator with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
