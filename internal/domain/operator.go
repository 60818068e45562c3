package domain

import (
	"time"

	"github.com/google/uuid"
)

type Operator struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
