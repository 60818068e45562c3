package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
)

const minPasswordLength = 8

type operatorRepo interface {
	Create(ctx context.Context, o *domain.Operator) error
}

type OperatorService struct {
	operators operatorRepo
	now       func() time.Time
}

func NewOperatorService(operators operatorRepo, now func() time.Time) *OperatorService {
	if now == nil {
		now = time.Now
	}
	return &OperatorService{operators: operators, now: now}
}

// CreateOperator stores a new operator with a bcrypt hash of password.
// Emails are stored lowercased so login is case-insensitive.
func (s *OperatorService) CreateOperator(ctx context.Context, email, name, password string) (*domain.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("CreateOperator: email: %w", domain.ErrInvalidRequest)
	}
	if name == "" {
		return nil, fmt.Errorf("CreateOperator: name: %w", domain.ErrInvalidRequest)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("CreateOperator: password shorter than %d: %w", minPasswordLength, domain.ErrInvalidRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("CreateOperator: hash password: %w", err)
	}

	o := &domain.Operator{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.operators.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("CreateOperator: %w", err)
	}

	logging.FromContext(ctx).Info("operator created", "operator_id", o.ID)
	return o, nil
}
