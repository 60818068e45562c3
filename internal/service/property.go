package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
)

type propertyRepo interface {
	List(ctx context.Context) ([]domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Create(ctx context.Context, p *domain.Property) error
	UpdateLease(ctx context.Context, id uuid.UUID, lease *domain.Lease, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// LeaseError lists the lease fields that failed validation.
type LeaseError struct {
	Fields []string
}

func (e *LeaseError) Error() string {
	return fmt.Sprintf("invalid lease fields: %s", strings.Join(e.Fields, ", "))
}

func (e *LeaseError) Unwrap() error {
	return domain.ErrInvalidLease
}

type PropertyService struct {
	properties propertyRepo
	now        func() time.Time
}

func NewPropertyService(properties propertyRepo, now func() time.Time) *PropertyService {
	if now == nil {
		now = time.Now
	}
	return &PropertyService{properties: properties, now: now}
}

func (s *PropertyService) CreateProperty(ctx context.Context, address string, lease *domain.Lease) (*domain.Property, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("CreateProperty: address: %w", domain.ErrInvalidRequest)
	}
	if lease != nil {
		if problems := lease.Validate(); len(problems) > 0 {
			return nil, fmt.Errorf("CreateProperty: %w", &LeaseError{Fields: problems})
		}
	}

	now := s.now().UTC()
	p := &domain.Property{
		ID:           uuid.New(),
		Address:      address,
		CurrentLease: lease,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("CreateProperty: %w", err)
	}

	logging.FromContext(ctx).Info("property created",
		"property_id", p.ID,
		"occupied", p.Occupied(),
	)
	return p, nil
}

func (s *PropertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListProperties: %w", err)
	}
	return props, nil
}

func (s *PropertyService) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetProperty: %w", err)
	}
	return p, nil
}

// SetLease replaces the current lease of a property. Existing ledger
// entries are left as they are.
func (s *PropertyService) SetLease(ctx context.Context, id uuid.UUID, lease *domain.Lease) (*domain.Property, error) {
	if lease == nil {
		return nil, fmt.Errorf("SetLease: %w", domain.ErrInvalidLease)
	}
	if problems := lease.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("SetLease: %w", &LeaseError{Fields: problems})
	}
	if err := s.properties.UpdateLease(ctx, id, lease, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("SetLease: %w", err)
	}

	logging.FromContext(ctx).Info("lease updated", "property_id", id)
	return s.GetProperty(ctx, id)
}

func (s *PropertyService) EndLease(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	if err := s.properties.UpdateLease(ctx, id, nil, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("EndLease: %w", err)
	}

	logging.FromContext(ctx).Info("lease ended", "property_id", id)
	return s.GetProperty(ctx, id)
}

// DeleteProperty removes the property and every ledger entry that
// references it, returning the number of entries removed.
func (s *PropertyService) DeleteProperty(ctx context.Context, id uuid.UUID) (int64, error) {
	removed, err := s.properties.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("DeleteProperty: %w", err)
	}

	logging.FromContext(ctx).Info("property deleted",
		"property_id", id,
		"ledger_entries_removed", removed,
	)
	return removed, nil
}
