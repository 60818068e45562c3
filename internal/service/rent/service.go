// Package rent posts rent charges, late fees, payments and adjustments to
// the property ledger and derives collection figures from it.
package rent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

type propertyRepo interface {
	List(ctx context.Context) ([]domain.Property, error)
	ListOccupied(ctx context.Context) ([]domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	List(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	properties propertyRepo
	ledger     ledgerRepo
	now        func() time.Time
}

// NewService builds the rent service. A nil now uses time.Now.
func NewService(properties propertyRepo, ledger ledgerRepo, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{properties: properties, ledger: ledger, now: now}
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Skip reasons reported by the batch generators.
const (
	ReasonInvalidRent        = "missing_or_invalid_rentCents"
	ReasonAlreadyExists      = "already_exists"
	ReasonNoLateFeeRule      = "no_late_fee_rule"
	ReasonLateFeeExists      = "late_fee_exists"
	ReasonNothingOutstanding = "nothing_outstanding"
	ReasonWithinGracePeriod  = "within_grace_period"
	ReasonInvalidFeeAmount   = "invalid_fee_amount"
)

type Skip struct {
	PropertyID uuid.UUID
	Reason     string
}

// Failure records a property whose entry could not be written. It does not
// stop the rest of the batch.
type Failure struct {
	PropertyID uuid.UUID
	Err        error
}

// GenerationResult is the outcome of one charge or late fee run.
type GenerationResult struct {
	Period  string
	Created []domain.LedgerEntry
	Skipped []Skip
	Failed  []Failure
}

func (r *GenerationResult) CreatedCount() int {
	return len(r.Created)
}

func (r *GenerationResult) skip(propertyID uuid.UUID, reason string) {
	r.Skipped = append(r.Skipped, Skip{PropertyID: propertyID, Reason: reason})
}
