package rent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/period"
)

// AdjustmentRequest describes a manual correction. A positive amount adds to
// what is due, a negative amount counts as paid.
type AdjustmentRequest struct {
	PropertyID  uuid.UUID
	Period      string
	AmountCents int64
	PostedAt    *time.Time
}

func (s *Service) CreateAdjustment(ctx context.Context, req AdjustmentRequest) (*domain.LedgerEntry, error) {
	if req.PropertyID == uuid.Nil {
		return nil, fmt.Errorf("CreateAdjustment: propertyId: %w", domain.ErrInvalidRequest)
	}
	if err := period.Validate(req.Period); err != nil {
		return nil, fmt.Errorf("CreateAdjustment: %w", err)
	}
	if req.AmountCents == 0 {
		return nil, fmt.Errorf("CreateAdjustment: amountCents must be non-zero: %w", domain.ErrInvalidAmount)
	}

	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		return nil, fmt.Errorf("CreateAdjustment: %w", err)
	}

	now := s.clock()
	postedAt := now
	if req.PostedAt != nil {
		postedAt = req.PostedAt.UTC()
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		Period:      req.Period,
		PropertyID:  req.PropertyID,
		Type:        domain.EntryTypeAdjustment,
		SubType:     domain.SubTypeRent,
		AmountCents: req.AmountCents,
		PostedAt:    postedAt,
		CreatedAt:   now,
	}
	if err := s.ledger.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("CreateAdjustment: %w", err)
	}

	logging.FromContext(ctx).Info("adjustment created",
		"entry_id", entry.ID,
		"property_id", entry.PropertyID,
		"period", entry.Period,
		"amount_cents", entry.AmountCents,
	)
	return entry, nil
}

// DeleteEntry removes a single ledger entry. Nothing else is affected.
func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.ledger.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteEntry: %w", err)
	}
	logging.FromContext(ctx).Info("ledger entry deleted", "entry_id", id)
	return nil
}
