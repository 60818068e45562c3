package rent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/money"
	"github.com/josh-kwaku/rentbook/internal/period"
)

// PaymentRequest describes a payment to record. AmountDollars is a decimal
// string or a JSON number.
type PaymentRequest struct {
	PropertyID    uuid.UUID
	AmountDollars any
	PostedAt      *time.Time
}

// RecordPayment posts a PAYMENT/RENT entry for the property. The period is
// the UTC month of the posting time, which defaults to now.
func (s *Service) RecordPayment(ctx context.Context, req PaymentRequest) (*domain.LedgerEntry, error) {
	if req.PropertyID == uuid.Nil {
		return nil, fmt.Errorf("RecordPayment: propertyId: %w", domain.ErrInvalidRequest)
	}

	cents, err := money.DollarsToCents(req.AmountDollars)
	if err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}
	if cents <= 0 {
		return nil, fmt.Errorf("RecordPayment: %w", domain.ErrInvalidAmount)
	}

	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	now := s.clock()
	postedAt := now
	if req.PostedAt != nil {
		postedAt = req.PostedAt.UTC()
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		Period:      period.FromDate(postedAt),
		PropertyID:  req.PropertyID,
		Type:        domain.EntryTypePayment,
		SubType:     domain.SubTypeRent,
		AmountCents: -cents,
		PostedAt:    postedAt,
		CreatedAt:   now,
	}
	if err := s.ledger.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	logging.FromContext(ctx).Info("payment recorded",
		"entry_id", entry.ID,
		"property_id", entry.PropertyID,
		"period", entry.Period,
		"amount_cents", entry.AmountCents,
	)
	return entry, nil
}
