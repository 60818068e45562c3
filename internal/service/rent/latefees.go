package rent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/ledger"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/period"
)

// GenerateLateFees posts at most one LATE_FEE entry per occupied property
// for p. A fee is assessed when the lease has a late fee rule and rent is
// still outstanding. Leases with graceDays set are also held back until
// that many days after the due date have passed.
func (s *Service) GenerateLateFees(ctx context.Context, p string) (*GenerationResult, error) {
	log := logging.FromContext(ctx)

	if err := period.Validate(p); err != nil {
		return nil, fmt.Errorf("GenerateLateFees: %w", err)
	}

	props, err := s.properties.ListOccupied(ctx)
	if err != nil {
		return nil, fmt.Errorf("GenerateLateFees: list properties: %w", err)
	}

	entries, err := s.ledger.List(ctx, domain.LedgerFilter{Period: p})
	if err != nil {
		return nil, fmt.Errorf("GenerateLateFees: list entries: %w", err)
	}
	feed := make(map[uuid.UUID]bool)
	for _, e := range entries {
		if e.Type == domain.EntryTypeLateFee {
			feed[e.PropertyID] = true
		}
	}

	now := s.clock()
	result := &GenerationResult{Period: p}
	for _, prop := range props {
		lease := prop.CurrentLease
		rule, ok := lease.LateFeeRule()
		if !ok {
			result.skip(prop.ID, ReasonNoLateFeeRule)
			continue
		}
		if feed[prop.ID] {
			result.skip(prop.ID, ReasonLateFeeExists)
			continue
		}

		if lease.GraceDays > 0 {
			lateAfter, err := period.LateAfter(p, lease.DueDay, lease.GraceDays)
			if err != nil {
				return nil, fmt.Errorf("GenerateLateFees: %w", err)
			}
			if !now.After(lateAfter) {
				result.skip(prop.ID, ReasonWithinGracePeriod)
				continue
			}
		}

		outstanding := ledger.Outstanding(entries, prop.ID)
		if outstanding <= 0 {
			result.skip(prop.ID, ReasonNothingOutstanding)
			log.Debug("late fee skipped", "property_id", prop.ID, "reason", ReasonNothingOutstanding)
			continue
		}

		fee := rule.Fee(outstanding)
		if fee <= 0 {
			result.skip(prop.ID, ReasonInvalidFeeAmount)
			continue
		}

		entry := domain.LedgerEntry{
			ID:          uuid.New(),
			Period:      p,
			PropertyID:  prop.ID,
			Type:        domain.EntryTypeLateFee,
			SubType:     domain.SubTypeLateFee,
			AmountCents: fee,
			PostedAt:    now,
			CreatedAt:   now,
		}
		if err := s.ledger.Create(ctx, &entry); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				result.skip(prop.ID, ReasonLateFeeExists)
				continue
			}
			log.Error("failed to create late fee", "property_id", prop.ID, "period", p, "error", err)
			result.Failed = append(result.Failed, Failure{PropertyID: prop.ID, Err: err})
			continue
		}

		result.Created = append(result.Created, entry)
		log.Info("late fee created",
			"property_id", prop.ID,
			"period", p,
			"outstanding_cents", outstanding,
			"amount_cents", fee,
		)
	}

	return result, nil
}
