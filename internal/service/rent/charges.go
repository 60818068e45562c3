package rent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/period"
)

// GenerateCharges posts one CHARGE/RENT entry per occupied property for p,
// dated 09:00 UTC on the first of the month. Properties that already have
// a charge for p are skipped, so repeated runs are safe. The store's
// uniqueness constraint decides races between concurrent runs.
func (s *Service) GenerateCharges(ctx context.Context, p string) (*GenerationResult, error) {
	log := logging.FromContext(ctx)

	postedAt, err := period.PostedAt(p, 1)
	if err != nil {
		return nil, fmt.Errorf("GenerateCharges: %w", err)
	}

	props, err := s.properties.ListOccupied(ctx)
	if err != nil {
		return nil, fmt.Errorf("GenerateCharges: list properties: %w", err)
	}

	existing, err := s.ledger.List(ctx, domain.LedgerFilter{Period: p})
	if err != nil {
		return nil, fmt.Errorf("GenerateCharges: list entries: %w", err)
	}
	charged := make(map[uuid.UUID]bool)
	for _, e := range existing {
		if e.Type == domain.EntryTypeCharge && e.SubType == domain.SubTypeRent {
			charged[e.PropertyID] = true
		}
	}

	result := &GenerationResult{Period: p}
	for _, prop := range props {
		if prop.CurrentLease == nil || prop.CurrentLease.RentCents <= 0 {
			result.skip(prop.ID, ReasonInvalidRent)
			log.Debug("charge skipped", "property_id", prop.ID, "reason", ReasonInvalidRent)
			continue
		}
		if charged[prop.ID] {
			result.skip(prop.ID, ReasonAlreadyExists)
			continue
		}

		entry := domain.LedgerEntry{
			ID:          uuid.New(),
			Period:      p,
			PropertyID:  prop.ID,
			Type:        domain.EntryTypeCharge,
			SubType:     domain.SubTypeRent,
			AmountCents: prop.CurrentLease.RentCents,
			PostedAt:    postedAt,
			CreatedAt:   s.clock(),
		}
		if err := s.ledger.Create(ctx, &entry); err != nil {
			if errors.Is(err, domain.ErrDuplicateEntry) {
				result.skip(prop.ID, ReasonAlreadyExists)
				continue
			}
			log.Error("failed to create charge", "property_id", prop.ID, "period", p, "error", err)
			result.Failed = append(result.Failed, Failure{PropertyID: prop.ID, Err: err})
			continue
		}

		result.Created = append(result.Created, entry)
		log.Info("charge created",
			"property_id", prop.ID,
			"period", p,
			"amount_cents", entry.AmountCents,
		)
	}

	return result, nil
}
