package rent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/ledger"
	"github.com/josh-kwaku/rentbook/internal/period"
)

type PeriodSummary struct {
	Period  string
	Summary ledger.Summary
}

type CollectionRow struct {
	Property domain.Property
	ledger.Row
}

// Collection is the per-property view of one period: what each occupied
// property owes and has paid, and which properties are vacant.
type Collection struct {
	Period string
	Rows   []CollectionRow
	Totals ledger.Totals
	Vacant []domain.Property
}

type PropertyLedger struct {
	Period   string
	Property domain.Property
	Entries  []domain.LedgerEntry
	Row      ledger.Row
}

// resolvePeriod defaults an empty period to the current UTC month.
func (s *Service) resolvePeriod(p string) (string, error) {
	if p == "" {
		return period.FromDate(s.clock()), nil
	}
	if err := period.Validate(p); err != nil {
		return "", err
	}
	return p, nil
}

func (s *Service) Summary(ctx context.Context, p string) (*PeriodSummary, error) {
	p, err := s.resolvePeriod(p)
	if err != nil {
		return nil, fmt.Errorf("Summary: %w", err)
	}

	occupied, err := s.properties.ListOccupied(ctx)
	if err != nil {
		return nil, fmt.Errorf("Summary: list properties: %w", err)
	}
	entries, err := s.ledger.List(ctx, domain.LedgerFilter{Period: p})
	if err != nil {
		return nil, fmt.Errorf("Summary: list entries: %w", err)
	}

	ids := make([]uuid.UUID, len(occupied))
	for i, prop := range occupied {
		ids[i] = prop.ID
	}
	return &PeriodSummary{Period: p, Summary: ledger.Aggregate(entries, ids)}, nil
}

func (s *Service) Collection(ctx context.Context, p string) (*Collection, error) {
	p, err := s.resolvePeriod(p)
	if err != nil {
		return nil, fmt.Errorf("Collection: %w", err)
	}

	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Collection: list properties: %w", err)
	}
	entries, err := s.ledger.List(ctx, domain.LedgerFilter{Period: p})
	if err != nil {
		return nil, fmt.Errorf("Collection: list entries: %w", err)
	}

	var occupied []domain.Property
	c := &Collection{Period: p}
	for _, prop := range props {
		if prop.Occupied() {
			occupied = append(occupied, prop)
		} else {
			c.Vacant = append(c.Vacant, prop)
		}
	}

	ids := make([]uuid.UUID, len(occupied))
	for i, prop := range occupied {
		ids[i] = prop.ID
	}
	summary := ledger.Aggregate(entries, ids)
	for i, row := range summary.Rows {
		c.Rows = append(c.Rows, CollectionRow{Property: occupied[i], Row: row})
	}
	c.Totals = summary.Totals
	return c, nil
}

// Activities lists ledger entries newest first. An empty period lists
// every period.
func (s *Service) Activities(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	if filter.Period != "" {
		if err := period.Validate(filter.Period); err != nil {
			return nil, fmt.Errorf("Activities: %w", err)
		}
	}
	entries, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("Activities: %w", err)
	}
	return entries, nil
}

// PropertyLedger returns one property's entries for the period together
// with its aggregated row. Vacant properties get a zero row.
func (s *Service) PropertyLedger(ctx context.Context, propertyID uuid.UUID, p string) (*PropertyLedger, error) {
	p, err := s.resolvePeriod(p)
	if err != nil {
		return nil, fmt.Errorf("PropertyLedger: %w", err)
	}

	prop, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("PropertyLedger: %w", err)
	}
	entries, err := s.ledger.List(ctx, domain.LedgerFilter{Period: p, PropertyID: propertyID})
	if err != nil {
		return nil, fmt.Errorf("PropertyLedger: list entries: %w", err)
	}

	pl := &PropertyLedger{
		Period:   p,
		Property: *prop,
		Entries:  entries,
		Row:      ledger.Row{PropertyID: propertyID},
	}
	if prop.Occupied() {
		summary := ledger.Aggregate(entries, []uuid.UUID{propertyID})
		pl.Row = summary.Rows[0]
	}
	return pl, nil
}
