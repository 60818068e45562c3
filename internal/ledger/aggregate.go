// Package ledger derives rent collection figures from ledger entries.
package ledger

import (
	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

type Row struct {
	PropertyID       uuid.UUID
	DueCents         int64
	PaidCents        int64
	OutstandingCents int64
}

type Totals struct {
	DueCents         int64
	PaidCents        int64
	OutstandingCents int64
}

type Summary struct {
	Rows   []Row
	Totals Totals
}

// Row returns the row for propertyID, or false if the property was not
// part of the aggregation.
func (s *Summary) Row(propertyID uuid.UUID) (Row, bool) {
	for _, r := range s.Rows {
		if r.PropertyID == propertyID {
			return r, true
		}
	}
	return Row{}, false
}

// Aggregate sums the RENT entries of one period per occupied property.
// Every occupied property gets a row, in the order given. Entries for
// properties outside occupied are ignored. Outstanding never goes below zero.
func Aggregate(entries []domain.LedgerEntry, occupied []uuid.UUID) Summary {
	rows := make([]Row, len(occupied))
	index := make(map[uuid.UUID]int, len(occupied))
	for i, id := range occupied {
		rows[i] = Row{PropertyID: id}
		index[id] = i
	}

	for _, e := range entries {
		if e.SubType != domain.SubTypeRent {
			continue
		}
		i, ok := index[e.PropertyID]
		if !ok {
			continue
		}
		row := &rows[i]

		switch e.Type {
		case domain.EntryTypeCharge:
			row.DueCents += e.AmountCents
		case domain.EntryTypePayment:
			row.PaidCents += abs(e.AmountCents)
		case domain.EntryTypeAdjustment:
			if e.AmountCents >= 0 {
				row.DueCents += e.AmountCents
			} else {
				row.PaidCents += -e.AmountCents
			}
		}
	}

	var totals Totals
	for i := range rows {
		rows[i].OutstandingCents = max(0, rows[i].DueCents-rows[i].PaidCents)
		totals.DueCents += rows[i].DueCents
		totals.PaidCents += rows[i].PaidCents
		totals.OutstandingCents += rows[i].OutstandingCents
	}

	return Summary{Rows: rows, Totals: totals}
}

// Outstanding is the outstanding rent of a single property.
func Outstanding(entries []domain.LedgerEntry, propertyID uuid.UUID) int64 {
	s := Aggregate(entries, []uuid.UUID{propertyID})
	return s.Rows[0].OutstandingCents
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
