package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/logging"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

const (
	collectionSheet = "Collection"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func ledgerSheetName(period string) string {
	return "Ledger " + period
}

// BuildWorkbook lays out a period's ledger entries and collection rows as
// two sheets. Amounts are written in dollars.
func BuildWorkbook(entries []domain.LedgerEntry, c *rent.Collection) (*excelize.File, error) {
	f := excelize.NewFile()

	addresses := make(map[uuid.UUID]string, len(c.Rows)+len(c.Vacant))
	for _, row := range c.Rows {
		addresses[row.Property.ID] = row.Property.Address
	}
	for _, p := range c.Vacant {
		addresses[p.ID] = p.Address
	}

	ledgerSheet := ledgerSheetName(c.Period)
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: %w", err)
	}
	if err := writeRows(f, ledgerSheet, []any{"Date", "Property", "Type", "SubType", "Amount"}, len(entries), func(i int) []any {
		e := entries[i]
		address := addresses[e.PropertyID]
		if address == "" {
			address = e.PropertyID.String()
		}
		return []any{e.PostedAt.Format("2006-01-02"), address, string(e.Type), string(e.SubType), dollars(e.AmountCents)}
	}); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: ledger: %w", err)
	}

	if _, err := f.NewSheet(collectionSheet); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: %w", err)
	}
	if err := writeRows(f, collectionSheet, []any{"Property", "Due Day", "Due", "Paid", "Outstanding"}, len(c.Rows)+1, func(i int) []any {
		if i == len(c.Rows) {
			return []any{"Total", "", dollars(c.Totals.DueCents), dollars(c.Totals.PaidCents), dollars(c.Totals.OutstandingCents)}
		}
		row := c.Rows[i]
		return []any{row.Property.Address, row.Property.CurrentLease.DueDay, dollars(row.DueCents), dollars(row.PaidCents), dollars(row.OutstandingCents)}
	}); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: collection: %w", err)
	}

	if err := f.SetColWidth(ledgerSheet, "B", "B", 32); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: %w", err)
	}
	if err := f.SetColWidth(collectionSheet, "A", "A", 32); err != nil {
		return nil, fmt.Errorf("BuildWorkbook: %w", err)
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []any, n int, row func(i int) []any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func dollars(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

func (h *RentHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := h.rent.Collection(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	entries, err := h.rent.Activities(r.Context(), domain.LedgerFilter{Period: c.Period})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	f, err := BuildWorkbook(entries, c)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"rent_%s.xlsx\"", c.Period))
	if err := f.Write(w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write workbook", "period", c.Period, "error", err)
	}
}
