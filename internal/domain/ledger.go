package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryType string

const (
	EntryTypeCharge     EntryType = "CHARGE"
	EntryTypePayment    EntryType = "PAYMENT"
	EntryTypeLateFee    EntryType = "LATE_FEE"
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
)

type EntrySubType string

const (
	SubTypeRent    EntrySubType = "RENT"
	SubTypeLateFee EntrySubType = "LATE_FEE"
)

// LedgerEntry is immutable once stored. CHARGE and LATE_FEE amounts are
// positive, PAYMENT amounts are negative, ADJUSTMENT may carry either sign.
type LedgerEntry struct {
	ID          uuid.UUID
	Period      string
	PropertyID  uuid.UUID
	Type        EntryType
	SubType     EntrySubType
	AmountCents int64
	PostedAt    time.Time
	CreatedAt   time.Time
}

// LedgerFilter narrows a ledger listing. Zero values match everything.
type LedgerFilter struct {
	Period     string
	PropertyID uuid.UUID
}

func (e *LedgerEntry) Title() string {
	switch {
	case e.Type == EntryTypeCharge && e.SubType == SubTypeRent:
		return "Rent charge posted"
	case e.Type == EntryTypePayment && e.SubType == SubTypeRent:
		return "Payment received"
	case e.Type == EntryTypeLateFee:
		return "Late fee posted"
	case e.Type == EntryTypeAdjustment:
		return "Adjustment created"
	default:
		return "Ledger update"
	}
}
