package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Tenant struct {
	FullName string
	Phone    string
	Email    string
}

type Lease struct {
	StartDate          time.Time
	EndDate            time.Time
	DueDay             int
	RentCents          int64
	DepositCents       int64
	Tenant             *Tenant
	LateFeePercent     decimal.Decimal
	LateFeeAmountCents int64
	GraceDays          int
}

type Property struct {
	ID           uuid.UUID
	Address      string
	CurrentLease *Lease
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Occupied reports whether the property has a current lease.
func (p *Property) Occupied() bool {
	return p.CurrentLease != nil
}

var hundred = decimal.NewFromInt(100)

// maxLateFeePercent caps lateFeePercent, which is either a fraction or a
// whole percent.
var maxLateFeePercent = hundred

// LateFeeRule is the normalized late fee configuration of a lease. Percent
// is a fraction; a zero Percent means the flat amount applies.
type LateFeeRule struct {
	Percent     decimal.Decimal
	AmountCents int64
}

// LateFeeRule returns the lease's late fee rule, or false when neither a
// percentage nor a flat amount is configured. Percentages above 1 are
// whole percents and are divided by 100. Percent wins over the flat amount.
func (l *Lease) LateFeeRule() (LateFeeRule, bool) {
	pct := l.LateFeePercent
	if pct.GreaterThan(decimal.NewFromInt(1)) {
		pct = pct.Div(hundred)
	}
	if pct.IsPositive() {
		return LateFeeRule{Percent: pct}, true
	}
	if l.LateFeeAmountCents > 0 {
		return LateFeeRule{AmountCents: l.LateFeeAmountCents}, true
	}
	return LateFeeRule{}, false
}

// Fee computes the fee owed on outstanding cents, rounded to the nearest cent.
func (r LateFeeRule) Fee(outstandingCents int64) int64 {
	if r.Percent.IsPositive() {
		return decimal.NewFromInt(outstandingCents).Mul(r.Percent).Round(0).IntPart()
	}
	return r.AmountCents
}

func (l *Lease) Validate() []string {
	var problems []string
	if l.StartDate.IsZero() {
		problems = append(problems, "startDate")
	}
	if l.EndDate.IsZero() || (!l.StartDate.IsZero() && l.EndDate.Before(l.StartDate)) {
		problems = append(problems, "endDate")
	}
	if l.DueDay < 1 || l.DueDay > 31 {
		problems = append(problems, "dueDay")
	}
	if l.RentCents < 0 {
		problems = append(problems, "rentCents")
	}
	if l.DepositCents < 0 {
		problems = append(problems, "depositCents")
	}
	if !WithinDigits(l.LateFeePercent, 3, 6) ||
		l.LateFeePercent.IsNegative() || l.LateFeePercent.GreaterThan(maxLateFeePercent) {
		problems = append(problems, "lateFeePercent")
	}
	if l.LateFeeAmountCents < 0 {
		problems = append(problems, "lateFeeAmountCents")
	}
	if l.GraceDays < 0 {
		problems = append(problems, "graceDays")
	}
	if l.Tenant == nil || l.Tenant.FullName == "" {
		problems = append(problems, "tenant.fullName")
	}
	return problems
}
