package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

const Currency = gomoney.USD

// Bounds on accepted dollar amounts, checked before any arithmetic.
const (
	maxDollarDigits   = 15
	maxFractionDigits = 10
)

var (
	centsPerDollar = decimal.NewFromInt(100)
	maxCents       = decimal.NewFromInt(math.MaxInt64)
	minCents       = decimal.NewFromInt(math.MinInt64)
)

// DollarsToCents converts a dollar amount given as a decimal string or a
// number into integer cents, rounding half away from zero. It fails with
// domain.ErrInvalidAmount for anything that is not a finite number.
func DollarsToCents(amount any) (int64, error) {
	d, err := toDecimal(amount)
	if err != nil {
		return 0, fmt.Errorf("DollarsToCents: %w", err)
	}

	cents := d.Mul(centsPerDollar).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("DollarsToCents: out of range: %w", domain.ErrInvalidAmount)
	}
	return cents.IntPart(), nil
}

func toDecimal(amount any) (decimal.Decimal, error) {
	d, err := parseDecimal(amount)
	if err != nil {
		return decimal.Zero, err
	}
	if !domain.WithinDigits(d, maxDollarDigits, maxFractionDigits) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return d, nil
}

func parseDecimal(amount any) (decimal.Decimal, error) {
	switch v := amount.(type) {
	case nil:
		return decimal.Zero, domain.ErrInvalidAmount
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return d, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, domain.ErrInvalidAmount
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return parseDecimal(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, domain.ErrInvalidAmount
	}
}

// Format renders cents as a USD display string, e.g. "$1,350.00".
func Format(cents int64) string {
	return gomoney.New(cents, Currency).Display()
}

// FormatAbs renders the magnitude of cents, used where the entry type
// already conveys the direction.
func FormatAbs(cents int64) string {
	if cents < 0 {
		cents = -cents
	}
	return Format(cents)
}
