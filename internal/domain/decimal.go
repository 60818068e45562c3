package domain

import "github.com/shopspring/decimal"

// WithinDigits reports whether d has at most maxInt digits before the
// decimal point and at most maxFrac after it. It reads only the exponent
// and coefficient length, so it stays cheap on values like "1e100000000"
// that arithmetic or formatting would expand.
func WithinDigits(d decimal.Decimal, maxInt, maxFrac int) bool {
	exp := int64(d.Exponent())
	if exp < -int64(maxFrac) || exp > int64(maxInt) {
		return false
	}
	return int64(d.NumDigits())+exp <= int64(maxInt)
}
