// Package period handles "YYYY-MM" billing periods.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

const postingHour = 9

var pattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Parse validates a "YYYY-MM" period and returns its year and month.
func Parse(p string) (int, time.Month, error) {
	if !pattern.MatchString(p) {
		return 0, 0, fmt.Errorf("Parse %q: %w", p, domain.ErrInvalidPeriod)
	}
	year, _ := strconv.Atoi(p[:4])
	month, _ := strconv.Atoi(p[5:])
	if year < 1 || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("Parse %q: %w", p, domain.ErrInvalidPeriod)
	}
	return year, time.Month(month), nil
}

func Validate(p string) error {
	_, _, err := Parse(p)
	return err
}

// FromDate returns the UTC calendar month of t as "YYYY-MM".
func FromDate(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// LastDay returns the number of days in the given month.
func LastDay(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PostedAt returns 09:00 UTC on the given day of the period, with day
// clamped into the month.
func PostedAt(p string, day int) (time.Time, error) {
	year, month, err := Parse(p)
	if err != nil {
		return time.Time{}, fmt.Errorf("PostedAt: %w", err)
	}
	day = max(1, min(day, LastDay(year, month)))
	return time.Date(year, month, day, postingHour, 0, 0, 0, time.UTC), nil
}

// DueDate returns the instant rent is due in the period: 09:00 UTC on
// dueDay, clamped to the month's last day.
func DueDate(p string, dueDay int) (time.Time, error) {
	due, err := PostedAt(p, dueDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("DueDate: %w", err)
	}
	return due, nil
}

// LateAfter returns the instant after which rent due on dueDay of the
// period is late, given graceDays of tolerance.
func LateAfter(p string, dueDay, graceDays int) (time.Time, error) {
	due, err := DueDate(p, dueDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("LateAfter: %w", err)
	}
	return due.AddDate(0, 0, graceDays), nil
}
