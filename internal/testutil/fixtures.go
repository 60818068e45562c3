package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/repository"
)

const TestPassword = "password123"

func SeedOperator(t *testing.T, db *sql.DB, email, name string) *domain.Operator {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	o := &domain.Operator{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO operators (id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.Email, o.Name, o.PasswordHash, o.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed operator %s: %v", email, err)
	}
	return o
}

// TestLease returns an active lease with a 5% late fee and no grace period.
func TestLease(rentCents int64, dueDay int) *domain.Lease {
	return &domain.Lease{
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		DueDay:         dueDay,
		RentCents:      rentCents,
		DepositCents:   rentCents,
		Tenant:         &domain.Tenant{FullName: "Test Tenant", Email: "tenant@example.com"},
		LateFeePercent: decimal.RequireFromString("0.05"),
	}
}

// SeedProperty stores a property through the Postgres repository. A nil
// lease leaves it vacant.
func SeedProperty(t *testing.T, db *sql.DB, address string, lease *domain.Lease) *domain.Property {
	t.Helper()

	now := time.Now().UTC()
	p := &domain.Property{
		ID:           uuid.New(),
		Address:      address,
		CurrentLease: lease,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repository.NewPropertyRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("seed property %s: %v", address, err)
	}
	return p
}

func CountLedgerEntries(t *testing.T, db *sql.DB, propertyID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE property_id = $1`, propertyID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for property %s: %v", propertyID, err)
	}
	return count
}
