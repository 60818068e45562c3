package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/repository"
	"github.com/josh-kwaku/rentbook/internal/testutil"
)

func newEntry(propertyID uuid.UUID, period string, typ domain.EntryType, sub domain.EntrySubType, amount int64, postedAt time.Time) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:          uuid.New(),
		Period:      period,
		PropertyID:  propertyID,
		Type:        typ,
		SubType:     sub,
		AmountCents: amount,
		PostedAt:    postedAt,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMigrate_SecondRunAppliesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)

	applied, err := repository.Migrate(context.Background(), db, repository.FindMigrationsDir())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestPropertyRepository_LeaseRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPropertyRepository(db)
	ctx := context.Background()

	lease := testutil.TestLease(135000, 1)
	lease.GraceDays = 3
	lease.Tenant.Phone = "402-555-0100"
	p := testutil.SeedProperty(t, db, "12 Elm St", lease)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentLease)
	assert.Equal(t, "12 Elm St", got.Address)
	assert.Equal(t, int64(135000), got.CurrentLease.RentCents)
	assert.Equal(t, 1, got.CurrentLease.DueDay)
	assert.Equal(t, 3, got.CurrentLease.GraceDays)
	assert.True(t, got.CurrentLease.LateFeePercent.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, got.CurrentLease.StartDate.Equal(lease.StartDate))
	require.NotNil(t, got.CurrentLease.Tenant)
	assert.Equal(t, "402-555-0100", got.CurrentLease.Tenant.Phone)

	require.NoError(t, repo.UpdateLease(ctx, p.ID, nil, time.Now().UTC()))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentLease)
}

func TestPropertyRepository_DuplicateAddressIgnoresCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPropertyRepository(db)

	testutil.SeedProperty(t, db, "4 Oak Ave", nil)

	err := repo.Create(context.Background(), &domain.Property{
		ID:        uuid.New(),
		Address:   "4 OAK AVE",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateAddress)
}

func TestPropertyRepository_ListOccupied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPropertyRepository(db)
	ctx := context.Background()

	occupied := testutil.SeedProperty(t, db, "1 Main St", testutil.TestLease(100000, 1))
	testutil.SeedProperty(t, db, "2 Main St", nil)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	leased, err := repo.ListOccupied(ctx)
	require.NoError(t, err)
	require.Len(t, leased, 1)
	assert.Equal(t, occupied.ID, leased[0].ID)
}

func TestPropertyRepository_DeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	props := repository.NewPropertyRepository(db)
	ledger := repository.NewLedgerRepository(db)
	ctx := context.Background()

	p := testutil.SeedProperty(t, db, "9 Pine Rd", testutil.TestLease(90000, 1))
	other := testutil.SeedProperty(t, db, "10 Pine Rd", testutil.TestLease(90000, 1))
	posted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 90000, posted)))
	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypePayment, domain.SubTypeRent, -50000, posted)))
	require.NoError(t, ledger.Create(ctx, newEntry(other.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 90000, posted)))

	removed, err := props.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, 0, testutil.CountLedgerEntries(t, db, p.ID))
	assert.Equal(t, 1, testutil.CountLedgerEntries(t, db, other.ID))

	_, err = props.Delete(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerRepository_OneRentChargePerPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	ctx := context.Background()

	p := testutil.SeedProperty(t, db, "3 Birch Ln", testutil.TestLease(120000, 1))
	posted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 120000, posted)))

	err := ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 120000, posted))
	require.ErrorIs(t, err, domain.ErrDuplicateEntry)

	// other periods and adjustments are unaffected
	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-04", domain.EntryTypeCharge, domain.SubTypeRent, 120000, posted.AddDate(0, 1, 0))))
	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeAdjustment, domain.SubTypeRent, 5000, posted)))
	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeAdjustment, domain.SubTypeRent, -5000, posted)))
}

func TestLedgerRepository_OneLateFeePerPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	ctx := context.Background()

	p := testutil.SeedProperty(t, db, "5 Cedar Ct", testutil.TestLease(120000, 1))
	posted := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeLateFee, domain.SubTypeLateFee, 6000, posted)))
	err := ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeLateFee, domain.SubTypeLateFee, 6000, posted))
	require.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestLedgerRepository_UnknownProperty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := repository.NewLedgerRepository(db)

	err := ledger.Create(context.Background(), newEntry(uuid.New(), "2026-03", domain.EntryTypePayment, domain.SubTypeRent, -100, time.Now().UTC()))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerRepository_ConcurrentChargeCreation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	ctx := context.Background()

	p := testutil.SeedProperty(t, db, "7 Walnut Way", testutil.TestLease(100000, 1))
	posted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	const workers = 10
	var (
		wg         sync.WaitGroup
		created    atomic.Int32
		duplicates atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := ledger.Create(ctx, newEntry(p.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 100000, posted))
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, domain.ErrDuplicateEntry):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(workers-1), duplicates.Load())
	assert.Equal(t, 1, testutil.CountLedgerEntries(t, db, p.ID))
}

func TestLedgerRepository_ListFilterAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ledger := repository.NewLedgerRepository(db)
	ctx := context.Background()

	a := testutil.SeedProperty(t, db, "1 First St", testutil.TestLease(100000, 1))
	b := testutil.SeedProperty(t, db, "2 First St", testutil.TestLease(100000, 1))

	march := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	charge := newEntry(a.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 100000, march)
	payment := newEntry(a.ID, "2026-03", domain.EntryTypePayment, domain.SubTypeRent, -100000, march.AddDate(0, 0, 4))
	otherProp := newEntry(b.ID, "2026-03", domain.EntryTypeCharge, domain.SubTypeRent, 100000, march)
	otherPeriod := newEntry(a.ID, "2026-04", domain.EntryTypeCharge, domain.SubTypeRent, 100000, march.AddDate(0, 1, 0))
	for _, e := range []*domain.LedgerEntry{charge, payment, otherProp, otherPeriod} {
		require.NoError(t, ledger.Create(ctx, e))
	}

	got, err := ledger.List(ctx, domain.LedgerFilter{Period: "2026-03", PropertyID: a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, payment.ID, got[0].ID)
	assert.Equal(t, charge.ID, got[1].ID)

	got, err = ledger.List(ctx, domain.LedgerFilter{Period: "2026-03"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = ledger.List(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	require.NoError(t, ledger.Delete(ctx, payment.ID))
	_, err = ledger.GetByID(ctx, payment.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, ledger.Delete(ctx, payment.ID), domain.ErrNotFound)
}

func TestOperatorRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewOperatorRepository(db)
	ctx := context.Background()

	op := testutil.SeedOperator(t, db, "ops@rentbook.test", "Ops")

	got, err := repo.GetByEmail(ctx, "ops@rentbook.test")
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	got, err = repo.GetByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", got.Name)

	_, err = repo.GetByEmail(ctx, "missing@rentbook.test")
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Create(ctx, &domain.Operator{
		ID:           uuid.New(),
		Email:        "ops@rentbook.test",
		Name:         "Dup",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrOperatorExists)
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewIdempotencyRepository(db)
	ctx := context.Background()
	op := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Set(ctx, &repository.IdempotencyCacheEntry{
		Key: "k1", OperatorID: op, RequestHash: "h1", StatusCode: 201,
		ResponseBody: []byte(`{"success":true}`), CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, repo.Set(ctx, &repository.IdempotencyCacheEntry{
		Key: "stale", OperatorID: op, RequestHash: "h2", StatusCode: 200,
		ResponseBody: []byte(`{}`), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))

	got, err := repo.Get(ctx, "k1", op)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(got.ResponseBody))

	// scoped per operator
	got, err = repo.Get(ctx, "k1", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Get(ctx, "stale", op)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
