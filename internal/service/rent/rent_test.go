package rent_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/repository/memory"
	"github.com/josh-kwaku/rentbook/internal/service/rent"
)

var march20 = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func setupRentService(t *testing.T, now time.Time) (*rent.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return rent.NewService(store.Properties(), store.Ledger(), fixedClock(now)), store
}

func testLease(rentCents int64) *domain.Lease {
	return &domain.Lease{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		DueDay:    1,
		RentCents: rentCents,
		Tenant:    &domain.Tenant{FullName: "Dana Renter"},
	}
}

func seedProperty(t *testing.T, store *memory.Store, address string, lease *domain.Lease) *domain.Property {
	t.Helper()
	p := &domain.Property{
		ID:           uuid.New(),
		Address:      address,
		CurrentLease: lease,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Properties().Create(context.Background(), p))
	return p
}

func countEntries(t *testing.T, store *memory.Store, filter domain.LedgerFilter, typ domain.EntryType) int {
	t.Helper()
	entries, err := store.Ledger().List(context.Background(), filter)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestRentLifecycle(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()

	lease := testLease(135000)
	lease.LateFeePercent = decimal.NewFromInt(5)
	prop := seedProperty(t, store, "1 Main St", lease)

	charges, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)
	require.Equal(t, 1, charges.CreatedCount())
	charge := charges.Created[0]
	assert.Equal(t, domain.EntryTypeCharge, charge.Type)
	assert.Equal(t, domain.SubTypeRent, charge.SubType)
	assert.Equal(t, int64(135000), charge.AmountCents)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), charge.PostedAt)

	payment, err := svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: "800.00"})
	require.NoError(t, err)
	assert.Equal(t, int64(-80000), payment.AmountCents)
	assert.Equal(t, "2026-03", payment.Period)
	assert.Equal(t, domain.EntryTypePayment, payment.Type)

	summary, err := svc.Summary(ctx, "2026-03")
	require.NoError(t, err)
	row, ok := summary.Summary.Row(prop.ID)
	require.True(t, ok)
	assert.Equal(t, int64(135000), row.DueCents)
	assert.Equal(t, int64(80000), row.PaidCents)
	assert.Equal(t, int64(55000), row.OutstandingCents)

	fees, err := svc.GenerateLateFees(ctx, "2026-03")
	require.NoError(t, err)
	require.Equal(t, 1, fees.CreatedCount())
	assert.Equal(t, int64(2750), fees.Created[0].AmountCents)
	assert.Equal(t, domain.SubTypeLateFee, fees.Created[0].SubType)
	assert.Equal(t, march20, fees.Created[0].PostedAt)

	again, err := svc.GenerateLateFees(ctx, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 0, again.CreatedCount())
	require.Len(t, again.Skipped, 1)
	assert.Equal(t, rent.ReasonLateFeeExists, again.Skipped[0].Reason)

	// late fees carry the LATE_FEE subtype and stay out of rent outstanding
	after, err := svc.Summary(ctx, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, int64(55000), after.Summary.Totals.OutstandingCents)
}

func TestGenerateLateFees_DueDateNotYetReached(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		now    time.Time
		period string
		pay    string
		want   int64
	}{
		{name: "before due hour on due day", now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), period: "2026-03", pay: "800.00", want: 2750},
		{name: "future period", now: march20, period: "2026-05", want: 6750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupRentService(t, tt.now)
			lease := testLease(135000)
			lease.LateFeePercent = decimal.NewFromInt(5)
			prop := seedProperty(t, store, "1 Main St", lease)

			_, err := svc.GenerateCharges(ctx, tt.period)
			require.NoError(t, err)
			if tt.pay != "" {
				_, err := svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: tt.pay})
				require.NoError(t, err)
			}

			fees, err := svc.GenerateLateFees(ctx, tt.period)
			require.NoError(t, err)
			require.Equal(t, 1, fees.CreatedCount())
			assert.Empty(t, fees.Skipped)
			assert.Equal(t, tt.want, fees.Created[0].AmountCents)
		})
	}
}

func TestGenerateCharges_Idempotent(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()

	seedProperty(t, store, "1 Main St", testLease(100000))
	seedProperty(t, store, "2 Main St", testLease(90000))
	seedProperty(t, store, "3 Main St", nil)

	first, err := svc.GenerateCharges(ctx, "2026-04")
	require.NoError(t, err)
	assert.Equal(t, 2, first.CreatedCount())
	assert.Empty(t, first.Skipped)

	second, err := svc.GenerateCharges(ctx, "2026-04")
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount())
	require.Len(t, second.Skipped, 2)
	for _, s := range second.Skipped {
		assert.Equal(t, rent.ReasonAlreadyExists, s.Reason)
	}

	assert.Equal(t, 2, countEntries(t, store, domain.LedgerFilter{Period: "2026-04"}, domain.EntryTypeCharge))
}

func TestGenerateCharges_SkipsInvalidRent(t *testing.T) {
	svc, store := setupRentService(t, march20)

	prop := seedProperty(t, store, "1 Main St", testLease(0))

	result, err := svc.GenerateCharges(context.Background(), "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, rent.Skip{PropertyID: prop.ID, Reason: rent.ReasonInvalidRent}, result.Skipped[0])
}

func TestGenerateCharges_InvalidPeriod(t *testing.T) {
	svc, _ := setupRentService(t, march20)

	for _, p := range []string{"", "2026-3", "March", "2026-13", "2026-00"} {
		t.Run(p, func(t *testing.T) {
			_, err := svc.GenerateCharges(context.Background(), p)
			assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

			_, err = svc.GenerateLateFees(context.Background(), p)
			assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
		})
	}
}

func TestGenerateCharges_Concurrent(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()

	for _, addr := range []string{"1 Oak Ave", "2 Oak Ave", "3 Oak Ave", "4 Oak Ave"} {
		seedProperty(t, store, addr, testLease(120000))
	}

	const workers = 8
	var wg sync.WaitGroup
	created := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.GenerateCharges(ctx, "2026-05")
			if assert.NoError(t, err) {
				created[i] = result.CreatedCount()
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range created {
		total += n
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 4, countEntries(t, store, domain.LedgerFilter{Period: "2026-05"}, domain.EntryTypeCharge))
}

func TestGenerateLateFees_Skips(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		lease  func() *domain.Lease
		pay    string
		now    time.Time
		reason string
	}{
		{
			name:   "no rule",
			lease:  func() *domain.Lease { return testLease(100000) },
			now:    march20,
			reason: rent.ReasonNoLateFeeRule,
		},
		{
			name: "paid in full",
			lease: func() *domain.Lease {
				l := testLease(100000)
				l.LateFeePercent = decimal.RequireFromString("0.05")
				return l
			},
			pay:    "1000",
			now:    march20,
			reason: rent.ReasonNothingOutstanding,
		},
		{
			name: "overpaid",
			lease: func() *domain.Lease {
				l := testLease(100000)
				l.LateFeeAmountCents = 5000
				return l
			},
			pay:    "1500.50",
			now:    march20,
			reason: rent.ReasonNothingOutstanding,
		},
		{
			name: "within grace period",
			lease: func() *domain.Lease {
				l := testLease(100000)
				l.LateFeeAmountCents = 5000
				l.DueDay = 15
				l.GraceDays = 10
				return l
			},
			now:    march20,
			reason: rent.ReasonWithinGracePeriod,
		},
		{
			name: "fee rounds to zero",
			lease: func() *domain.Lease {
				l := testLease(100000)
				l.LateFeePercent = decimal.RequireFromString("0.0001")
				return l
			},
			pay:    "999.96",
			now:    march20,
			reason: rent.ReasonInvalidFeeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupRentService(t, tt.now)
			prop := seedProperty(t, store, "9 Elm St", tt.lease())

			_, err := svc.GenerateCharges(ctx, "2026-03")
			require.NoError(t, err)
			if tt.pay != "" {
				posted := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
				_, err := svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: tt.pay, PostedAt: &posted})
				require.NoError(t, err)
			}

			result, err := svc.GenerateLateFees(ctx, "2026-03")
			require.NoError(t, err)
			assert.Equal(t, 0, result.CreatedCount())
			require.Len(t, result.Skipped, 1)
			assert.Equal(t, tt.reason, result.Skipped[0].Reason)
			assert.Equal(t, 0, countEntries(t, store, domain.LedgerFilter{Period: "2026-03"}, domain.EntryTypeLateFee))
		})
	}
}

func TestGenerateLateFees_FeeAmounts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		percent string
		flat    int64
		want    int64
	}{
		{name: "fraction", percent: "0.05", want: 5000},
		{name: "whole percent", percent: "5", want: 5000},
		{name: "flat amount", flat: 7500, want: 7500},
		{name: "percent wins over flat", percent: "10", flat: 7500, want: 10000},
		{name: "small fraction", percent: "0.0125", want: 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupRentService(t, march20)
			lease := testLease(100000)
			if tt.percent != "" {
				lease.LateFeePercent = decimal.RequireFromString(tt.percent)
			}
			lease.LateFeeAmountCents = tt.flat
			seedProperty(t, store, "12 Pine Rd", lease)

			_, err := svc.GenerateCharges(ctx, "2026-03")
			require.NoError(t, err)

			result, err := svc.GenerateLateFees(ctx, "2026-03")
			require.NoError(t, err)
			require.Equal(t, 1, result.CreatedCount())
			assert.Equal(t, tt.want, result.Created[0].AmountCents)
		})
	}
}

func TestGenerateLateFees_IgnoresOtherPeriods(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()

	lease := testLease(100000)
	lease.LateFeeAmountCents = 2500
	seedProperty(t, store, "4 Birch Ln", lease)

	_, err := svc.GenerateCharges(ctx, "2026-02")
	require.NoError(t, err)

	result, err := svc.GenerateLateFees(ctx, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, rent.ReasonNothingOutstanding, result.Skipped[0].Reason)
}

func TestRecordPayment_Validation(t *testing.T) {
	svc, store := setupRentService(t, march20)
	prop := seedProperty(t, store, "1 Main St", testLease(100000))

	tests := []struct {
		name    string
		req     rent.PaymentRequest
		wantErr error
	}{
		{name: "missing property id", req: rent.PaymentRequest{AmountDollars: "10"}, wantErr: domain.ErrInvalidRequest},
		{name: "not a number", req: rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: "abc"}, wantErr: domain.ErrInvalidAmount},
		{name: "missing amount", req: rent.PaymentRequest{PropertyID: prop.ID}, wantErr: domain.ErrInvalidAmount},
		{name: "zero", req: rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: "0"}, wantErr: domain.ErrInvalidAmount},
		{name: "negative", req: rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: -5.0}, wantErr: domain.ErrInvalidAmount},
		{name: "rounds to zero", req: rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: "0.004"}, wantErr: domain.ErrInvalidAmount},
		{name: "unknown property", req: rent.PaymentRequest{PropertyID: uuid.New(), AmountDollars: "10"}, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordPayment_PeriodFromPostedAt(t *testing.T) {
	svc, store := setupRentService(t, march20)
	prop := seedProperty(t, store, "1 Main St", testLease(100000))

	posted := time.Date(2026, 1, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	entry, err := svc.RecordPayment(context.Background(), rent.PaymentRequest{
		PropertyID:    prop.ID,
		AmountDollars: 12.345,
		PostedAt:      &posted,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-02", entry.Period)
	assert.Equal(t, int64(-1235), entry.AmountCents)
	assert.Equal(t, posted.UTC(), entry.PostedAt)
}

func TestCreateAdjustment(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	prop := seedProperty(t, store, "1 Main St", testLease(100000))

	_, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)

	credit, err := svc.CreateAdjustment(ctx, rent.AdjustmentRequest{PropertyID: prop.ID, Period: "2026-03", AmountCents: -20000})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeAdjustment, credit.Type)
	assert.Equal(t, domain.SubTypeRent, credit.SubType)
	assert.Equal(t, march20, credit.PostedAt)

	_, err = svc.CreateAdjustment(ctx, rent.AdjustmentRequest{PropertyID: prop.ID, Period: "2026-03", AmountCents: 5000})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, int64(105000), summary.Summary.Totals.DueCents)
	assert.Equal(t, int64(20000), summary.Summary.Totals.PaidCents)
	assert.Equal(t, int64(85000), summary.Summary.Totals.OutstandingCents)

	_, err = svc.CreateAdjustment(ctx, rent.AdjustmentRequest{PropertyID: prop.ID, Period: "2026-03"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateAdjustment(ctx, rent.AdjustmentRequest{PropertyID: prop.ID, Period: "03-2026", AmountCents: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = svc.CreateAdjustment(ctx, rent.AdjustmentRequest{PropertyID: uuid.New(), Period: "2026-03", AmountCents: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	prop := seedProperty(t, store, "1 Main St", testLease(100000))

	first, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)
	payment, err := svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: prop.ID, AmountDollars: "100"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, first.Created[0].ID))
	assert.ErrorIs(t, svc.DeleteEntry(ctx, first.Created[0].ID), domain.ErrNotFound)

	remaining, err := svc.Activities(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, payment.ID, remaining[0].ID)

	// the charge slot is free again
	again, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, 1, again.CreatedCount())
}

func TestActivities(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	a := seedProperty(t, store, "1 Main St", testLease(100000))
	b := seedProperty(t, store, "2 Main St", testLease(90000))

	_, err := svc.GenerateCharges(ctx, "2026-02")
	require.NoError(t, err)
	_, err = svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: a.ID, AmountDollars: "50"})
	require.NoError(t, err)

	all, err := svc.Activities(ctx, domain.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].PostedAt.After(all[i-1].PostedAt), "entries must be newest first")
	}

	march, err := svc.Activities(ctx, domain.LedgerFilter{Period: "2026-03"})
	require.NoError(t, err)
	assert.Len(t, march, 3)

	onlyB, err := svc.Activities(ctx, domain.LedgerFilter{PropertyID: b.ID})
	require.NoError(t, err)
	assert.Len(t, onlyB, 2)

	_, err = svc.Activities(ctx, domain.LedgerFilter{Period: "2026-3"})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestSummary_DefaultsToCurrentPeriod(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	seedProperty(t, store, "1 Main St", testLease(100000))
	seedProperty(t, store, "2 Main St", nil)

	_, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", summary.Period)
	assert.Len(t, summary.Summary.Rows, 1)
	assert.Equal(t, int64(100000), summary.Summary.Totals.OutstandingCents)

	_, err = svc.Summary(ctx, "2026-3")
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestCollection(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	occupied := seedProperty(t, store, "1 Main St", testLease(100000))
	vacant := seedProperty(t, store, "2 Main St", nil)

	_, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, rent.PaymentRequest{PropertyID: occupied.ID, AmountDollars: "400"})
	require.NoError(t, err)

	c, err := svc.Collection(ctx, "2026-03")
	require.NoError(t, err)
	require.Len(t, c.Rows, 1)
	assert.Equal(t, occupied.ID, c.Rows[0].Property.ID)
	assert.Equal(t, int64(60000), c.Rows[0].OutstandingCents)
	require.Len(t, c.Vacant, 1)
	assert.Equal(t, vacant.ID, c.Vacant[0].ID)
	assert.Equal(t, int64(40000), c.Totals.PaidCents)
}

func TestPropertyLedger(t *testing.T) {
	svc, store := setupRentService(t, march20)
	ctx := context.Background()
	prop := seedProperty(t, store, "1 Main St", testLease(100000))
	vacant := seedProperty(t, store, "2 Main St", nil)

	_, err := svc.GenerateCharges(ctx, "2026-03")
	require.NoError(t, err)

	pl, err := svc.PropertyLedger(ctx, prop.ID, "2026-03")
	require.NoError(t, err)
	assert.Len(t, pl.Entries, 1)
	assert.Equal(t, int64(100000), pl.Row.OutstandingCents)

	empty, err := svc.PropertyLedger(ctx, vacant.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", empty.Period)
	assert.Empty(t, empty.Entries)
	assert.Zero(t, empty.Row.DueCents)

	_, err = svc.PropertyLedger(ctx, uuid.New(), "2026-03")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
