package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/rentbook/internal/domain"
)

const propertyColumns = `id, address, current_lease, created_at, updated_at`

const dateLayout = "2006-01-02"

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	props, err := r.query(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return props, nil
}

func (r *PropertyRepository) ListOccupied(ctx context.Context) ([]domain.Property, error) {
	props, err := r.query(ctx,
		`SELECT `+propertyColumns+` FROM properties
		WHERE current_lease IS NOT NULL ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListOccupied: %w", err)
	}
	return props, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id,
	)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	lease, err := encodeLease(p.CurrentLease)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO properties (id, address, current_lease, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Address, lease, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateAddress)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// UpdateLease replaces the current lease. A nil lease marks the property vacant.
func (r *PropertyRepository) UpdateLease(ctx context.Context, id uuid.UUID, lease *domain.Lease, updatedAt time.Time) error {
	doc, err := encodeLease(lease)
	if err != nil {
		return fmt.Errorf("UpdateLease: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET current_lease = $1, updated_at = $2 WHERE id = $3`,
		doc, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateLease: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateLease: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateLease: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the property and every ledger entry referencing it in one
// transaction. It returns the number of ledger entries removed.
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Delete: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE property_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("Delete: ledger entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("Delete: rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("Delete: property: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return 0, fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Delete: commit: %w", err)
	}
	return removed, nil
}

func (r *PropertyRepository) query(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		props = append(props, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return props, nil
}

func scanProperty(s scanner) (*domain.Property, error) {
	var (
		p     domain.Property
		lease []byte
	)
	if err := s.Scan(&p.ID, &p.Address, &lease, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	l, err := decodeLease(lease)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.CurrentLease = l
	return &p, nil
}

type tenantDocument struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type leaseDocument struct {
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate"`
	DueDay             int             `json:"dueDay"`
	RentCents          int64           `json:"rentCents"`
	DepositCents       int64           `json:"depositCents"`
	Tenant             *tenantDocument `json:"tenant"`
	LateFeePercent     decimal.Decimal `json:"lateFeePercent"`
	LateFeeAmountCents int64           `json:"lateFeeAmountCents"`
	GraceDays          int             `json:"graceDays"`
}

// encodeLease returns the JSONB parameter for a lease. lib/pq sends []byte
// as bytea, so the document goes over the wire as text.
func encodeLease(l *domain.Lease) (any, error) {
	if l == nil {
		return nil, nil
	}

	doc := leaseDocument{
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		DueDay:             l.DueDay,
		RentCents:          l.RentCents,
		DepositCents:       l.DepositCents,
		LateFeePercent:     l.LateFeePercent,
		LateFeeAmountCents: l.LateFeeAmountCents,
		GraceDays:          l.GraceDays,
	}
	if l.Tenant != nil {
		doc.Tenant = &tenantDocument{
			FullName: l.Tenant.FullName,
			Phone:    l.Tenant.Phone,
			Email:    l.Tenant.Email,
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encodeLease: %w", err)
	}
	return string(b), nil
}

func decodeLease(raw []byte) (*domain.Lease, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var doc leaseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decodeLease: %w", err)
	}

	start, err := time.Parse(dateLayout, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("decodeLease: startDate: %w", err)
	}
	end, err := time.Parse(dateLayout, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("decodeLease: endDate: %w", err)
	}

	l := &domain.Lease{
		StartDate:          start,
		EndDate:            end,
		DueDay:             doc.DueDay,
		RentCents:          doc.RentCents,
		DepositCents:       doc.DepositCents,
		LateFeePercent:     doc.LateFeePercent,
		LateFeeAmountCents: doc.LateFeeAmountCents,
		GraceDays:          doc.GraceDays,
	}
	if doc.Tenant != nil {
		l.Tenant = &domain.Tenant{
			FullName: doc.Tenant.FullName,
			Phone:    doc.Tenant.Phone,
			Email:    doc.Tenant.Email,
		}
	}
	return l, nil
}
