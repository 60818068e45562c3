// Package store opens the configured persistence backend and exposes its
// repositories behind one set of interfaces.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/config"
	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/repository"
	"github.com/josh-kwaku/rentbook/internal/repository/memory"
)

type PropertyRepository interface {
	List(ctx context.Context) ([]domain.Property, error)
	ListOccupied(ctx context.Context) ([]domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Create(ctx context.Context, p *domain.Property) error
	UpdateLease(ctx context.Context, id uuid.UUID, lease *domain.Lease, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	List(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OperatorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	Create(ctx context.Context, o *domain.Operator) error
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string, operatorID uuid.UUID) (*repository.IdempotencyCacheEntry, error)
	Set(ctx context.Context, entry *repository.IdempotencyCacheEntry) error
	CleanExpired(ctx context.Context) (int64, error)
}

var (
	_ PropertyRepository    = (*repository.PropertyRepository)(nil)
	_ PropertyRepository    = (*memory.PropertyRepository)(nil)
	_ LedgerRepository      = (*repository.LedgerRepository)(nil)
	_ LedgerRepository      = (*memory.LedgerRepository)(nil)
	_ OperatorRepository    = (*repository.OperatorRepository)(nil)
	_ OperatorRepository    = (*memory.OperatorRepository)(nil)
	_ IdempotencyRepository = (*repository.IdempotencyRepository)(nil)
	_ IdempotencyRepository = (*memory.IdempotencyRepository)(nil)
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Driver      string
	Properties  PropertyRepository
	Ledger      LedgerRepository
	Operators   OperatorRepository
	Idempotency IdempotencyRepository

	health pinger
	close  func() error
}

// Open connects to the backend selected by cfg.StoreDriver. The memory
// backend starts empty and lives as long as the process.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return NewMemory(memory.NewStore()), nil
	case config.StoreDriverPostgres:
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
			MaxOpenConns:     cfg.DBMaxOpenConns,
			MaxIdleConns:     cfg.DBMaxIdleConns,
			ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
			ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
		})
		if err != nil {
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		return &Store{
			Driver:      config.StoreDriverPostgres,
			Properties:  repository.NewPropertyRepository(db),
			Ledger:      repository.NewLedgerRepository(db),
			Operators:   repository.NewOperatorRepository(db),
			Idempotency: repository.NewIdempotencyRepository(db),
			health:      repository.NewDB(db),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("store.Open: unknown driver %q", cfg.StoreDriver)
	}
}

func NewMemory(m *memory.Store) *Store {
	return &Store{
		Driver:      config.StoreDriverMemory,
		Properties:  m.Properties(),
		Ledger:      m.Ledger(),
		Operators:   m.Operators(),
		Idempotency: m.Idempotency(),
		health:      m,
		close:       func() error { return nil },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.health.Ping(ctx); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.close()
}
