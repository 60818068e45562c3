// Package memory provides in-process implementations of the repository
// interfaces. All repositories created from one Store share a single lock,
// so the ledger uniqueness rules and the cascading property delete are
// atomic, the same guarantees the Postgres indexes and transactions give.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/rentbook/internal/domain"
	"github.com/josh-kwaku/rentbook/internal/repository"
)

type Store struct {
	mu          sync.RWMutex
	properties  map[uuid.UUID]domain.Property
	addresses   map[string]uuid.UUID
	entries     map[uuid.UUID]domain.LedgerEntry
	uniqueEntry map[entryKey]uuid.UUID
	operators   map[uuid.UUID]domain.Operator
	idempotency map[idempotencyKey]repository.IdempotencyCacheEntry
}

// entryKey identifies the (period, property) slot a CHARGE/RENT or a
// LATE_FEE entry occupies.
type entryKey struct {
	Period     string
	PropertyID uuid.UUID
	Type       domain.EntryType
}

type idempotencyKey struct {
	Key        string
	OperatorID uuid.UUID
}

func NewStore() *Store {
	return &Store{
		properties:  make(map[uuid.UUID]domain.Property),
		addresses:   make(map[string]uuid.UUID),
		entries:     make(map[uuid.UUID]domain.LedgerEntry),
		uniqueEntry: make(map[entryKey]uuid.UUID),
		operators:   make(map[uuid.UUID]domain.Operator),
		idempotency: make(map[idempotencyKey]repository.IdempotencyCacheEntry),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Properties() *PropertyRepository { return &PropertyRepository{s: s} }
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }
func (s *Store) Operators() *OperatorRepository { return &OperatorRepository{s: s} }
func (s *Store) Idempotency() *IdempotencyRepository { return &IdempotencyRepository{s: s} }

func addressKey(address string) string {
	return strings.ToLower(address)
}

func uniqueKey(e *domain.LedgerEntry) (entryKey, bool) {
	switch {
	case e.Type == domain.EntryTypeCharge && e.SubType == domain.SubTypeRent:
	case e.Type == domain.EntryTypeLateFee:
	default:
		return entryKey{}, false
	}
	return entryKey{Period: e.Period, PropertyID: e.PropertyID, Type: e.Type}, true
}

type PropertyRepository struct {
	s *Store
}

func (r *PropertyRepository) List(_ context.Context) ([]domain.Property, error) {
	return r.list(func(domain.Property) bool { return true }), nil
}

func (r *PropertyRepository) ListOccupied(_ context.Context) ([]domain.Property, error) {
	return r.list(func(p domain.Property) bool { return p.CurrentLease != nil }), nil
}

func (r *PropertyRepository) list(keep func(domain.Property) bool) []domain.Property {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var props []domain.Property
	for _, p := range r.s.properties {
		if keep(p) {
			props = append(props, copyProperty(p))
		}
	}
	sort.Slice(props, func(i, j int) bool {
		if !props[i].CreatedAt.Equal(props[j].CreatedAt) {
			return props[i].CreatedAt.Before(props[j].CreatedAt)
		}
		return props[i].ID.String() < props[j].ID.String()
	})
	return props
}

func (r *PropertyRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyProperty(p)
	return &cp, nil
}

func (r *PropertyRepository) Create(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := addressKey(p.Address)
	if _, exists := r.s.addresses[key]; exists {
		return domain.ErrDuplicateAddress
	}
	r.s.properties[p.ID] = copyProperty(*p)
	r.s.addresses[key] = p.ID
	return nil
}

func (r *PropertyRepository) UpdateLease(_ context.Context, id uuid.UUID, lease *domain.Lease, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.properties[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentLease = copyLease(lease)
	p.UpdatedAt = updatedAt
	r.s.properties[id] = p
	return nil
}

func (r *PropertyRepository) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.properties[id]
	if !ok {
		return 0, domain.ErrNotFound
	}

	var removed int64
	for entryID, e := range r.s.entries {
		if e.PropertyID != id {
			continue
		}
		r.s.deleteEntryLocked(entryID, e)
		removed++
	}
	delete(r.s.addresses, addressKey(p.Address))
	delete(r.s.properties, id)
	return removed, nil
}

type LedgerRepository struct {
	s *Store
}

func (r *LedgerRepository) Create(_ context.Context, entry *domain.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.properties[entry.PropertyID]; !ok {
		return domain.ErrNotFound
	}
	key, unique := uniqueKey(entry)
	if unique {
		if _, exists := r.s.uniqueEntry[key]; exists {
			return domain.ErrDuplicateEntry
		}
		r.s.uniqueEntry[key] = entry.ID
	}
	r.s.entries[entry.ID] = *entry
	return nil
}

func (r *LedgerRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *LedgerRepository) List(_ context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var entries []domain.LedgerEntry
	for _, e := range r.s.entries {
		if filter.Period != "" && e.Period != filter.Period {
			continue
		}
		if filter.PropertyID != uuid.Nil && e.PropertyID != filter.PropertyID {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].PostedAt.Equal(entries[j].PostedAt) {
			return entries[i].PostedAt.After(entries[j].PostedAt)
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (r *LedgerRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.deleteEntryLocked(id, e)
	return nil
}

func (s *Store) deleteEntryLocked(id uuid.UUID, e domain.LedgerEntry) {
	if key, unique := uniqueKey(&e); unique && s.uniqueEntry[key] == id {
		delete(s.uniqueEntry, key)
	}
	delete(s.entries, id)
}

type OperatorRepository struct {
	s *Store
}

func (r *OperatorRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Operator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.operators[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r *OperatorRepository) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.operators {
		if o.Email == email {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OperatorRepository) Create(_ context.Context, o *domain.Operator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.operators {
		if existing.Email == o.Email {
			return domain.ErrOperatorExists
		}
	}
	r.s.operators[o.ID] = *o
	return nil
}

type IdempotencyRepository struct {
	s *Store
}

func (r *IdempotencyRepository) Get(_ context.Context, key string, operatorID uuid.UUID) (*repository.IdempotencyCacheEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.idempotency[idempotencyKey{Key: key, OperatorID: operatorID}]
	if !ok || !e.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &e, nil
}

func (r *IdempotencyRepository) Set(_ context.Context, entry *repository.IdempotencyCacheEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := idempotencyKey{Key: entry.Key, OperatorID: entry.OperatorID}
	if _, exists := r.s.idempotency[k]; !exists {
		r.s.idempotency[k] = *entry
	}
	return nil
}

func (r *IdempotencyRepository) CleanExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	now := time.Now()
	for k, e := range r.s.idempotency {
		if e.ExpiresAt.Before(now) {
			delete(r.s.idempotency, k)
			n++
		}
	}
	return n, nil
}

func copyProperty(p domain.Property) domain.Property {
	p.CurrentLease = copyLease(p.CurrentLease)
	return p
}

func copyLease(l *domain.Lease) *domain.Lease {
	if l == nil {
		return nil
	}
	cp := *l
	if l.Tenant != nil {
		t := *l.Tenant
		cp.Tenant = &t
	}
	return &cp
}
