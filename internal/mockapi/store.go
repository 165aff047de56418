package mockapi

import (
	"context"
	"errors"
	"strings"
	"sync"

	"product_manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Record is a stored product including the stock fields the catalog API keeps
// but the manager never displays.
type Record struct {
	domain.Product
	PriceGoc decimal.Decimal
	Quantity int
}

// Changes carries an update; nil fields are left untouched.
type Changes struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	Image       *string
}

type Store interface {
	List(ctx context.Context) ([]Record, error)
	Search(ctx context.Context, keyword string) ([]Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, id string, ch Changes) (Record, error)
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]Record
}

func NewMemoryStore(seed ...Record) Store {
	s := &memoryStore{records: make(map[string]Record)}
	for _, rec := range seed {
		_, _ = s.Create(context.Background(), rec)
	}
	return s
}

func (s *memoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *memoryStore) Search(ctx context.Context, keyword string) ([]Record, error) {
	all, _ := s.List(ctx)
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if matches(rec, keyword) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memoryStore) Create(ctx context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = newID()
	}
	if _, exists := s.records[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *memoryStore) Update(ctx context.Context, id string, ch Changes) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	ch.apply(&rec)
	s.records[id] = rec
	return rec, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (ch Changes) apply(rec *Record) {
	if ch.Name != nil {
		rec.Name = *ch.Name
	}
	if ch.Price != nil {
		rec.Price = *ch.Price
	}
	if ch.Description != nil {
		rec.Description = *ch.Description
	}
	if ch.Image != nil {
		rec.Image = *ch.Image
	}
}

func matches(rec Record, keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(rec.Name), k) ||
		strings.Contains(strings.ToLower(rec.Description), k)
}

// newID returns a 24-hex-digit id shaped like the catalog API's ids.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
