package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MemStore keeps products in a slice ordered by insertion. It is safe for
// concurrent use.
type MemStore struct {
	mu     sync.RWMutex
	items  []Product
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	return s.items[i], true, nil
}

func (s *MemStore) Add(ctx context.Context, p *Product) (Product, error) {
	if p == nil {
		return Product{}, fmt.Errorf("add product: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	stored.ID = s.nextID
	s.nextID++
	s.items = append(s.items, stored)
	return stored, nil
}

func (s *MemStore) Update(ctx context.Context, p *Product) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("update product: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(p.ID)
	if i < 0 {
		return false, nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.items = append(s.items, *p)
	return true, nil
}

func (s *MemStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.DeleteFunc(s.items, func(p Product) bool { return p.ID == id })
	return nil
}

// indexOf must be called with mu held.
func (s *MemStore) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(p Product) bool { return p.ID == id })
}
