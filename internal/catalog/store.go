package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned when a nil product is handed to Add or Update.
var ErrInvalidArgument = errors.New("invalid argument")

type Product struct {
	ID       int64           `json:"id" xml:"Id"`
	Name     string          `json:"name" xml:"Name"`
	Category string          `json:"category" xml:"Category"`
	Price    decimal.Decimal `json:"price" xml:"Price"`
}

// Store holds the catalog. Ids are assigned by the store, start at 1 and are
// never reused, even after a product is removed.
type Store interface {
	Ping(ctx context.Context) error

	// List returns products in insertion order. Update counts as an
	// insertion, so an updated product moves to the end.
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, bool, error)

	Add(ctx context.Context, p *Product) (Product, error)
	Update(ctx context.Context, p *Product) (bool, error)
	Remove(ctx context.Context, id int64) error
}

func DefaultProducts() []Product {
	return []Product{
		{Name: "Tomato soup", Category: "Groceries", Price: decimal.RequireFromString("1.39")},
		{Name: "Yo-yo", Category: "Toys", Price: decimal.RequireFromString("3.75")},
		{Name: "Hammer", Category: "Hardware", Price: decimal.RequireFromString("16.99")},
	}
}

// Seed adds the default products when the store is empty. It reports how
// many products were added.
func Seed(ctx context.Context, s Store) (int, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, p := range DefaultProducts() {
		if _, err := s.Add(ctx, &p); err != nil {
			return n, fmt.Errorf("seed: add %q: %w", p.Name, err)
		}
		n++
	}
	return n, nil
}
