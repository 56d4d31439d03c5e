package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore keeps products in the products table. Ids come from a
// BIGSERIAL column and list order from the position sequence, which every
// update advances.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks that it answers.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	out, err := s.query(ctx, `
		SELECT id, name, category, price
		FROM products
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	out, err := s.query(ctx, `
		SELECT id, name, category, price
		FROM products
		WHERE lower(category) = lower($1)
		ORDER BY position ASC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, category, price
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price)
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, true, nil
}

func (s *PostgresStore) Add(ctx context.Context, p *Product) (Product, error) {
	if p == nil {
		return Product{}, fmt.Errorf("add product: %w", ErrInvalidArgument)
	}

	stored := *p
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO products (name, category, price)
			VALUES ($1, $2, $3)
			RETURNING id
		`, p.Name, p.Category, p.Price).Scan(&stored.ID)
	})
	if err != nil {
		return Product{}, fmt.Errorf("add product: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *Product) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("update product: %w", ErrInvalidArgument)
	}

	var affected int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE products
			SET name = $2, category = $3, price = $4,
			    position = nextval('products_position_seq')
			WHERE id = $1
		`, p.ID, p.Name, p.Category, p.Price)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) Remove(ctx context.Context, id int64) error {
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...any) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
