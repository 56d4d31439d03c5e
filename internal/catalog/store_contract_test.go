package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductStore/internal/catalog"
)

// runStoreContract exercises behaviour every Store must share. newStore must
// return an empty store whose id counter starts at 1.
func runStoreContract(t *testing.T, newStore func(t *testing.T) catalog.Store) {
	t.Helper()

	t.Run("seeded store", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		n, err := catalog.Seed(ctx, s)
		require.NoError(t, err)
		require.Equal(t, 3, n)

		p, ok, err := s.Get(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Yo-yo", p.Name)
		assert.Equal(t, "Toys", p.Category)
		assert.True(t, decimal.RequireFromString("3.75").Equal(p.Price))

		require.NoError(t, s.Remove(ctx, 2))
		_, ok, err = s.Get(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		added, err := s.Add(ctx, &catalog.Product{Name: "Kite", Category: "Toys", Price: decimal.RequireFromString("9.5")})
		require.NoError(t, err)
		assert.Equal(t, int64(4), added.ID, "ids are never reused")
	})

	t.Run("seed skips non-empty store", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.Add(ctx, &catalog.Product{Name: "Lamp"})
		require.NoError(t, err)

		n, err := catalog.Seed(ctx, s)
		require.NoError(t, err)
		assert.Zero(t, n)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("add then get", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		in := &catalog.Product{ID: 99, Name: "Hammer", Category: "Hardware", Price: decimal.RequireFromString("16.99")}
		added, err := s.Add(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(1), added.ID, "input id is ignored")

		got, ok, err := s.Get(ctx, added.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assertSameProduct(t, added, got)
	})

	t.Run("add nil", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Add(context.Background(), nil)
		assert.ErrorIs(t, err, catalog.ErrInvalidArgument)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)

		_, ok, err := s.Get(context.Background(), 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update replaces and moves to end", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := catalog.Seed(ctx, s)
		require.NoError(t, err)

		ok, err := s.Update(ctx, &catalog.Product{ID: 1, Name: "Tomato soup XL", Category: "Groceries", Price: decimal.RequireFromString("2.49")})
		require.NoError(t, err)
		require.True(t, ok)

		got, found, err := s.Get(ctx, 1)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Tomato soup XL", got.Name)
		assert.True(t, decimal.RequireFromString("2.49").Equal(got.Price))

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, ids(all))
	})

	t.Run("update missing leaves store unchanged", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := catalog.Seed(ctx, s)
		require.NoError(t, err)

		before, err := s.List(ctx)
		require.NoError(t, err)

		ok, err := s.Update(ctx, &catalog.Product{ID: 42, Name: "Ghost"})
		require.NoError(t, err)
		assert.False(t, ok)

		after, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, ids(before), ids(after))
	})

	t.Run("update nil", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Update(context.Background(), nil)
		assert.ErrorIs(t, err, catalog.ErrInvalidArgument)
	})

	t.Run("remove missing is a no-op", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := catalog.Seed(ctx, s)
		require.NoError(t, err)

		require.NoError(t, s.Remove(ctx, 42))
		require.NoError(t, s.Remove(ctx, 3))
		require.NoError(t, s.Remove(ctx, 3))

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(all))
	})

	t.Run("list length tracks adds and removes", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for i := 0; i < 5; i++ {
			_, err := s.Add(ctx, &catalog.Product{Name: "item"})
			require.NoError(t, err)
		}
		require.NoError(t, s.Remove(ctx, 2))
		require.NoError(t, s.Remove(ctx, 4))

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 5}, ids(all))
	})

	t.Run("list by category ignores case", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := catalog.Seed(ctx, s)
		require.NoError(t, err)
		_, err = s.Add(ctx, &catalog.Product{Name: "Ball", Category: "toys"})
		require.NoError(t, err)

		toys, err := s.ListByCategory(ctx, "TOYS")
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 4}, ids(toys))

		none, err := s.ListByCategory(ctx, "Garden")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func ids(ps []catalog.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func assertSameProduct(t *testing.T, want, got catalog.Product) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, want.Price.Equal(got.Price), "price %s != %s", want.Price, got.Price)
}
