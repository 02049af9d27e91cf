package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// runStoreSuite checks the behaviour every Store backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("balance is the sum of recorded amounts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		accountID := uuid.New()

		first, err := store.RecordTransaction(ctx, accountID, 10)
		require.NoError(t, err)
		second, err := store.RecordTransaction(ctx, accountID, -3)
		require.NoError(t, err)

		balance, err := store.GetAccountBalance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), balance)

		got, err := store.GetTransaction(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, accountID, got.AccountID)
		assert.Equal(t, int64(10), got.Amount)

		got, err = store.GetTransaction(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, accountID, got.AccountID)
		assert.Equal(t, int64(-3), got.Amount)
	})

	t.Run("record returns the stored transaction", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		accountID := uuid.New()

		rec, err := store.RecordTransaction(ctx, accountID, 42)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.Equal(t, uuid.Version(4), rec.ID.Version())
		assert.Equal(t, accountID, rec.AccountID)
		assert.Equal(t, int64(42), rec.Amount)
		assert.False(t, rec.CreatedAt.IsZero())

		got, err := store.GetTransaction(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("unknown account reads as zero balance", func(t *testing.T) {
		store := newStore(t)

		balance, err := store.GetAccountBalance(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("unknown transaction is not found", func(t *testing.T) {
		store := newStore(t)

		got, err := store.GetTransaction(context.Background(), uuid.New())
		require.ErrorIs(t, err, domain.ErrTransactionNotFound)
		assert.Nil(t, got)
	})

	t.Run("history of unknown account is not found", func(t *testing.T) {
		store := newStore(t)

		_, err := store.ListTransactions(context.Background(), uuid.New())
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("history is newest first and scoped to the account", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		accountID := uuid.New()

		var ids []uuid.UUID
		for _, amount := range []int64{1, 2, 3} {
			rec, err := store.RecordTransaction(ctx, accountID, amount)
			require.NoError(t, err)
			ids = append(ids, rec.ID)
		}
		_, err := store.RecordTransaction(ctx, uuid.New(), 100)
		require.NoError(t, err)

		items, err := store.ListTransactions(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, ids[2], items[0].ID)
		assert.Equal(t, ids[1], items[1].ID)
		assert.Equal(t, ids[0], items[2].ID)
	})

	t.Run("seed account exists with an empty history", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		seedID, err := store.SeedAccount(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, seedID)

		again, err := store.SeedAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, seedID, again)

		items, err := store.ListTransactions(ctx, seedID)
		require.NoError(t, err)
		assert.Empty(t, items)

		balance, err := store.GetAccountBalance(ctx, seedID)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("concurrent records on a new account all land", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		accountID := uuid.New()

		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.RecordTransaction(ctx, accountID, 5)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		balance, err := store.GetAccountBalance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(5*writers), balance)

		items, err := store.ListTransactions(ctx, accountID)
		require.NoError(t, err)
		assert.Len(t, items, writers)
	})

	t.Run("concurrent seeding agrees on one account", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		const starters = 10
		var wg sync.WaitGroup
		ids := make(chan uuid.UUID, starters)
		errs := make(chan error, starters)
		for i := 0; i < starters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := store.SeedAccount(ctx)
				ids <- id
				errs <- err
			}()
		}
		wg.Wait()
		close(ids)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		want, err := store.SeedAccount(ctx)
		require.NoError(t, err)
		for id := range ids {
			assert.Equal(t, want, id)
		}
	})
}
