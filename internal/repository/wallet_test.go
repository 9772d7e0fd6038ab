package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"campusfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository_SignupOpensWallet(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "hal")
	repo := NewWalletRepository(db)
	ctx := context.Background()

	wallet, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet.Balance)

	entries, err := repo.Entries(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ReasonSignupBonus, entries[0].Reason)
	assert.Equal(t, int64(1000), entries[0].BalanceAfter)
}

func TestWalletRepository_DebitAndCredit(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "ivy")
	repo := NewWalletRepository(db)
	ctx := context.Background()

	wallet, err := repo.Debit(ctx, user.ID, 300, "boost_post")
	require.NoError(t, err)
	assert.Equal(t, int64(700), wallet.Balance)

	_, err = repo.Debit(ctx, user.ID, 800, "boost_post")
	assert.Equal(t, models.CodeInsufficientFunds, models.ErrorCode(err))

	wallet, err = repo.Credit(ctx, user.ID, 50, "daily_bonus")
	require.NoError(t, err)
	assert.Equal(t, int64(750), wallet.Balance)

	entries, err := repo.Entries(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(50), entries[0].Amount)
	assert.Equal(t, int64(-300), entries[1].Amount)
	assert.Equal(t, int64(700), entries[1].BalanceAfter)
}

func TestWalletRepository_UnknownWallet(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	_, err := repo.Debit(ctx, 77, 1, "x")
	assert.True(t, models.IsNotFound(err))
	_, err = repo.Credit(ctx, 77, 1, "x")
	assert.True(t, models.IsNotFound(err))
	_, err = repo.Get(ctx, 77)
	assert.True(t, models.IsNotFound(err))
}

func TestWalletRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	db := newSQLiteDB(t)
	user := mustUser(t, db, "jon")
	repo := NewWalletRepository(db)

	var ok, short atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Debit(context.Background(), user.ID, 150, "spend")
			switch models.ErrorCode(err) {
			case "":
				ok.Add(1)
			case models.CodeInsufficientFunds:
				short.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(6), ok.Load())
	assert.Equal(t, int32(4), short.Load())

	wallet, err := repo.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)
}
