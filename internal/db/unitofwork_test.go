package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO treasury_accounts (account, token_mint, balance) VALUES ('wallet:a', 'usdc', 500)`)
		return err
	})
	require.NoError(t, err)

	var balance uint64
	require.NoError(t, database.QueryRow(`SELECT balance FROM treasury_accounts WHERE account = 'wallet:a'`).Scan(&balance))
	assert.Equal(t, uint64(500), balance)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	boom := errors.New("boom")

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO treasury_accounts (account, token_mint, balance) VALUES ('wallet:b', 'usdc', 500)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM treasury_accounts`).Scan(&count))
	assert.Equal(t, 0, count, "failed transaction must leave no rows")
}
