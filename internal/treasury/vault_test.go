package treasury

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/ledger"
	"github.com/okoyedan/fundflow/internal/testutil"
)

const testMint = "USDC"

func TestVault_FundAndBalance(t *testing.T) {
	database := testutil.NewTestDB(t)
	vault := NewSQLiteVault(database)
	ctx := context.Background()

	balance, err := vault.Balance(ctx, "wallet:alice", testMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance, "unfunded account holds zero")

	require.NoError(t, vault.Fund(ctx, "wallet:alice", testMint, 500))
	require.NoError(t, vault.Fund(ctx, "wallet:alice", testMint, 250))

	balance, err = vault.Balance(ctx, "wallet:alice", testMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), balance)
}

func TestVault_Transfer(t *testing.T) {
	database := testutil.NewTestDB(t)
	vault := NewSQLiteVault(database)
	ctx := context.Background()

	require.NoError(t, vault.Fund(ctx, "wallet:alice", testMint, 1000))

	err := vault.Transfer(ctx, "wallet:alice", FlowAccount("flow-1"), testMint, 400)
	require.NoError(t, err)

	from, err := vault.Balance(ctx, "wallet:alice", testMint)
	require.NoError(t, err)
	to, err := vault.Balance(ctx, FlowAccount("flow-1"), testMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), from)
	assert.Equal(t, uint64(400), to)
}

func TestVault_TransferInsufficientFunds(t *testing.T) {
	database := testutil.NewTestDB(t)
	vault := NewSQLiteVault(database)
	ctx := context.Background()

	require.NoError(t, vault.Fund(ctx, "wallet:alice", testMint, 100))

	err := vault.Transfer(ctx, "wallet:alice", "wallet:bob", testMint, 101)
	require.ErrorIs(t, err, domain.ErrInsufficientTreasuryFunds)

	from, err := vault.Balance(ctx, "wallet:alice", testMint)
	require.NoError(t, err)
	to, err := vault.Balance(ctx, "wallet:bob", testMint)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), from, "failed transfer leaves source untouched")
	assert.Equal(t, uint64(0), to)
}

func TestVault_MintsAreIndependent(t *testing.T) {
	database := testutil.NewTestDB(t)
	vault := NewSQLiteVault(database)
	ctx := context.Background()

	require.NoError(t, vault.Fund(ctx, "wallet:alice", "USDC", 100))
	require.NoError(t, vault.Fund(ctx, "wallet:alice", "SOL", 7))

	usdc, err := vault.Balance(ctx, "wallet:alice", "USDC")
	require.NoError(t, err)
	sol, err := vault.Balance(ctx, "wallet:alice", "SOL")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), usdc)
	assert.Equal(t, uint64(7), sol)

	err = vault.Transfer(ctx, "wallet:alice", "wallet:bob", "SOL", 100)
	require.ErrorIs(t, err, domain.ErrInsufficientTreasuryFunds)
}

func TestVault_CreditOverflow(t *testing.T) {
	database := testutil.NewTestDB(t)
	vault := NewSQLiteVault(database)
	ctx := context.Background()

	require.NoError(t, vault.Fund(ctx, "wallet:alice", testMint, 1))
	err := vault.Fund(ctx, "wallet:alice", testMint, ^uint64(0))
	require.ErrorIs(t, err, ledger.ErrOverflow)
}
