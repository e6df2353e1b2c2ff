// Package treasury implements the value-transfer capability backing the
// engine: a custodial token-account ledger with all-or-nothing transfers.
// The engine treats it as an external collaborator; funds either move in
// full before any accounting is committed, or they do not move at all.
package treasury

import (
	"context"
	"fmt"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/ledger"
)

// Vault is the transfer capability the engine's treasury operations call.
type Vault interface {
	Balance(ctx context.Context, account, mint string) (uint64, error)
	Transfer(ctx context.Context, from, to, mint string, amount uint64) error
	Fund(ctx context.Context, account, mint string, amount uint64) error
}

// FlowAccount derives the custodial account name for a flow.
func FlowAccount(flowID string) string {
	return "flow:" + flowID
}

// WalletAccount derives the account name for an external identity.
func WalletAccount(identity string) string {
	return "wallet:" + identity
}

// SQLiteVault implements Vault over a DBTX. Constructed from the
// operation's transaction, a failed transfer aborts the whole operation
// and a failed operation unwinds the transfer.
type SQLiteVault struct {
	db db.DBTX
}

// NewSQLiteVault creates a new SQLiteVault.
func NewSQLiteVault(db db.DBTX) *SQLiteVault {
	return &SQLiteVault{db: db}
}

// Balance returns the account's balance; an account with no row holds 0.
func (v *SQLiteVault) Balance(ctx context.Context, account, mint string) (uint64, error) {
	var balance int64
	err := v.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM treasury_accounts WHERE account = ? AND token_mint = ?`,
		account, mint,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("reading balance of %s: %w", account, err)
	}
	return uint64(balance), nil
}

// Transfer moves amount from one account to another. Fails without
// touching either side if the source cannot cover it.
func (v *SQLiteVault) Transfer(ctx context.Context, from, to, mint string, amount uint64) error {
	fromBalance, err := v.Balance(ctx, from, mint)
	if err != nil {
		return err
	}
	if amount > fromBalance {
		return domain.ErrInsufficientTreasuryFunds
	}
	_, err = v.db.ExecContext(ctx,
		`UPDATE treasury_accounts SET balance = balance - ? WHERE account = ? AND token_mint = ?`,
		int64(amount), from, mint,
	)
	if err != nil {
		return fmt.Errorf("debiting %s: %w", from, err)
	}
	return v.credit(ctx, to, mint, amount)
}

// Fund credits an account out of thin air. This is the faucet used by
// local wiring and tests; production deployments would replace the vault
// with a real token bridge.
func (v *SQLiteVault) Fund(ctx context.Context, account, mint string, amount uint64) error {
	return v.credit(ctx, account, mint, amount)
}

func (v *SQLiteVault) credit(ctx context.Context, account, mint string, amount uint64) error {
	current, err := v.Balance(ctx, account, mint)
	if err != nil {
		return err
	}
	if _, err := ledger.Add(current, amount); err != nil {
		return err
	}
	_, err = v.db.ExecContext(ctx,
		`INSERT INTO treasury_accounts (account, token_mint, balance) VALUES (?, ?, ?)
		ON CONFLICT (account, token_mint) DO UPDATE SET balance = balance + excluded.balance`,
		account, mint, int64(amount),
	)
	if err != nil {
		return fmt.Errorf("crediting %s: %w", account, err)
	}
	return nil
}
