// Package ledger defines the fungible asset ledger the vesting engine runs
// on top of. The engine never tracks balances itself; it moves value through
// this interface and derives everything else from schedule state.
package ledger

import (
	"context"

	"github.com/mobinsaeidi/tokenvest/types"
)

// Ledger is the narrow contract the engine requires from an asset ledger.
// Implementations must apply each call atomically: either the full balance
// effect happens or none of it does.
type Ledger interface {
	// BalanceOf returns the current balance of an account.
	BalanceOf(ctx context.Context, account types.Address) (types.Amount, error)

	// Transfer moves amount from one account to another. It fails with an
	// error wrapping the engine's insufficient-balance kind when the source
	// cannot cover the amount.
	Transfer(ctx context.Context, from, to types.Address, amount types.Amount) error

	// MintInto creates amount new units in an account, growing total issuance.
	MintInto(ctx context.Context, account types.Address, amount types.Amount) error

	// BurnFrom destroys amount units held by an account, shrinking total
	// issuance.
	BurnFrom(ctx context.Context, account types.Address, amount types.Amount) error

	// TotalIssued returns the number of units currently in circulation.
	TotalIssued(ctx context.Context) (types.Amount, error)
}
