// Package memory provides the reference in-memory asset ledger.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/ledger"
	"github.com/mobinsaeidi/tokenvest/types"
)

// Ledger is an in-memory fungible ledger. Safe for concurrent use.
// The sum of all balances always equals total issuance.
type Ledger struct {
	mu       sync.RWMutex
	balances map[types.Address]types.Amount
	issued   types.Amount
}

var _ ledger.Ledger = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{
		balances: make(map[types.Address]types.Amount),
	}
}

func (l *Ledger) BalanceOf(_ context.Context, account types.Address) (types.Amount, error) {
	if account.IsZero() {
		return 0, tokenvest.ErrInvalidAccount
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account], nil
}

func (l *Ledger) Transfer(_ context.Context, from, to types.Address, amount types.Amount) error {
	if from.IsZero() || to.IsZero() {
		return tokenvest.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("memory: transfer of %d from %q: %w", amount, from, tokenvest.ErrInsufficientBalance)
	}

	// Conservation keeps every balance at or below issuance, so the credit
	// cannot overflow.
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *Ledger) MintInto(_ context.Context, account types.Address, amount types.Amount) error {
	if account.IsZero() {
		return tokenvest.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount > types.MaxAmount-l.issued {
		return fmt.Errorf("memory: mint of %d overflows issuance: %w", amount, tokenvest.ErrInvalidAmount)
	}

	l.issued += amount
	l.balances[account] += amount
	return nil
}

func (l *Ledger) BurnFrom(_ context.Context, account types.Address, amount types.Amount) error {
	if account.IsZero() {
		return tokenvest.ErrInvalidAccount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[account] < amount {
		return fmt.Errorf("memory: burn of %d from %q: %w", amount, account, tokenvest.ErrInsufficientBalance)
	}

	l.balances[account] -= amount
	l.issued -= amount
	return nil
}

func (l *Ledger) TotalIssued(_ context.Context) (types.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.issued, nil
}
