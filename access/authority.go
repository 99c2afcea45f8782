// Package access provides the capability primitives the engine composes:
// an Authority that gates privileged operations and a Gate that halts value
// movement. Both are small interfaces so embedding applications can swap in
// their own policy (multisig approval, feature-flag driven pause) without
// touching engine code.
package access

import (
	"sync"

	"github.com/mobinsaeidi/tokenvest/types"
)

// Authority decides which caller may perform privileged operations:
// creating and revoking schedules, minting, pausing, and handing the
// authority itself to a successor.
type Authority interface {
	// IsAuthority reports whether caller currently holds the authority.
	IsAuthority(caller types.Address) bool

	// Holder returns the current authority account. Refund transfers from
	// revocations are paid to this account.
	Holder() types.Address

	// Transfer hands the authority to next. The engine validates the caller
	// and the successor before invoking this; implementations may still
	// refuse for their own reasons.
	Transfer(next types.Address) error
}

// Owner is the default single-holder Authority.
type Owner struct {
	mu     sync.RWMutex
	holder types.Address
}

var _ Authority = (*Owner)(nil)

// NewOwner creates an Authority held by a single account.
func NewOwner(holder types.Address) *Owner {
	return &Owner{holder: holder}
}

func (o *Owner) IsAuthority(caller types.Address) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return !caller.IsZero() && caller == o.holder
}

func (o *Owner) Holder() types.Address {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.holder
}

func (o *Owner) Transfer(next types.Address) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.holder = next
	return nil
}
