package types

// Address identifies an account on the asset ledger. The engine treats
// addresses as opaque strings; the ledger implementation defines their
// format. The empty string is the zero address and is never a valid
// beneficiary, recipient, or caller.
type Address string

// ZeroAddress is the sentinel for "no account".
const ZeroAddress Address = ""

// IsZero returns true if the address is the zero address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the address as a plain string.
func (a Address) String() string { return string(a) }
