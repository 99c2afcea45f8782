// Package types provides common types used across the vesting engine.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Amount represents a quantity of value in base units of the managed asset.
// All arithmetic is integer math, never floating point. Amounts are unsigned:
// debts and negative balances do not exist in this model.
//
// Arithmetic methods panic on overflow and underflow. Callers that cannot
// rule out either from their own invariants must pre-check with the
// comparison operators instead of recovering.
type Amount uint64

// MaxAmount is the largest representable Amount.
const MaxAmount = Amount(math.MaxUint64)

// ParseAmount parses a base-10 string into an Amount.
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("types: invalid amount %q: %w", s, err)
	}
	return Amount(v), nil
}

// Arithmetic operations

// Add returns a + other. Panics if the sum overflows.
func (a Amount) Add(other Amount) Amount {
	if other > MaxAmount-a {
		panic(fmt.Sprintf("amount: overflow adding %d to %d", other, a))
	}
	return a + other
}

// Sub returns a - other. Panics if other exceeds a.
func (a Amount) Sub(other Amount) Amount {
	if other > a {
		panic(fmt.Sprintf("amount: underflow subtracting %d from %d", other, a))
	}
	return a - other
}

// MulDiv returns floor(a * num / den) computed through big integers, so the
// intermediate product cannot overflow. Panics if den is zero.
func (a Amount) MulDiv(num, den uint64) Amount {
	if den == 0 {
		panic("amount: division by zero")
	}
	p := new(big.Int).SetUint64(uint64(a))
	p.Mul(p, new(big.Int).SetUint64(num))
	p.Div(p, new(big.Int).SetUint64(den))
	if !p.IsUint64() {
		panic(fmt.Sprintf("amount: overflow in %d*%d/%d", a, num, den))
	}
	return Amount(p.Uint64())
}

// Comparison helpers; for ordering use the native <, <=, > and >= operators.

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// Min returns the smaller of two amounts.
func (a Amount) Min(other Amount) Amount {
	if a < other {
		return a
	}
	return other
}

// Max returns the larger of two amounts.
func (a Amount) Max(other Amount) Amount {
	if a > other {
		return a
	}
	return other
}

// Uint64 returns the amount as a plain uint64.
func (a Amount) Uint64() uint64 { return uint64(a) }

// String returns the amount in base-10.
func (a Amount) String() string { return strconv.FormatUint(uint64(a), 10) }

// MarshalJSON implements json.Marshaler. Amounts encode as decimal strings
// so that consumers without 64-bit integer support do not truncate them.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts both string and bare
// number encodings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string; try a bare number.
		var v uint64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("types: invalid amount %s", data)
		}
		*a = Amount(v)
		return nil
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SumAmounts adds up multiple amounts. Panics if the total overflows.
func SumAmounts(values ...Amount) Amount {
	var total Amount
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
