package tokenvest

import "github.com/mobinsaeidi/tokenvest/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Address is re-exported from types package.
type Address = types.Address

// Entity is re-exported from types package.
type Entity = types.Entity

// MaxAmount is re-exported from types package.
const MaxAmount = types.MaxAmount

// ZeroAddress is re-exported from types package.
const ZeroAddress = types.ZeroAddress

// Re-export Amount helpers
var (
	ParseAmount = types.ParseAmount
	SumAmounts  = types.SumAmounts
)

// Re-export Entity constructor
var NewEntityAt = types.NewEntityAt
