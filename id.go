package tokenvest

import "github.com/mobinsaeidi/tokenvest/id"

// ID is the primary identifier type for all Tokenvest entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
