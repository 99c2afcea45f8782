package extension

import "math"

// Config holds the Tokenvest extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tokenvest" or "tokenvest" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Authority is the account that controls schedule creation, revocation,
	// minting, and pausing (default: "authority").
	Authority string `json:"authority" mapstructure:"authority" yaml:"authority"`

	// EscrowAccount is the ledger account that holds unvested value
	// (default: "escrow"). It must differ from Authority, otherwise
	// revocation refunds would land back in escrow and count as grantable.
	EscrowAccount string `json:"escrow_account" mapstructure:"escrow_account" yaml:"escrow_account"`

	// MaxSupply caps total issuance for the lifetime of the engine.
	// Zero means uncapped (default).
	MaxSupply uint64 `json:"max_supply" mapstructure:"max_supply" yaml:"max_supply"`

	// RedisURL, when set and no store was provided programmatically, backs
	// the schedule store with Redis and journals engine events to the same
	// instance (e.g. "redis://localhost:6379/0"). Empty keeps everything
	// in process memory.
	RedisURL string `json:"redis_url" mapstructure:"redis_url" yaml:"redis_url"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Authority:     "authority",
		EscrowAccount: "escrow",
		MaxSupply:     math.MaxUint64,
	}
}
