package extension

import (
	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/ledger"
	"github.com/mobinsaeidi/tokenvest/plugin"
	"github.com/mobinsaeidi/tokenvest/store"
)

// Option configures the Tokenvest Forge extension.
type Option func(*Extension)

// WithStore sets the schedule store for the vesting engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedger sets the asset ledger the engine moves value on.
func WithLedger(l ledger.Ledger) Option {
	return func(e *Extension) {
		e.ledger = l
	}
}

// WithEngineOption passes a tokenvest.Option through to the underlying engine.
func WithEngineOption(opt tokenvest.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, tokenvest.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithAuthority sets the account that controls the engine.
func WithAuthority(account string) Option {
	return func(e *Extension) { e.config.Authority = account }
}

// WithEscrowAccount sets the ledger account that holds unvested value.
func WithEscrowAccount(account string) Option {
	return func(e *Extension) { e.config.EscrowAccount = account }
}

// WithMaxSupply caps total issuance for the lifetime of the engine.
func WithMaxSupply(cap uint64) Option {
	return func(e *Extension) { e.config.MaxSupply = cap }
}

// WithRedisURL backs the schedule store and event journal with the Redis
// instance at the given URL. Ignored when WithStore provides a store.
func WithRedisURL(url string) Option {
	return func(e *Extension) { e.config.RedisURL = url }
}
