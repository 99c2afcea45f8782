// Package plugin provides an extensible plugin system for the vesting
// engine. Plugins can hook into lifecycle and value-movement events to
// extend functionality.
package plugin

import "context"

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated is called after a vesting schedule is created and the
// escrow has accepted the allocation.
type OnScheduleCreated interface {
	Plugin
	OnScheduleCreated(ctx context.Context, sched interface{}) error
}

// OnTokensReleased is called after vested value has been paid out to a
// beneficiary. amount is the portion released by this call, not the
// cumulative total.
type OnTokensReleased interface {
	Plugin
	OnTokensReleased(ctx context.Context, beneficiary string, amount uint64) error
}

// OnScheduleRevoked is called after a schedule is revoked. refunded is the
// unreleased value returned to the authority.
type OnScheduleRevoked interface {
	Plugin
	OnScheduleRevoked(ctx context.Context, beneficiary string, refunded uint64) error
}

// ──────────────────────────────────────────────────
// Supply hooks
// ──────────────────────────────────────────────────

// OnMinted is called after new value is issued.
type OnMinted interface {
	Plugin
	OnMinted(ctx context.Context, to string, amount uint64) error
}

// OnBurned is called after value is destroyed.
type OnBurned interface {
	Plugin
	OnBurned(ctx context.Context, from string, amount uint64) error
}

// ──────────────────────────────────────────────────
// Control hooks
// ──────────────────────────────────────────────────

// OnPaused is called after the engine is paused.
type OnPaused interface {
	Plugin
	OnPaused(ctx context.Context, by string) error
}

// OnUnpaused is called after the engine is unpaused.
type OnUnpaused interface {
	Plugin
	OnUnpaused(ctx context.Context, by string) error
}

// OnAuthorityTransferred is called after the authority moves to a new holder.
type OnAuthorityTransferred interface {
	Plugin
	OnAuthorityTransferred(ctx context.Context, previous, next string) error
}
