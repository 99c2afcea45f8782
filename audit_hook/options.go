package audithook

import (
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
)

// Option configures an Extension.
type Option func(*Extension)

// WithLogger sets the logger for the extension.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extension) {
		e.logger = logger
	}
}

// WithEnabledActions sets which actions to audit.
// If not called, all actions are audited.
func WithEnabledActions(actions ...string) Option {
	return func(e *Extension) {
		e.enabled = mapset.NewSet(actions...)
	}
}

// WithDisabledActions sets which actions to skip.
func WithDisabledActions(actions ...string) Option {
	return func(e *Extension) {
		if e.enabled == nil {
			// Start with all enabled
			e.enabled = mapset.NewSet(allActions()...)
		}
		e.enabled.RemoveAll(actions...)
	}
}

// allActions returns all known audit actions.
func allActions() []string {
	return []string{
		ActionScheduleCreated,
		ActionTokensReleased,
		ActionScheduleRevoked,
		ActionSupplyMinted,
		ActionSupplyBurned,
		ActionSystemPaused,
		ActionSystemUnpaused,
		ActionAuthorityTransferred,
	}
}
