// Package observability provides a metrics extension for the vesting engine
// that records lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"

	"github.com/mobinsaeidi/tokenvest/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnScheduleCreated      = (*MetricsExtension)(nil)
	_ plugin.OnTokensReleased       = (*MetricsExtension)(nil)
	_ plugin.OnScheduleRevoked      = (*MetricsExtension)(nil)
	_ plugin.OnMinted               = (*MetricsExtension)(nil)
	_ plugin.OnBurned               = (*MetricsExtension)(nil)
	_ plugin.OnPaused               = (*MetricsExtension)(nil)
	_ plugin.OnUnpaused             = (*MetricsExtension)(nil)
	_ plugin.OnAuthorityTransferred = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an engine plugin to automatically track vesting activity.
type MetricsExtension struct {
	factory MetricFactory

	// Schedule metrics
	SchedulesCreated Counter
	SchedulesRevoked Counter
	Releases         Counter
	ReleasedUnits    Counter
	RefundedUnits    Counter
	ReleaseSize      Histogram

	// Supply metrics
	Mints       Counter
	MintedUnits Counter
	Burns       Counter
	BurnedUnits Counter

	// Control metrics
	Pauses             Counter
	Unpauses           Counter
	AuthorityTransfers Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Schedule metrics
		SchedulesCreated: factory.Counter("tokenvest.schedule.created"),
		SchedulesRevoked: factory.Counter("tokenvest.schedule.revoked"),
		Releases:         factory.Counter("tokenvest.tokens.releases"),
		ReleasedUnits:    factory.Counter("tokenvest.tokens.released_units"),
		RefundedUnits:    factory.Counter("tokenvest.schedule.refunded_units"),
		ReleaseSize:      factory.Histogram("tokenvest.tokens.release_size"),

		// Supply metrics
		Mints:       factory.Counter("tokenvest.supply.mints"),
		MintedUnits: factory.Counter("tokenvest.supply.minted_units"),
		Burns:       factory.Counter("tokenvest.supply.burns"),
		BurnedUnits: factory.Counter("tokenvest.supply.burned_units"),

		// Control metrics
		Pauses:             factory.Counter("tokenvest.system.pauses"),
		Unpauses:           factory.Counter("tokenvest.system.unpauses"),
		AuthorityTransfers: factory.Counter("tokenvest.authority.transfers"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (m *MetricsExtension) OnScheduleCreated(_ context.Context, _ interface{}) error {
	m.SchedulesCreated.Inc()
	return nil
}

// OnTokensReleased implements plugin.OnTokensReleased.
func (m *MetricsExtension) OnTokensReleased(_ context.Context, _ string, amount uint64) error {
	m.Releases.Inc()
	m.ReleasedUnits.Add(float64(amount))
	m.ReleaseSize.Observe(float64(amount))
	return nil
}

// OnScheduleRevoked implements plugin.OnScheduleRevoked.
func (m *MetricsExtension) OnScheduleRevoked(_ context.Context, _ string, refunded uint64) error {
	m.SchedulesRevoked.Inc()
	m.RefundedUnits.Add(float64(refunded))
	return nil
}

// ──────────────────────────────────────────────────
// Supply hooks
// ──────────────────────────────────────────────────

// OnMinted implements plugin.OnMinted.
func (m *MetricsExtension) OnMinted(_ context.Context, _ string, amount uint64) error {
	m.Mints.Inc()
	m.MintedUnits.Add(float64(amount))
	return nil
}

// OnBurned implements plugin.OnBurned.
func (m *MetricsExtension) OnBurned(_ context.Context, _ string, amount uint64) error {
	m.Burns.Inc()
	m.BurnedUnits.Add(float64(amount))
	return nil
}

// ──────────────────────────────────────────────────
// Control hooks
// ──────────────────────────────────────────────────

// OnPaused implements plugin.OnPaused.
func (m *MetricsExtension) OnPaused(_ context.Context, _ string) error {
	m.Pauses.Inc()
	return nil
}

// OnUnpaused implements plugin.OnUnpaused.
func (m *MetricsExtension) OnUnpaused(_ context.Context, _ string) error {
	m.Unpauses.Inc()
	return nil
}

// OnAuthorityTransferred implements plugin.OnAuthorityTransferred.
func (m *MetricsExtension) OnAuthorityTransferred(_ context.Context, _, _ string) error {
	m.AuthorityTransfers.Inc()
	return nil
}
