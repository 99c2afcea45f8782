// Package audithook bridges vesting engine lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit store. Callers inject a RecorderFunc adapter, or use
// the in-memory MemoryRecorder, at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/mobinsaeidi/tokenvest/plugin"
	"github.com/mobinsaeidi/tokenvest/schedule"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnScheduleCreated      = (*Extension)(nil)
	_ plugin.OnTokensReleased       = (*Extension)(nil)
	_ plugin.OnScheduleRevoked      = (*Extension)(nil)
	_ plugin.OnMinted               = (*Extension)(nil)
	_ plugin.OnBurned               = (*Extension)(nil)
	_ plugin.OnPaused               = (*Extension)(nil)
	_ plugin.OnUnpaused             = (*Extension)(nil)
	_ plugin.OnAuthorityTransferred = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges vesting engine lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  mapset.Set[string] // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Schedule lifecycle hooks
// ──────────────────────────────────────────────────

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (e *Extension) OnScheduleCreated(ctx context.Context, sched interface{}) error {
	var (
		resourceID  string
		beneficiary string
		total       uint64
	)
	if s, ok := sched.(*schedule.Schedule); ok {
		resourceID = s.ID.String()
		beneficiary = string(s.Beneficiary)
		total = s.Total.Uint64()
	}
	return e.record(ctx, ActionScheduleCreated, SeverityInfo, OutcomeSuccess,
		ResourceSchedule, resourceID, CategoryVesting, nil,
		"beneficiary", beneficiary,
		"total", total,
	)
}

// OnTokensReleased implements plugin.OnTokensReleased.
func (e *Extension) OnTokensReleased(ctx context.Context, beneficiary string, amount uint64) error {
	return e.record(ctx, ActionTokensReleased, SeverityInfo, OutcomeSuccess,
		ResourceSchedule, beneficiary, CategoryVesting, nil,
		"beneficiary", beneficiary,
		"amount", amount,
	)
}

// OnScheduleRevoked implements plugin.OnScheduleRevoked.
func (e *Extension) OnScheduleRevoked(ctx context.Context, beneficiary string, refunded uint64) error {
	return e.record(ctx, ActionScheduleRevoked, SeverityWarning, OutcomeSuccess,
		ResourceSchedule, beneficiary, CategoryVesting, nil,
		"beneficiary", beneficiary,
		"refunded", refunded,
	)
}

// ──────────────────────────────────────────────────
// Supply hooks
// ──────────────────────────────────────────────────

// OnMinted implements plugin.OnMinted.
func (e *Extension) OnMinted(ctx context.Context, to string, amount uint64) error {
	return e.record(ctx, ActionSupplyMinted, SeverityInfo, OutcomeSuccess,
		ResourceSupply, to, CategorySupply, nil,
		"to", to,
		"amount", amount,
	)
}

// OnBurned implements plugin.OnBurned.
func (e *Extension) OnBurned(ctx context.Context, from string, amount uint64) error {
	return e.record(ctx, ActionSupplyBurned, SeverityInfo, OutcomeSuccess,
		ResourceSupply, from, CategorySupply, nil,
		"from", from,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Control hooks
// ──────────────────────────────────────────────────

// OnPaused implements plugin.OnPaused.
func (e *Extension) OnPaused(ctx context.Context, by string) error {
	return e.record(ctx, ActionSystemPaused, SeverityCritical, OutcomeSuccess,
		ResourceSystem, "", CategoryControl, nil,
		"by", by,
	)
}

// OnUnpaused implements plugin.OnUnpaused.
func (e *Extension) OnUnpaused(ctx context.Context, by string) error {
	return e.record(ctx, ActionSystemUnpaused, SeverityWarning, OutcomeSuccess,
		ResourceSystem, "", CategoryControl, nil,
		"by", by,
	)
}

// OnAuthorityTransferred implements plugin.OnAuthorityTransferred.
func (e *Extension) OnAuthorityTransferred(ctx context.Context, previous, next string) error {
	return e.record(ctx, ActionAuthorityTransferred, SeverityCritical, OutcomeSuccess,
		ResourceAuthority, next, CategoryControl, nil,
		"previous", previous,
		"next", next,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled.Contains(action) {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
