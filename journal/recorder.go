package journal

import (
	"context"
	"time"

	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/plugin"
	"github.com/mobinsaeidi/tokenvest/schedule"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Recorder)(nil)
	_ plugin.OnScheduleCreated      = (*Recorder)(nil)
	_ plugin.OnTokensReleased       = (*Recorder)(nil)
	_ plugin.OnScheduleRevoked      = (*Recorder)(nil)
	_ plugin.OnMinted               = (*Recorder)(nil)
	_ plugin.OnBurned               = (*Recorder)(nil)
	_ plugin.OnPaused               = (*Recorder)(nil)
	_ plugin.OnUnpaused             = (*Recorder)(nil)
	_ plugin.OnAuthorityTransferred = (*Recorder)(nil)
)

// Recorder is a plugin that appends every engine event to a Journal.
type Recorder struct {
	journal *Journal
	clock   func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the time source used to stamp events.
func WithClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.clock = clock
	}
}

// NewRecorder creates a Recorder writing into j.
func NewRecorder(j *Journal, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		journal: j,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements plugin.Plugin.
func (r *Recorder) Name() string { return "journal" }

// OnScheduleCreated implements plugin.OnScheduleCreated.
func (r *Recorder) OnScheduleCreated(ctx context.Context, sched interface{}) error {
	evt := Event{Action: ActionScheduleCreated}
	if s, ok := sched.(*schedule.Schedule); ok {
		evt.Account = string(s.Beneficiary)
		evt.Amount = s.Total.Uint64()
	}
	return r.append(ctx, evt)
}

// OnTokensReleased implements plugin.OnTokensReleased.
func (r *Recorder) OnTokensReleased(ctx context.Context, beneficiary string, amount uint64) error {
	return r.append(ctx, Event{Action: ActionTokensReleased, Account: beneficiary, Amount: amount})
}

// OnScheduleRevoked implements plugin.OnScheduleRevoked.
func (r *Recorder) OnScheduleRevoked(ctx context.Context, beneficiary string, refunded uint64) error {
	return r.append(ctx, Event{Action: ActionScheduleRevoked, Account: beneficiary, Amount: refunded})
}

// OnMinted implements plugin.OnMinted.
func (r *Recorder) OnMinted(ctx context.Context, to string, amount uint64) error {
	return r.append(ctx, Event{Action: ActionSupplyMinted, Account: to, Amount: amount})
}

// OnBurned implements plugin.OnBurned.
func (r *Recorder) OnBurned(ctx context.Context, from string, amount uint64) error {
	return r.append(ctx, Event{Action: ActionSupplyBurned, Account: from, Amount: amount})
}

// OnPaused implements plugin.OnPaused.
func (r *Recorder) OnPaused(ctx context.Context, by string) error {
	return r.append(ctx, Event{Action: ActionSystemPaused, Actor: by})
}

// OnUnpaused implements plugin.OnUnpaused.
func (r *Recorder) OnUnpaused(ctx context.Context, by string) error {
	return r.append(ctx, Event{Action: ActionSystemUnpaused, Actor: by})
}

// OnAuthorityTransferred implements plugin.OnAuthorityTransferred.
func (r *Recorder) OnAuthorityTransferred(ctx context.Context, previous, next string) error {
	return r.append(ctx, Event{Action: ActionAuthorityTransferred, Actor: previous, Account: next})
}

func (r *Recorder) append(ctx context.Context, evt Event) error {
	evt.ID = id.NewEventID().String()
	evt.At = r.clock()
	return r.journal.Append(ctx, evt)
}
