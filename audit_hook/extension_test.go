package audithook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/types"
)

func TestRecordsScheduleLifecycle(t *testing.T) {
	rec := NewMemoryRecorder()
	ext := New(rec)
	ctx := context.Background()

	sched := &schedule.Schedule{
		ID:          id.NewScheduleID(),
		Beneficiary: types.Address("alice"),
		Total:       1200,
	}
	if err := ext.OnScheduleCreated(ctx, sched); err != nil {
		t.Fatalf("on schedule created: %v", err)
	}
	if err := ext.OnTokensReleased(ctx, "alice", 295); err != nil {
		t.Fatalf("on tokens released: %v", err)
	}

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	created := entries[0]
	if created.Action != ActionScheduleCreated {
		t.Errorf("action = %q, want %q", created.Action, ActionScheduleCreated)
	}
	if created.ResourceID != sched.ID.String() {
		t.Errorf("resource id = %q, want %q", created.ResourceID, sched.ID)
	}
	if created.Metadata["total"] != uint64(1200) {
		t.Errorf("total metadata = %v, want 1200", created.Metadata["total"])
	}
	if created.ID.IsNil() {
		t.Error("entry has no audit id")
	}

	released := entries[1]
	if released.Action != ActionTokensReleased || released.Metadata["amount"] != uint64(295) {
		t.Errorf("unexpected release entry: %+v", released.AuditEvent)
	}
}

func TestActionFilter(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"all enabled by default", nil, 2},
		{"enabled subset", []Option{WithEnabledActions(ActionSystemPaused)}, 1},
		{"disabled subset", []Option{WithDisabledActions(ActionTokensReleased)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewMemoryRecorder()
			ext := New(rec, tt.opts...)
			ctx := context.Background()

			if err := ext.OnPaused(ctx, "treasury"); err != nil {
				t.Fatalf("on paused: %v", err)
			}
			if err := ext.OnTokensReleased(ctx, "alice", 10); err != nil {
				t.Fatalf("on tokens released: %v", err)
			}
			if got := rec.Len(); got != tt.want {
				t.Errorf("recorded = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecorderFailureDoesNotPropagate(t *testing.T) {
	boom := RecorderFunc(func(context.Context, *AuditEvent) error {
		return errors.New("backend down")
	})
	ext := New(boom, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	// A failing audit backend must never fail the value movement.
	if err := ext.OnMinted(context.Background(), "alice", 5); err != nil {
		t.Fatalf("hook error = %v, want nil", err)
	}
}
