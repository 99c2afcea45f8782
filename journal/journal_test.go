package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/types"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return New(Options{Client: client, Prefix: "test"})
}

func TestAppendAndReadBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []Event{
		{ID: id.NewEventID().String(), Action: ActionSupplyMinted, Account: "escrow", Amount: 10_000, At: base},
		{ID: id.NewEventID().String(), Action: ActionScheduleCreated, Account: "alice", Amount: 1200, At: base.Add(time.Second)},
		{ID: id.NewEventID().String(), Action: ActionTokensReleased, Account: "alice", Amount: 295, At: base.Add(2 * time.Second)},
	}
	for _, evt := range events {
		if err := j.Append(ctx, evt); err != nil {
			t.Fatalf("append %s: %v", evt.Action, err)
		}
	}

	count, err := j.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	got, err := j.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("events = %d, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i].ID != events[i].ID {
			t.Errorf("event[%d].ID = %s, want %s", i, got[i].ID, events[i].ID)
		}
		if got[i].Action != events[i].Action || got[i].Amount != events[i].Amount {
			t.Errorf("event[%d] = %+v, want %+v", i, got[i], events[i])
		}
		if !got[i].At.Equal(events[i].At) {
			t.Errorf("event[%d].At = %v, want %v", i, got[i].At, events[i].At)
		}
	}

	single, err := j.Get(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if single.Account != "alice" || single.Amount != 1200 {
		t.Errorf("got %+v, want the creation event", single)
	}

	if _, err := j.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing error = %v, want ErrNotFound", err)
	}
}

func TestEventsSince(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, action := range []string{ActionSupplyMinted, ActionScheduleCreated, ActionTokensReleased} {
		evt := Event{
			ID:     id.NewEventID().String(),
			Action: action,
			At:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := j.Append(ctx, evt); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := j.EventsSince(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("events since: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events since = %d, want 2", len(got))
	}
	if got[0].Action != ActionScheduleCreated || got[1].Action != ActionTokensReleased {
		t.Errorf("unexpected order: %s, %s", got[0].Action, got[1].Action)
	}
}

func TestRecorderHooks(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := NewRecorder(j, WithClock(func() time.Time { return now }))

	sched := &schedule.Schedule{
		ID:          id.NewScheduleID(),
		Beneficiary: types.Address("alice"),
		Total:       1200,
	}
	if err := rec.OnScheduleCreated(ctx, sched); err != nil {
		t.Fatalf("on schedule created: %v", err)
	}
	now = now.Add(time.Second)
	if err := rec.OnTokensReleased(ctx, "alice", 295); err != nil {
		t.Fatalf("on tokens released: %v", err)
	}
	now = now.Add(time.Second)
	if err := rec.OnAuthorityTransferred(ctx, "treasury", "successor"); err != nil {
		t.Fatalf("on authority transferred: %v", err)
	}

	events, err := j.Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].Action != ActionScheduleCreated || events[0].Account != "alice" || events[0].Amount != 1200 {
		t.Errorf("unexpected creation event: %+v", events[0])
	}
	if events[1].Action != ActionTokensReleased || events[1].Amount != 295 {
		t.Errorf("unexpected release event: %+v", events[1])
	}
	if events[2].Actor != "treasury" || events[2].Account != "successor" {
		t.Errorf("unexpected transfer event: %+v", events[2])
	}
	for i, evt := range events {
		if evt.ID == "" {
			t.Errorf("event[%d] has no id", i)
		}
	}
}
