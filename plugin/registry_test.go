package plugin

import (
	"context"
	"testing"
)

type recorder struct {
	name   string
	events []string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnTokensReleased(_ context.Context, beneficiary string, _ uint64) error {
	r.events = append(r.events, "released:"+beneficiary)
	return nil
}

func (r *recorder) OnPaused(_ context.Context, by string) error {
	r.events = append(r.events, "paused:"+by)
	return nil
}

type named struct{ name string }

func (n *named) Name() string { return n.name }

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&named{name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&named{name: "b"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if got := r.Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if p := r.Get("a"); p == nil || p.Name() != "a" {
		t.Errorf("Get(a) = %v", p)
	}
	if p := r.Get("missing"); p != nil {
		t.Errorf("Get(missing) = %v, want nil", p)
	}
	if got := len(r.List()); got != 2 {
		t.Errorf("List len = %d, want 2", got)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&named{name: "dup"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&named{name: "dup"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestDispatchReachesOnlyImplementors(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	rec := &recorder{name: "rec"}
	plain := &named{name: "plain"}
	if err := r.Register(rec); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(plain); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r.EmitTokensReleased(ctx, "alice", 100)
	r.EmitPaused(ctx, "authority")
	r.EmitMinted(ctx, "bob", 5) // recorder does not implement OnMinted

	want := []string{"released:alice", "paused:authority"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}
