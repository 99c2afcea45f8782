package access

import "sync/atomic"

// Gate is the pause switch consulted before any value-moving operation.
// Transitions report whether they took effect so the caller can distinguish
// a real transition from a redundant one without a read-then-write race.
type Gate interface {
	// Paused reports whether the gate is closed.
	Paused() bool

	// Pause closes the gate. Returns false if it was already closed.
	Pause() bool

	// Unpause opens the gate. Returns false if it was already open.
	Unpause() bool
}

// Switch is the default Gate: a single atomic flag.
type Switch struct {
	paused atomic.Bool
}

var _ Gate = (*Switch)(nil)

// NewSwitch creates an open (unpaused) Gate.
func NewSwitch() *Switch {
	return &Switch{}
}

func (s *Switch) Paused() bool {
	return s.paused.Load()
}

func (s *Switch) Pause() bool {
	return s.paused.CompareAndSwap(false, true)
}

func (s *Switch) Unpause() bool {
	return s.paused.CompareAndSwap(true, false)
}
