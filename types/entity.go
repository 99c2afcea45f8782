package types

import "time"

// Entity is the base type for engine records with timestamps. Embed it in
// domain types to get uniform timestamp handling. Timestamps are supplied by
// the caller rather than read from the wall clock, so records created under
// an injected clock stay deterministic.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntityAt creates an Entity with both timestamps set to now.
func NewEntityAt(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TouchAt sets the UpdatedAt timestamp.
func (e *Entity) TouchAt(now time.Time) {
	e.UpdatedAt = now.UTC()
}

// Age returns how long ago the entity was created, relative to now.
func (e Entity) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
