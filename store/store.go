package store

import (
	"context"

	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/types"
)

// Store is the storage interface for the vesting registry. It tracks at most
// one schedule per beneficiary, forever: revoked and fully released schedules
// stay in the registry as the historical record, and their slots are never
// reusable.
//
// Reads return snapshots. Mutating a returned schedule has no effect until it
// is committed back through UpdateSchedule.
type Store interface {
	// Schedule methods
	CreateSchedule(ctx context.Context, s *schedule.Schedule) error
	GetSchedule(ctx context.Context, beneficiary types.Address) (*schedule.Schedule, error)
	UpdateSchedule(ctx context.Context, s *schedule.Schedule) error
	ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error)

	// Committed returns the value still owed across all non-revoked
	// schedules: the sum of Total - Released. The engine subtracts this
	// from the escrow balance to find what is free to allocate.
	Committed(ctx context.Context) (types.Amount, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
