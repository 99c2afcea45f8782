package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/types"
)

type Store struct {
	mu sync.RWMutex

	// Schedule storage, keyed by beneficiary. Entries are never deleted,
	// which is what makes slot occupancy sticky across revocation.
	schedules map[types.Address]*schedule.Schedule
}

func New() *Store {
	return &Store{
		schedules: make(map[types.Address]*schedule.Schedule),
	}
}

// Schedule Store implementation
func (s *Store) CreateSchedule(_ context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schedules[sched.Beneficiary]; exists {
		return tokenvest.ErrDuplicateSchedule
	}
	s.schedules[sched.Beneficiary] = clone(sched)
	return nil
}

func (s *Store) GetSchedule(_ context.Context, beneficiary types.Address) (*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sched, ok := s.schedules[beneficiary]; ok {
		return clone(sched), nil
	}
	return nil, tokenvest.ErrNoSchedule
}

func (s *Store) UpdateSchedule(_ context.Context, sched *schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.schedules[sched.Beneficiary]; !exists {
		return tokenvest.ErrNoSchedule
	}
	s.schedules[sched.Beneficiary] = clone(sched)
	return nil
}

func (s *Store) ListSchedules(_ context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*schedule.Schedule, 0)
	for _, sched := range s.schedules {
		if opts.Revoked == nil || sched.Revoked == *opts.Revoked {
			result = append(result, clone(sched))
		}
	}

	// Map iteration is unordered; sort so paging is stable.
	sort.Slice(result, func(i, j int) bool {
		return result[i].Beneficiary < result[j].Beneficiary
	})

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) Committed(_ context.Context) (types.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total types.Amount
	for _, sched := range s.schedules {
		if !sched.Revoked {
			total = total.Add(sched.Unreleased())
		}
	}
	return total, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// clone copies a schedule so callers never alias registry state.
func clone(sched *schedule.Schedule) *schedule.Schedule {
	c := *sched
	if sched.RevokedAt != nil {
		at := *sched.RevokedAt
		c.RevokedAt = &at
	}
	return &c
}
