// Package redis provides a Redis-backed implementation of store.Store.
//
// Schedules are stored as JSON values keyed by beneficiary and indexed in
// a set so listings never scan the keyspace. Slot occupancy rides on SETNX,
// so concurrent creations for the same beneficiary resolve to one winner.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/store"
	"github.com/mobinsaeidi/tokenvest/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on a Redis client.
type Store struct {
	client *goredis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key namespace. The default is "tokenvest".
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis-backed store. The client is owned by the store
// once handed over; Close closes it.
func New(client *goredis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "tokenvest",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) scheduleKey(beneficiary types.Address) string {
	return s.prefix + ":schedule:" + string(beneficiary)
}

func (s *Store) indexKey() string {
	return s.prefix + ":schedules"
}

// Schedule Store implementation
func (s *Store) CreateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	data, err := json.Marshal(sched)
	if err != nil {
		return err
	}

	created, err := s.client.SetNX(ctx, s.scheduleKey(sched.Beneficiary), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return tokenvest.ErrDuplicateSchedule
	}
	return s.client.SAdd(ctx, s.indexKey(), string(sched.Beneficiary)).Err()
}

func (s *Store) GetSchedule(ctx context.Context, beneficiary types.Address) (*schedule.Schedule, error) {
	data, err := s.client.Get(ctx, s.scheduleKey(beneficiary)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, tokenvest.ErrNoSchedule
		}
		return nil, err
	}

	sched := new(schedule.Schedule)
	if err := json.Unmarshal(data, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	data, err := json.Marshal(sched)
	if err != nil {
		return err
	}

	// XX: only overwrite an existing slot, never resurrect a missing one.
	updated, err := s.client.SetXX(ctx, s.scheduleKey(sched.Beneficiary), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return tokenvest.ErrNoSchedule
	}
	return nil
}

func (s *Store) ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*schedule.Schedule, 0, len(all))
	for _, sched := range all {
		if opts.Revoked == nil || sched.Revoked == *opts.Revoked {
			result = append(result, sched)
		}
	}

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

func (s *Store) Committed(ctx context.Context) (types.Amount, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	var total types.Amount
	for _, sched := range all {
		if !sched.Revoked {
			total = total.Add(sched.Unreleased())
		}
	}
	return total, nil
}

// loadAll fetches every indexed schedule, sorted by beneficiary so paging
// is stable.
func (s *Store) loadAll(ctx context.Context) ([]*schedule.Schedule, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	sort.Strings(members)

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = s.scheduleKey(types.Address(member))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*schedule.Schedule, 0, len(values))
	for _, value := range values {
		var data []byte
		switch v := value.(type) {
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			// Index entry without a value; schedules are never deleted,
			// so this only happens mid-create. Skip it.
			continue
		}
		sched := new(schedule.Schedule)
		if err := json.Unmarshal(data, sched); err != nil {
			return nil, err
		}
		result = append(result, sched)
	}
	return result, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // Redis is schemaless, nothing to migrate
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
