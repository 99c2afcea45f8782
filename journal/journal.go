// Package journal persists engine events to Redis so external consumers can
// replay what the engine did, and when, without running inside the engine
// process.
//
// Each event is stored under its own key and indexed in a sorted set scored
// by its timestamp, so readers page through history in time order without
// scanning the keyspace.
package journal

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrEncodeFailed = errors.New("failed to encode event")
	ErrDecodeFailed = errors.New("failed to decode event")
)

// Actions recorded by the engine Recorder.
const (
	ActionScheduleCreated      = "schedule.created"
	ActionTokensReleased       = "tokens.released"
	ActionScheduleRevoked      = "schedule.revoked"
	ActionSupplyMinted         = "supply.minted"
	ActionSupplyBurned         = "supply.burned"
	ActionSystemPaused         = "system.paused"
	ActionSystemUnpaused       = "system.unpaused"
	ActionAuthorityTransferred = "authority.transferred"
)

// Event is a single engine action as it went out on the wire.
type Event struct {
	ID      string    `msgpack:"id" json:"id"`
	Action  string    `msgpack:"action" json:"action"`
	Actor   string    `msgpack:"actor,omitempty" json:"actor,omitempty"`
	Account string    `msgpack:"account,omitempty" json:"account,omitempty"`
	Amount  uint64    `msgpack:"amount" json:"amount"`
	At      time.Time `msgpack:"at" json:"at"`
}

// Journal writes events to Redis and reads them back in time order.
// Events sharing a microsecond come back in unspecified relative order.
type Journal struct {
	client *redis.Client
	encode Encoder[Event]
	decode Decoder[Event]
	prefix string
}

// Options contains configuration options for creating a new Journal.
type Options struct {
	Client  *redis.Client
	Prefix  string         // key namespace, defaults to "tokenvest"
	Encoder Encoder[Event] // defaults to msgpack
	Decoder Decoder[Event] // defaults to msgpack
}

// New creates a new Journal instance.
func New(opts Options) *Journal {
	j := &Journal{
		client: opts.Client,
		encode: opts.Encoder,
		decode: opts.Decoder,
		prefix: opts.Prefix,
	}
	if j.prefix == "" {
		j.prefix = "tokenvest"
	}
	if j.encode == nil {
		j.encode = MsgpackEncoder[Event]()
	}
	if j.decode == nil {
		j.decode = MsgpackDecoder[Event]()
	}
	return j
}

func (j *Journal) eventKey(id string) string {
	return j.prefix + ":journal:event:" + id
}

func (j *Journal) timelineKey() string {
	return j.prefix + ":journal:timeline"
}

// Append stores the event and indexes it on the timeline.
func (j *Journal) Append(ctx context.Context, evt Event) error {
	data, err := j.encode(evt)
	if err != nil {
		return errors.Join(ErrEncodeFailed, err)
	}

	pipe := j.client.Pipeline()
	pipe.Set(ctx, j.eventKey(evt.ID), data, 0)
	pipe.ZAdd(ctx, j.timelineKey(), redis.Z{
		Score:  float64(evt.At.UnixMicro()),
		Member: evt.ID,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// Get retrieves a single event by id.
// Returns ErrNotFound if the event does not exist.
func (j *Journal) Get(ctx context.Context, id string) (Event, error) {
	var zero Event

	data, err := j.client.Get(ctx, j.eventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	evt, err := j.decode(data)
	if err != nil {
		return zero, errors.Join(ErrDecodeFailed, err)
	}
	return evt, nil
}

// Events returns every recorded event, oldest first.
func (j *Journal) Events(ctx context.Context) ([]Event, error) {
	ids, err := j.client.ZRange(ctx, j.timelineKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return j.fetch(ctx, ids)
}

// EventsSince returns events recorded at or after t, oldest first.
func (j *Journal) EventsSince(ctx context.Context, t time.Time) ([]Event, error) {
	ids, err := j.client.ZRangeByScore(ctx, j.timelineKey(), &redis.ZRangeBy{
		Min: strconv.FormatInt(t.UnixMicro(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}
	return j.fetch(ctx, ids)
}

// Count returns the number of recorded events.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	return j.client.ZCard(ctx, j.timelineKey()).Result()
}

// fetch loads events for the given ids with a single MGet, preserving order.
func (j *Journal) fetch(ctx context.Context, ids []string) ([]Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = j.eventKey(id)
	}

	results, err := j.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(results))
	for _, result := range results {
		if result == nil {
			// Index entry outlived its event.
			continue
		}

		var data []byte
		switch v := result.(type) {
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			continue
		}

		evt, err := j.decode(data)
		if err != nil {
			return nil, errors.Join(ErrDecodeFailed, err)
		}
		events = append(events, evt)
	}

	return events, nil
}
