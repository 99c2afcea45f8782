package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/store"
	"github.com/mobinsaeidi/tokenvest/types"
)

// Collection name constants.
const (
	colSchedules = "tokenvest_schedules"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for the schedule collection.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tokenvest/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Schedule Store ====================

func (s *Store) CreateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	m := toScheduleModel(sched)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		// The beneficiary is the document ID, so an occupied slot shows
		// up as a duplicate key.
		if mongo.IsDuplicateKeyError(err) {
			return tokenvest.ErrDuplicateSchedule
		}
		return fmt.Errorf("tokenvest/mongo: create schedule: %w", err)
	}
	return nil
}

func (s *Store) GetSchedule(ctx context.Context, beneficiary types.Address) (*schedule.Schedule, error) {
	var m scheduleModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": string(beneficiary)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tokenvest.ErrNoSchedule
		}
		return nil, fmt.Errorf("tokenvest/mongo: get schedule: %w", err)
	}
	return fromScheduleModel(&m)
}

func (s *Store) UpdateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	m := toScheduleModel(sched)

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Beneficiary}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenvest/mongo: update schedule: %w", err)
	}
	if res.MatchedCount() == 0 {
		return tokenvest.ErrNoSchedule
	}
	return nil
}

func (s *Store) ListSchedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	var models []scheduleModel

	filter := bson.M{}
	if opts.Revoked != nil {
		filter["revoked"] = *opts.Revoked
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("tokenvest/mongo: list schedules: %w", err)
	}

	result := make([]*schedule.Schedule, len(models))
	for i := range models {
		sched, err := fromScheduleModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sched
	}
	return result, nil
}

func (s *Store) Committed(ctx context.Context) (types.Amount, error) {
	// Amounts live as decimal text, so the outstanding sum folds in Go
	// rather than in an aggregation pipeline.
	var models []scheduleModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"revoked": false}).
		Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("tokenvest/mongo: sum committed: %w", err)
	}

	var total types.Amount
	for i := range models {
		sched, err := fromScheduleModel(&models[i])
		if err != nil {
			return 0, err
		}
		total = total.Add(sched.Unreleased())
	}
	return total, nil
}

// ==================== Helpers ====================

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for the schedule collection.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colSchedules: {
			{Keys: bson.D{{Key: "revoked", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
	}
}
