package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/types"
)

// Amounts travel as decimal text so the full uint64 range survives the
// round trip; SQLite integers top out at the signed range.
type scheduleModel struct {
	grove.BaseModel `grove:"table:tokenvest_schedules"`

	Beneficiary string     `grove:"beneficiary,pk"`
	ID          string     `grove:"id"`
	StartAt     time.Time  `grove:"start_at"`
	CliffNs     int64      `grove:"cliff_ns"`
	DurationNs  int64      `grove:"duration_ns"`
	Total       string     `grove:"total"`
	Released    string     `grove:"released"`
	Revoked     bool       `grove:"revoked"`
	RevokedAt   *time.Time `grove:"revoked_at"`
	CreatedAt   time.Time  `grove:"created_at"`
	UpdatedAt   time.Time  `grove:"updated_at"`
}

func toScheduleModel(sched *schedule.Schedule) *scheduleModel {
	return &scheduleModel{
		Beneficiary: string(sched.Beneficiary),
		ID:          sched.ID.String(),
		StartAt:     sched.Start,
		CliffNs:     int64(sched.Cliff),
		DurationNs:  int64(sched.Duration),
		Total:       sched.Total.String(),
		Released:    sched.Released.String(),
		Revoked:     sched.Revoked,
		RevokedAt:   sched.RevokedAt,
		CreatedAt:   sched.CreatedAt,
		UpdatedAt:   sched.UpdatedAt,
	}
}

func fromScheduleModel(m *scheduleModel) (*schedule.Schedule, error) {
	schedID, err := id.ParseScheduleID(m.ID)
	if err != nil {
		return nil, err
	}
	total, err := types.ParseAmount(m.Total)
	if err != nil {
		return nil, err
	}
	released, err := types.ParseAmount(m.Released)
	if err != nil {
		return nil, err
	}

	return &schedule.Schedule{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          schedID,
		Beneficiary: types.Address(m.Beneficiary),
		Start:       m.StartAt,
		Cliff:       time.Duration(m.CliffNs),
		Duration:    time.Duration(m.DurationNs),
		Total:       total,
		Released:    released,
		Revoked:     m.Revoked,
		RevokedAt:   m.RevokedAt,
	}, nil
}
