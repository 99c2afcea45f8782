package schedule

import (
	"time"

	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/types"
)

type Status string

const (
	StatusPending Status = "pending" // before the cliff, nothing claimable
	StatusVesting Status = "vesting" // inside the linear window
	StatusVested  Status = "vested"  // fully vested, possibly not fully released
	StatusRevoked Status = "revoked"
)

type Schedule struct {
	types.Entity
	ID          id.ScheduleID `json:"id"`
	Beneficiary types.Address `json:"beneficiary"`
	Start       time.Time     `json:"start"`
	Cliff       time.Duration `json:"cliff"`
	Duration    time.Duration `json:"duration"`
	Total       types.Amount  `json:"total"`
	Released    types.Amount  `json:"released"`
	Revoked     bool          `json:"revoked"`
	RevokedAt   *time.Time    `json:"revoked_at,omitempty"`
}

// VestedAt returns the cumulative amount vested as of now. Zero strictly
// before the cliff ends, the exact Total at or after Start+Duration, and
// floor(Total * elapsed / Duration) in between. The full-duration branch
// returns Total itself so integer flooring never strands a remainder.
func (s *Schedule) VestedAt(now time.Time) types.Amount {
	if now.Before(s.Start.Add(s.Cliff)) {
		return 0
	}
	if !now.Before(s.Start.Add(s.Duration)) {
		return s.Total
	}
	elapsed := now.Sub(s.Start)
	return s.Total.MulDiv(uint64(elapsed), uint64(s.Duration))
}

// ReleasableAt returns the vested portion not yet released. If Released has
// somehow exceeded the vested amount the result clamps at zero instead of
// underflowing.
func (s *Schedule) ReleasableAt(now time.Time) types.Amount {
	vested := s.VestedAt(now)
	if s.Released >= vested {
		return 0
	}
	return vested - s.Released
}

// Unreleased returns the portion of Total that has not been released,
// vested or not. This is the amount a revocation reclaims.
func (s *Schedule) Unreleased() types.Amount {
	if s.Released >= s.Total {
		return 0
	}
	return s.Total - s.Released
}

// FullyReleased reports whether every unit of the schedule has been paid out.
func (s *Schedule) FullyReleased() bool {
	return s.Released >= s.Total
}

func (s *Schedule) StatusAt(now time.Time) Status {
	switch {
	case s.Revoked:
		return StatusRevoked
	case now.Before(s.Start.Add(s.Cliff)):
		return StatusPending
	case now.Before(s.Start.Add(s.Duration)):
		return StatusVesting
	default:
		return StatusVested
	}
}

// CliffEnd returns the instant the cliff lifts.
func (s *Schedule) CliffEnd() time.Time { return s.Start.Add(s.Cliff) }

// End returns the instant the schedule is fully vested.
func (s *Schedule) End() time.Time { return s.Start.Add(s.Duration) }
