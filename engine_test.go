package tokenvest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mobinsaeidi/tokenvest"
	"github.com/mobinsaeidi/tokenvest/ledger"
	ledgermem "github.com/mobinsaeidi/tokenvest/ledger/memory"
	storemem "github.com/mobinsaeidi/tokenvest/store/memory"
	"github.com/mobinsaeidi/tokenvest/types"
)

const treasury = tokenvest.Address("treasury")

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, maxSupply tokenvest.Amount, opts ...tokenvest.Option) (*tokenvest.Engine, *testClock) {
	t.Helper()

	clk := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	base := []tokenvest.Option{
		tokenvest.WithLogger(quietLogger()),
		tokenvest.WithClock(clk.Now),
	}
	eng := tokenvest.New(storemem.New(), ledgermem.New(), treasury, maxSupply, append(base, opts...)...)

	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Stop() })

	return eng, clk
}

func fundEscrow(t *testing.T, eng *tokenvest.Engine, amount tokenvest.Amount) {
	t.Helper()
	if err := eng.Mint(context.Background(), treasury, eng.EscrowAccount(), amount); err != nil {
		t.Fatalf("fund escrow: %v", err)
	}
}

const day = 24 * time.Hour

func TestCreateScheduleValidation(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	tests := []struct {
		name        string
		caller      tokenvest.Address
		beneficiary tokenvest.Address
		cliff       time.Duration
		duration    time.Duration
		total       tokenvest.Amount
		wantErr     error
	}{
		{"not authority", "mallory", "alice", 0, 365 * day, 100, tokenvest.ErrUnauthorized},
		{"zero beneficiary", treasury, "", 0, 365 * day, 100, tokenvest.ErrInvalidBeneficiary},
		{"zero total", treasury, "alice", 0, 365 * day, 0, tokenvest.ErrInvalidAmount},
		{"zero duration", treasury, "alice", 0, 0, 100, tokenvest.ErrInvalidDuration},
		{"negative cliff", treasury, "alice", -day, 365 * day, 100, tokenvest.ErrInvalidDuration},
		{"cliff past duration", treasury, "alice", 366 * day, 365 * day, 100, tokenvest.ErrInvalidDuration},
		{"exceeds escrow", treasury, "alice", 0, 365 * day, 10_001, tokenvest.ErrInsufficientBalance},
		{"cliff equals duration", treasury, "alice", 365 * day, 365 * day, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.CreateSchedule(ctx, tt.caller, tt.beneficiary, clk.Now(), tt.cliff, tt.duration, tt.total)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateSchedule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateScheduleSlotIsSticky(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 1200); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 500)
	if !errors.Is(err, tokenvest.ErrDuplicateSchedule) {
		t.Fatalf("second create error = %v, want ErrDuplicateSchedule", err)
	}

	// Revocation retires the slot but never frees it.
	if _, err := eng.Revoke(ctx, treasury, "alice"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err = eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 500)
	if !errors.Is(err, tokenvest.ErrDuplicateSchedule) {
		t.Fatalf("create after revoke error = %v, want ErrDuplicateSchedule", err)
	}
}

func TestVestingLifecycle(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	// 1200 units over a year with a 90-day cliff.
	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 90*day, 365*day, 1200); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Nothing has vested at the start.
	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, tokenvest.ErrNothingToRelease) {
		t.Fatalf("release at start error = %v, want ErrNothingToRelease", err)
	}

	// Still inside the cliff one second before it ends.
	clk.Advance(90*day - time.Second)
	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, tokenvest.ErrNothingToRelease) {
		t.Fatalf("release inside cliff error = %v, want ErrNothingToRelease", err)
	}

	// The cliff ends and the full linear amount unlocks at once.
	clk.Advance(time.Second)
	preview, err := eng.Releasable(ctx, "alice")
	if err != nil {
		t.Fatalf("releasable: %v", err)
	}
	paid, err := eng.Release(ctx, "alice")
	if err != nil {
		t.Fatalf("release at cliff: %v", err)
	}
	if paid != 295 || paid != preview {
		t.Fatalf("release at cliff = %d (preview %d), want 295", paid, preview)
	}

	// Midway through the year.
	clk.Advance(90 * day)
	paid, err = eng.Release(ctx, "alice")
	if err != nil {
		t.Fatalf("release midway: %v", err)
	}
	if paid != 296 {
		t.Fatalf("release midway = %d, want 296", paid)
	}

	// Releasing twice at the same instant pays nothing the second time.
	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, tokenvest.ErrNothingToRelease) {
		t.Fatalf("repeat release error = %v, want ErrNothingToRelease", err)
	}

	// At the end the exact remainder comes out, with no dust left behind.
	clk.Advance(185 * day)
	paid, err = eng.Release(ctx, "alice")
	if err != nil {
		t.Fatalf("release at end: %v", err)
	}
	if paid != 609 {
		t.Fatalf("release at end = %d, want 609", paid)
	}

	balance, err := eng.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1200 {
		t.Fatalf("alice balance = %d, want 1200", balance)
	}

	sched, err := eng.GetSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if !sched.FullyReleased() {
		t.Fatalf("schedule not fully released: released=%d total=%d", sched.Released, sched.Total)
	}
}

func TestRevoke(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 1200); err != nil {
		t.Fatalf("create: %v", err)
	}

	clk.Advance(180 * day)
	if _, err := eng.Release(ctx, "alice"); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Everything unreleased goes back to the authority, vested or not.
	refund, err := eng.Revoke(ctx, treasury, "alice")
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if refund != 609 {
		t.Fatalf("refund = %d, want 609", refund)
	}

	balance, err := eng.BalanceOf(ctx, treasury)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 609 {
		t.Fatalf("treasury balance = %d, want 609", balance)
	}

	sched, err := eng.GetSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if !sched.Revoked || sched.RevokedAt == nil {
		t.Fatal("schedule not marked revoked")
	}

	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, tokenvest.ErrScheduleRevoked) {
		t.Fatalf("release after revoke error = %v, want ErrScheduleRevoked", err)
	}
	if _, err := eng.Releasable(ctx, "alice"); !errors.Is(err, tokenvest.ErrScheduleRevoked) {
		t.Fatalf("releasable after revoke error = %v, want ErrScheduleRevoked", err)
	}
	if _, err := eng.Revoke(ctx, treasury, "alice"); !errors.Is(err, tokenvest.ErrAlreadyRevoked) {
		t.Fatalf("second revoke error = %v, want ErrAlreadyRevoked", err)
	}
	if _, err := eng.Revoke(ctx, "mallory", "alice"); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("revoke by outsider error = %v, want ErrUnauthorized", err)
	}
	if _, err := eng.Revoke(ctx, treasury, "nobody"); !errors.Is(err, tokenvest.ErrNoSchedule) {
		t.Fatalf("revoke unknown error = %v, want ErrNoSchedule", err)
	}
}

func TestPauseGate(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 1200); err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(180 * day)

	if err := eng.Pause(ctx, "mallory"); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("pause by outsider error = %v, want ErrUnauthorized", err)
	}
	if err := eng.Pause(ctx, treasury); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !eng.Paused() {
		t.Fatal("engine not paused")
	}
	if err := eng.Pause(ctx, treasury); !errors.Is(err, tokenvest.ErrAlreadyPaused) {
		t.Fatalf("second pause error = %v, want ErrAlreadyPaused", err)
	}

	// Value movement is halted, even for the authority.
	if _, err := eng.CreateSchedule(ctx, treasury, "bob", clk.Now(), 0, day, 100); !errors.Is(err, tokenvest.ErrSystemPaused) {
		t.Fatalf("create while paused error = %v, want ErrSystemPaused", err)
	}
	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, tokenvest.ErrSystemPaused) {
		t.Fatalf("release while paused error = %v, want ErrSystemPaused", err)
	}
	if err := eng.Mint(ctx, treasury, "bob", 1); !errors.Is(err, tokenvest.ErrSystemPaused) {
		t.Fatalf("mint while paused error = %v, want ErrSystemPaused", err)
	}
	if err := eng.Burn(ctx, treasury, 1); !errors.Is(err, tokenvest.ErrSystemPaused) {
		t.Fatalf("burn while paused error = %v, want ErrSystemPaused", err)
	}

	// Revocation is the recovery path and must keep working.
	refund, err := eng.Revoke(ctx, treasury, "alice")
	if err != nil {
		t.Fatalf("revoke while paused: %v", err)
	}
	if refund != 1200 {
		t.Fatalf("refund = %d, want 1200", refund)
	}

	if err := eng.Unpause(ctx, "mallory"); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("unpause by outsider error = %v, want ErrUnauthorized", err)
	}
	if err := eng.Unpause(ctx, treasury); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := eng.Unpause(ctx, treasury); !errors.Is(err, tokenvest.ErrNotPaused) {
		t.Fatalf("second unpause error = %v, want ErrNotPaused", err)
	}

	if _, err := eng.CreateSchedule(ctx, treasury, "bob", clk.Now(), 0, day, 100); err != nil {
		t.Fatalf("create after unpause: %v", err)
	}
}

func TestMintSupplyCap(t *testing.T) {
	eng, _ := newTestEngine(t, 500)
	ctx := context.Background()

	if err := eng.Mint(ctx, "mallory", "alice", 1); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("mint by outsider error = %v, want ErrUnauthorized", err)
	}
	if err := eng.Mint(ctx, treasury, "", 1); !errors.Is(err, tokenvest.ErrInvalidAccount) {
		t.Fatalf("mint to zero account error = %v, want ErrInvalidAccount", err)
	}
	if err := eng.Mint(ctx, treasury, "alice", 0); !errors.Is(err, tokenvest.ErrInvalidAmount) {
		t.Fatalf("mint zero error = %v, want ErrInvalidAmount", err)
	}

	// Minting exactly to the cap is allowed; one unit past it is not.
	if err := eng.Mint(ctx, treasury, "alice", 500); err != nil {
		t.Fatalf("mint to cap: %v", err)
	}
	if err := eng.Mint(ctx, treasury, "alice", 1); !errors.Is(err, tokenvest.ErrSupplyCapExceeded) {
		t.Fatalf("mint past cap error = %v, want ErrSupplyCapExceeded", err)
	}

	issued, err := eng.TotalIssued(ctx)
	if err != nil {
		t.Fatalf("total issued: %v", err)
	}
	if issued != 500 {
		t.Fatalf("issued = %d, want 500", issued)
	}

	// Burning frees headroom under the cap.
	if err := eng.Burn(ctx, "alice", 100); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if err := eng.Mint(ctx, treasury, "bob", 100); err != nil {
		t.Fatalf("mint after burn: %v", err)
	}
}

func TestBurn(t *testing.T) {
	eng, _ := newTestEngine(t, 1_000_000)
	ctx := context.Background()

	if err := eng.Mint(ctx, treasury, "alice", 300); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := eng.Burn(ctx, "alice", 0); !errors.Is(err, tokenvest.ErrInvalidAmount) {
		t.Fatalf("burn zero error = %v, want ErrInvalidAmount", err)
	}
	if err := eng.Burn(ctx, "alice", 301); !errors.Is(err, tokenvest.ErrInsufficientBalance) {
		t.Fatalf("burn past balance error = %v, want ErrInsufficientBalance", err)
	}
	if err := eng.Burn(ctx, "alice", 120); err != nil {
		t.Fatalf("burn: %v", err)
	}

	balance, err := eng.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 180 {
		t.Fatalf("balance = %d, want 180", balance)
	}
	issued, err := eng.TotalIssued(ctx)
	if err != nil {
		t.Fatalf("total issued: %v", err)
	}
	if issued != 180 {
		t.Fatalf("issued = %d, want 180", issued)
	}
}

func TestTransferAuthority(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	if err := eng.TransferAuthority(ctx, "mallory", "mallory"); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("transfer by outsider error = %v, want ErrUnauthorized", err)
	}
	if err := eng.TransferAuthority(ctx, treasury, ""); !errors.Is(err, tokenvest.ErrInvalidAccount) {
		t.Fatalf("transfer to zero error = %v, want ErrInvalidAccount", err)
	}

	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 1200); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := eng.TransferAuthority(ctx, treasury, "successor"); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := eng.Authority(); got != "successor" {
		t.Fatalf("authority = %q, want successor", got)
	}

	// The previous holder is just another account now.
	if _, err := eng.CreateSchedule(ctx, treasury, "bob", clk.Now(), 0, day, 100); !errors.Is(err, tokenvest.ErrUnauthorized) {
		t.Fatalf("create by previous authority error = %v, want ErrUnauthorized", err)
	}

	// Refunds follow the authority, not the account that created the schedule.
	refund, err := eng.Revoke(ctx, "successor", "alice")
	if err != nil {
		t.Fatalf("revoke by successor: %v", err)
	}
	balance, err := eng.BalanceOf(ctx, "successor")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != refund {
		t.Fatalf("successor balance = %d, want %d", balance, refund)
	}
}

func TestEscrowAccounting(t *testing.T) {
	eng, clk := newTestEngine(t, 1_000_000)
	fundEscrow(t, eng, 10_000)
	ctx := context.Background()

	unallocated, err := eng.Unallocated(ctx)
	if err != nil {
		t.Fatalf("unallocated: %v", err)
	}
	if unallocated != 10_000 {
		t.Fatalf("unallocated = %d, want 10000", unallocated)
	}

	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 365*day, 1200); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := eng.CreateSchedule(ctx, treasury, "bob", clk.Now(), 0, 365*day, 8800); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	// The escrow is fully committed now.
	if _, err := eng.CreateSchedule(ctx, treasury, "carol", clk.Now(), 0, day, 1); !errors.Is(err, tokenvest.ErrInsufficientBalance) {
		t.Fatalf("overcommit error = %v, want ErrInsufficientBalance", err)
	}

	committed, err := eng.Committed(ctx)
	if err != nil {
		t.Fatalf("committed: %v", err)
	}
	if committed != 10_000 {
		t.Fatalf("committed = %d, want 10000", committed)
	}

	// Releases pay committed value out of escrow, so headroom stays zero.
	clk.Advance(180 * day)
	if _, err := eng.Release(ctx, "alice"); err != nil {
		t.Fatalf("release: %v", err)
	}
	unallocated, err = eng.Unallocated(ctx)
	if err != nil {
		t.Fatalf("unallocated after release: %v", err)
	}
	if unallocated != 0 {
		t.Fatalf("unallocated after release = %d, want 0", unallocated)
	}

	// A revocation refund leaves escrow too, again without freeing headroom.
	if _, err := eng.Revoke(ctx, treasury, "bob"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	unallocated, err = eng.Unallocated(ctx)
	if err != nil {
		t.Fatalf("unallocated after revoke: %v", err)
	}
	if unallocated != 0 {
		t.Fatalf("unallocated after revoke = %d, want 0", unallocated)
	}
}

// reentrantLedger calls back into the engine in the middle of a transfer,
// the way a malicious token hook would.
type reentrantLedger struct {
	ledger.Ledger

	mu   sync.Mutex
	eng  *tokenvest.Engine
	hits []error
}

func (l *reentrantLedger) Transfer(ctx context.Context, from, to types.Address, amount types.Amount) error {
	l.mu.Lock()
	eng := l.eng
	l.mu.Unlock()
	if eng != nil {
		_, err := eng.Release(ctx, to)
		l.mu.Lock()
		l.hits = append(l.hits, err)
		l.mu.Unlock()
	}
	return l.Ledger.Transfer(ctx, from, to, amount)
}

func TestReentrantReleaseFailsFast(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	mal := &reentrantLedger{Ledger: ledgermem.New()}
	eng := tokenvest.New(storemem.New(), mal, treasury, 1_000_000,
		tokenvest.WithLogger(quietLogger()),
		tokenvest.WithClock(clk.Now),
	)
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = eng.Stop() })

	mal.mu.Lock()
	mal.eng = eng
	mal.mu.Unlock()

	ctx := context.Background()
	fundEscrow(t, eng, 10_000)
	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 100*day, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(50 * day)

	paid, err := eng.Release(ctx, "alice")
	if err != nil {
		t.Fatalf("outer release: %v", err)
	}
	if paid != 500 {
		t.Fatalf("paid = %d, want 500", paid)
	}

	mal.mu.Lock()
	defer mal.mu.Unlock()
	if len(mal.hits) != 1 {
		t.Fatalf("reentrant attempts = %d, want 1", len(mal.hits))
	}
	if !errors.Is(mal.hits[0], tokenvest.ErrReentrantCall) {
		t.Fatalf("reentrant error = %v, want ErrReentrantCall", mal.hits[0])
	}

	// The single outer release is all that was paid.
	balance, err := eng.BalanceOf(ctx, "alice")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Fatalf("alice balance = %d, want 500", balance)
	}
}

// failingLedger refuses a configured number of transfers before recovering.
type failingLedger struct {
	ledger.Ledger
	failures int
}

var errLedgerOffline = errors.New("ledger offline")

func (l *failingLedger) Transfer(ctx context.Context, from, to types.Address, amount types.Amount) error {
	if l.failures > 0 {
		l.failures--
		return errLedgerOffline
	}
	return l.Ledger.Transfer(ctx, from, to, amount)
}

func TestReleaseCompensatesFailedTransfer(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	flaky := &failingLedger{Ledger: ledgermem.New(), failures: 1}
	eng := tokenvest.New(storemem.New(), flaky, treasury, 1_000_000,
		tokenvest.WithLogger(quietLogger()),
		tokenvest.WithClock(clk.Now),
	)
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = eng.Stop() })

	ctx := context.Background()
	fundEscrow(t, eng, 10_000)
	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 100*day, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(50 * day)

	if _, err := eng.Release(ctx, "alice"); !errors.Is(err, errLedgerOffline) {
		t.Fatalf("release error = %v, want ledger offline", err)
	}

	// The failed payout must not stay recorded as released.
	sched, err := eng.GetSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched.Released != 0 {
		t.Fatalf("released after failed transfer = %d, want 0", sched.Released)
	}

	// The retry pays the full amount.
	paid, err := eng.Release(ctx, "alice")
	if err != nil {
		t.Fatalf("retry release: %v", err)
	}
	if paid != 500 {
		t.Fatalf("retry paid = %d, want 500", paid)
	}
}

func TestRevokeCompensatesFailedRefund(t *testing.T) {
	clk := &testClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	flaky := &failingLedger{Ledger: ledgermem.New(), failures: 1}
	eng := tokenvest.New(storemem.New(), flaky, treasury, 1_000_000,
		tokenvest.WithLogger(quietLogger()),
		tokenvest.WithClock(clk.Now),
	)
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = eng.Stop() })

	ctx := context.Background()
	fundEscrow(t, eng, 10_000)
	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 100*day, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := eng.Revoke(ctx, treasury, "alice"); !errors.Is(err, errLedgerOffline) {
		t.Fatalf("revoke error = %v, want ledger offline", err)
	}

	// The failed refund must leave the schedule alive.
	sched, err := eng.GetSchedule(ctx, "alice")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if sched.Revoked || sched.RevokedAt != nil {
		t.Fatal("schedule marked revoked after failed refund")
	}

	refund, err := eng.Revoke(ctx, treasury, "alice")
	if err != nil {
		t.Fatalf("retry revoke: %v", err)
	}
	if refund != 1000 {
		t.Fatalf("retry refund = %d, want 1000", refund)
	}
}

// recorderPlugin captures every hook it receives.
type recorderPlugin struct {
	mu     sync.Mutex
	events []string
}

func (p *recorderPlugin) Name() string { return "recorder" }

func (p *recorderPlugin) record(event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recorderPlugin) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *recorderPlugin) OnScheduleCreated(_ context.Context, _ interface{}) error {
	p.record("created")
	return nil
}

func (p *recorderPlugin) OnTokensReleased(_ context.Context, _ string, _ uint64) error {
	p.record("released")
	return nil
}

func (p *recorderPlugin) OnScheduleRevoked(_ context.Context, _ string, _ uint64) error {
	p.record("revoked")
	return nil
}

func (p *recorderPlugin) OnMinted(_ context.Context, _ string, _ uint64) error {
	p.record("minted")
	return nil
}

func (p *recorderPlugin) OnBurned(_ context.Context, _ string, _ uint64) error {
	p.record("burned")
	return nil
}

func (p *recorderPlugin) OnPaused(_ context.Context, _ string) error {
	p.record("paused")
	return nil
}

func (p *recorderPlugin) OnUnpaused(_ context.Context, _ string) error {
	p.record("unpaused")
	return nil
}

func (p *recorderPlugin) OnAuthorityTransferred(_ context.Context, _ string, _ string) error {
	p.record("authority")
	return nil
}

func TestPluginHooksFireInOperationOrder(t *testing.T) {
	rec := &recorderPlugin{}
	eng, clk := newTestEngine(t, 1_000_000, tokenvest.WithPlugin(rec))
	ctx := context.Background()

	fundEscrow(t, eng, 10_000)
	if _, err := eng.CreateSchedule(ctx, treasury, "alice", clk.Now(), 0, 100*day, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}
	clk.Advance(50 * day)
	if _, err := eng.Release(ctx, "alice"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := eng.Revoke(ctx, treasury, "alice"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := eng.Mint(ctx, treasury, "bob", 5); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := eng.Burn(ctx, "bob", 5); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if err := eng.Pause(ctx, treasury); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := eng.Unpause(ctx, treasury); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if err := eng.TransferAuthority(ctx, treasury, "successor"); err != nil {
		t.Fatalf("transfer authority: %v", err)
	}

	want := []string{"minted", "created", "released", "revoked", "minted", "burned", "paused", "unpaused", "authority"}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}
