package tokenvest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mobinsaeidi/tokenvest/access"
	"github.com/mobinsaeidi/tokenvest/id"
	"github.com/mobinsaeidi/tokenvest/ledger"
	"github.com/mobinsaeidi/tokenvest/plugin"
	"github.com/mobinsaeidi/tokenvest/schedule"
	"github.com/mobinsaeidi/tokenvest/store"
	"github.com/mobinsaeidi/tokenvest/types"
)

// DefaultEscrowAccount holds unvested value until it is released or
// reclaimed. Override with WithEscrowAccount.
const DefaultEscrowAccount = types.Address("escrow")

// Engine is the vesting engine. It locks allocations for beneficiaries in an
// escrow account on the underlying asset ledger and pays them out along
// per-beneficiary linear schedules.
//
// Mutating operations are single-flight: a second mutating call while one is
// in progress fails fast with ErrReentrantCall instead of blocking. Callers
// are expected to serialize mutations themselves; the guard is the engine's
// defense when they do not, and against ledger implementations or plugins
// that call back into the engine mid-operation.
type Engine struct {
	store     store.Store
	ledger    ledger.Ledger
	authority access.Authority
	gate      access.Gate
	plugins   *plugin.Registry
	logger    *slog.Logger

	// Reentrancy guard, held for the full span of every mutating operation.
	busy atomic.Bool

	// Configuration
	escrow    types.Address
	maxSupply types.Amount
	clock     func() time.Time
}

// New creates a new Engine instance. The authority account controls schedule
// creation, revocation, minting, and pausing; maxSupply fixes the issuance
// ceiling for the engine's lifetime.
func New(s store.Store, l ledger.Ledger, authority types.Address, maxSupply types.Amount, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		ledger:    l,
		authority: access.NewOwner(authority),
		gate:      access.NewSwitch(),
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		escrow:    DefaultEscrowAccount,
		maxSupply: maxSupply,
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source used for vesting math and timestamps.
// Tests inject a fixed clock to make release amounts deterministic.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithEscrowAccount sets the ledger account that holds unvested value.
func WithEscrowAccount(account types.Address) Option {
	return func(e *Engine) {
		e.escrow = account
	}
}

// WithAuthority replaces the default single-owner authority with a custom
// policy, overriding the authority account passed to New.
func WithAuthority(a access.Authority) Option {
	return func(e *Engine) {
		e.authority = a
	}
}

// WithGate replaces the default pause switch.
func WithGate(g access.Gate) Option {
	return func(e *Engine) {
		e.gate = g
	}
}

// Start prepares the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}
	if err := e.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreNotReady, err)
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("vesting engine started",
		"authority", e.authority.Holder(),
		"escrow", e.escrow,
		"max_supply", e.maxSupply,
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	var errs MultiError
	errs.Add(e.store.Close())
	if errs.HasErrors() {
		return errs.First()
	}
	return nil
}

// Health reports whether the engine can serve operations.
func (e *Engine) Health(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// ──────────────────────────────────────────────────
// Schedule lifecycle
// ──────────────────────────────────────────────────

// CreateSchedule locks total units of already-escrowed value into a new
// linear vesting schedule for beneficiary. Authority only. A beneficiary can
// hold at most one schedule, ever: slots stay occupied after revocation and
// full release, so a revoked grant cannot be reissued to reset its history.
func (e *Engine) CreateSchedule(ctx context.Context, caller, beneficiary types.Address, start time.Time, cliff, duration time.Duration, total types.Amount) (*schedule.Schedule, error) {
	if e.gate.Paused() {
		return nil, ErrSystemPaused
	}
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return nil, ErrUnauthorized
	}
	if beneficiary.IsZero() {
		return nil, ErrInvalidBeneficiary
	}
	if total.IsZero() {
		return nil, ErrInvalidAmount
	}
	if duration <= 0 || cliff < 0 || cliff > duration {
		return nil, ErrInvalidDuration
	}

	if _, err := e.store.GetSchedule(ctx, beneficiary); err == nil {
		return nil, ErrDuplicateSchedule
	} else if !IsNotFound(err) {
		return nil, err
	}

	// The new obligation must fit inside the escrow balance not yet promised
	// to other schedules.
	free, err := e.unallocated(ctx)
	if err != nil {
		return nil, err
	}
	if total > free {
		return nil, fmt.Errorf("tokenvest: schedule of %d exceeds unallocated escrow %d: %w",
			total, free, ErrInsufficientBalance)
	}

	now := e.clock()
	sched := &schedule.Schedule{
		Entity:      types.NewEntityAt(now),
		ID:          id.NewScheduleID(),
		Beneficiary: beneficiary,
		Start:       start,
		Cliff:       cliff,
		Duration:    duration,
		Total:       total,
	}
	if err := e.store.CreateSchedule(ctx, sched); err != nil {
		return nil, err
	}

	e.plugins.EmitScheduleCreated(ctx, sched)
	e.logger.Info("schedule created",
		"schedule_id", sched.ID,
		"beneficiary", beneficiary,
		"total", total,
		"start", start,
		"cliff", cliff,
		"duration", duration,
	)
	return sched, nil
}

// Release pays beneficiary everything vested and not yet released. Anyone
// may trigger it; value can only ever flow to the beneficiary. Returns the
// amount paid out by this call.
func (e *Engine) Release(ctx context.Context, beneficiary types.Address) (types.Amount, error) {
	if e.gate.Paused() {
		return 0, ErrSystemPaused
	}
	if err := e.begin(); err != nil {
		return 0, err
	}
	defer e.end()

	if beneficiary.IsZero() {
		return 0, ErrInvalidBeneficiary
	}

	sched, err := e.store.GetSchedule(ctx, beneficiary)
	if err != nil {
		return 0, err
	}
	if sched.Revoked {
		return 0, ErrScheduleRevoked
	}

	now := e.clock()
	amount := sched.ReleasableAt(now)
	if amount.IsZero() {
		return 0, ErrNothingToRelease
	}

	// Commit the accounting before moving value, so a reentrant observer can
	// never see released value that is not yet recorded.
	prevReleased := sched.Released
	sched.Released = sched.Released.Add(amount)
	sched.TouchAt(now)
	if err := e.store.UpdateSchedule(ctx, sched); err != nil {
		return 0, err
	}

	if err := e.ledger.Transfer(ctx, e.escrow, beneficiary, amount); err != nil {
		// The payout failed; restore the owed amount.
		sched.Released = prevReleased
		if uerr := e.store.UpdateSchedule(ctx, sched); uerr != nil {
			e.logger.Error("release rollback failed",
				"beneficiary", beneficiary,
				"amount", amount,
				"error", uerr,
			)
		}
		return 0, err
	}

	e.plugins.EmitTokensReleased(ctx, beneficiary.String(), amount.Uint64())
	e.logger.Info("released",
		"beneficiary", beneficiary,
		"amount", amount,
		"total_released", sched.Released,
	)
	return amount, nil
}

// Revoke terminates beneficiary's schedule and returns all unreleased value,
// vested or not, to the current authority. Authority only. Revocation is the
// recovery path, so it deliberately skips the pause gate. Returns the
// refunded amount.
func (e *Engine) Revoke(ctx context.Context, caller, beneficiary types.Address) (types.Amount, error) {
	if err := e.begin(); err != nil {
		return 0, err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return 0, ErrUnauthorized
	}
	if beneficiary.IsZero() {
		return 0, ErrInvalidBeneficiary
	}

	sched, err := e.store.GetSchedule(ctx, beneficiary)
	if err != nil {
		return 0, err
	}
	if sched.Revoked {
		return 0, ErrAlreadyRevoked
	}

	now := e.clock()
	refund := sched.Unreleased()

	at := now
	sched.Revoked = true
	sched.RevokedAt = &at
	sched.TouchAt(now)
	if err := e.store.UpdateSchedule(ctx, sched); err != nil {
		return 0, err
	}

	if !refund.IsZero() {
		if err := e.ledger.Transfer(ctx, e.escrow, e.authority.Holder(), refund); err != nil {
			// The refund failed; the revocation must not stand.
			sched.Revoked = false
			sched.RevokedAt = nil
			if uerr := e.store.UpdateSchedule(ctx, sched); uerr != nil {
				e.logger.Error("revoke rollback failed",
					"beneficiary", beneficiary,
					"refund", refund,
					"error", uerr,
				)
			}
			return 0, err
		}
	}

	e.plugins.EmitScheduleRevoked(ctx, beneficiary.String(), refund.Uint64())
	e.logger.Info("schedule revoked",
		"schedule_id", sched.ID,
		"beneficiary", beneficiary,
		"refund", refund,
	)
	return refund, nil
}

// ──────────────────────────────────────────────────
// Supply management
// ──────────────────────────────────────────────────

// Mint issues amount new units into the to account, subject to the supply
// cap. Authority only. Minting into the escrow account is how the authority
// funds future schedules.
func (e *Engine) Mint(ctx context.Context, caller, to types.Address, amount types.Amount) error {
	if e.gate.Paused() {
		return ErrSystemPaused
	}
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	if to.IsZero() {
		return ErrInvalidAccount
	}
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	issued, err := e.ledger.TotalIssued(ctx)
	if err != nil {
		return err
	}
	// Overflow-safe form of issued+amount > maxSupply.
	if issued >= e.maxSupply || amount > e.maxSupply-issued {
		return fmt.Errorf("tokenvest: mint of %d with %d issued against cap %d: %w",
			amount, issued, e.maxSupply, ErrSupplyCapExceeded)
	}

	if err := e.ledger.MintInto(ctx, to, amount); err != nil {
		return err
	}

	e.plugins.EmitMinted(ctx, to.String(), amount.Uint64())
	e.logger.Info("minted",
		"to", to,
		"amount", amount,
		"issued", issued.Add(amount),
	)
	return nil
}

// Burn destroys amount units of the caller's own balance.
func (e *Engine) Burn(ctx context.Context, caller types.Address, amount types.Amount) error {
	if e.gate.Paused() {
		return ErrSystemPaused
	}
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if caller.IsZero() {
		return ErrInvalidAccount
	}
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	if err := e.ledger.BurnFrom(ctx, caller, amount); err != nil {
		return err
	}

	e.plugins.EmitBurned(ctx, caller.String(), amount.Uint64())
	e.logger.Info("burned",
		"from", caller,
		"amount", amount,
	)
	return nil
}

// ──────────────────────────────────────────────────
// Control
// ──────────────────────────────────────────────────

// Pause halts schedule creation, release, minting, and burning. Authority
// only. Revocation and authority transfer stay available while paused.
func (e *Engine) Pause(ctx context.Context, caller types.Address) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	if !e.gate.Pause() {
		return ErrAlreadyPaused
	}

	e.plugins.EmitPaused(ctx, caller.String())
	e.logger.Info("paused", "by", caller)
	return nil
}

// Unpause resumes value movement. Authority only.
func (e *Engine) Unpause(ctx context.Context, caller types.Address) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	if !e.gate.Unpause() {
		return ErrNotPaused
	}

	e.plugins.EmitUnpaused(ctx, caller.String())
	e.logger.Info("unpaused", "by", caller)
	return nil
}

// TransferAuthority hands the authority to next. Authority only. Works while
// paused so control can be recovered under an incident.
func (e *Engine) TransferAuthority(ctx context.Context, caller, next types.Address) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	if !e.authority.IsAuthority(caller) {
		return ErrUnauthorized
	}
	if next.IsZero() {
		return ErrInvalidAccount
	}

	previous := e.authority.Holder()
	if err := e.authority.Transfer(next); err != nil {
		return err
	}

	e.plugins.EmitAuthorityTransferred(ctx, previous.String(), next.String())
	e.logger.Info("authority transferred",
		"previous", previous,
		"next", next,
	)
	return nil
}

// ──────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────

// GetSchedule returns the schedule for beneficiary, revoked or not.
func (e *Engine) GetSchedule(ctx context.Context, beneficiary types.Address) (*schedule.Schedule, error) {
	return e.store.GetSchedule(ctx, beneficiary)
}

// Schedules lists schedules.
func (e *Engine) Schedules(ctx context.Context, opts schedule.ListOpts) ([]*schedule.Schedule, error) {
	return e.store.ListSchedules(ctx, opts)
}

// Releasable previews what Release would pay beneficiary right now.
func (e *Engine) Releasable(ctx context.Context, beneficiary types.Address) (types.Amount, error) {
	sched, err := e.store.GetSchedule(ctx, beneficiary)
	if err != nil {
		return 0, err
	}
	if sched.Revoked {
		return 0, ErrScheduleRevoked
	}
	return sched.ReleasableAt(e.clock()), nil
}

// BalanceOf returns the ledger balance of an account.
func (e *Engine) BalanceOf(ctx context.Context, account types.Address) (types.Amount, error) {
	return e.ledger.BalanceOf(ctx, account)
}

// TotalIssued returns the units currently in circulation.
func (e *Engine) TotalIssued(ctx context.Context) (types.Amount, error) {
	return e.ledger.TotalIssued(ctx)
}

// Committed returns the value still owed across all live schedules.
func (e *Engine) Committed(ctx context.Context) (types.Amount, error) {
	return e.store.Committed(ctx)
}

// Unallocated returns the escrow balance not yet promised to any schedule:
// what CreateSchedule may still lock up.
func (e *Engine) Unallocated(ctx context.Context) (types.Amount, error) {
	return e.unallocated(ctx)
}

// MaxSupply returns the issuance ceiling.
func (e *Engine) MaxSupply() types.Amount { return e.maxSupply }

// Paused reports whether value movement is halted.
func (e *Engine) Paused() bool { return e.gate.Paused() }

// Authority returns the current authority account.
func (e *Engine) Authority() types.Address { return e.authority.Holder() }

// EscrowAccount returns the account holding unvested value.
func (e *Engine) EscrowAccount() types.Address { return e.escrow }

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// begin acquires the single-flight guard.
func (e *Engine) begin() error {
	if !e.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

// end releases the single-flight guard.
func (e *Engine) end() {
	e.busy.Store(false)
}

func (e *Engine) unallocated(ctx context.Context) (types.Amount, error) {
	balance, err := e.ledger.BalanceOf(ctx, e.escrow)
	if err != nil {
		return 0, err
	}
	committed, err := e.store.Committed(ctx)
	if err != nil {
		return 0, err
	}
	if committed >= balance {
		return 0, nil
	}
	return balance - committed, nil
}
