// Package tokenvest provides a composable token vesting engine for Go applications.
//
// Tokenvest is designed as a library, not a service. Import it directly into your Go
// application and embed it wherever grants need to unlock over time. It provides:
//
//   - Per-beneficiary linear vesting with a cliff and dust-free integer math
//   - A supply-capped asset ledger with mint and burn
//   - Escrow accounting that stops the authority from over-promising value
//   - An emergency pause gate that never blocks revocation or recovery
//   - Fail-fast reentrancy protection across every value movement
//   - Pluggable hooks for audit trails, metrics, and event journals
//
// # Quick Start
//
// Create an engine with a store, an asset ledger, and an authority account:
//
//	import (
//	    "github.com/mobinsaeidi/tokenvest"
//	    ledgermem "github.com/mobinsaeidi/tokenvest/ledger/memory"
//	    storemem "github.com/mobinsaeidi/tokenvest/store/memory"
//	)
//
//	eng := tokenvest.New(storemem.New(), ledgermem.New(), "treasury", 1_000_000)
//
//	ctx := context.Background()
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// The authority funds the escrow account, then locks portions of it into
// schedules:
//
//	eng.Mint(ctx, "treasury", eng.EscrowAccount(), 10_000)
//
//	sched, err := eng.CreateSchedule(ctx, "treasury", "alice",
//	    start, 90*24*time.Hour, 365*24*time.Hour, 1200)
//
// Anyone may trigger a release; the value can only flow to the beneficiary:
//
//	paid, err := eng.Release(ctx, "alice")
//
// Vesting is linear after the cliff: at any instant the vested amount is
// floor(total * elapsed / duration), and the final release pays the exact
// remainder, so no unit is ever stranded by rounding. A beneficiary holds at
// most one schedule, ever; revoking a grant returns everything unreleased to
// the authority and permanently retires the slot.
//
// # Safety
//
// All amounts are unsigned integers in the asset's smallest unit; the vesting
// fraction is computed through big.Int so total*elapsed cannot overflow.
// Every mutating operation validates, commits its accounting, and only then
// moves value, with explicit compensation if the movement fails. A single
// engine-wide guard rejects reentrant mutation with ErrReentrantCall instead
// of deadlocking.
//
// # Integration
//
// Tokenvest integrates with the Forgery ecosystem:
//
//   - Forge: lifecycle management and dependency injection
//   - Grove: PostgreSQL, SQLite, and MongoDB schedule registries
//   - Journal: Redis-backed, time-ordered event feed for downstream consumers
//   - Audit: in-memory audit trail of every value movement
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	vest_01h2xcejqtf2nbrexx3vqjhp41  // Schedule ID
//	evt_01h2xcejqtf2nbrexx3vqjhp41   // Event ID
//	adt_01h455vb4pex5vsknk084sn02q   // Audit record ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package tokenvest
