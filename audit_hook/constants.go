package audithook

// Action constants for audit events.
const (
	// Schedule actions
	ActionScheduleCreated = "schedule.created"
	ActionTokensReleased  = "tokens.released"
	ActionScheduleRevoked = "schedule.revoked"

	// Supply actions
	ActionSupplyMinted = "supply.minted"
	ActionSupplyBurned = "supply.burned"

	// Control actions
	ActionSystemPaused         = "system.paused"
	ActionSystemUnpaused       = "system.unpaused"
	ActionAuthorityTransferred = "authority.transferred"
)

// Resource constants for audit events.
const (
	ResourceSchedule  = "schedule"
	ResourceSupply    = "supply"
	ResourceSystem    = "system"
	ResourceAuthority = "authority"
)

// Category constants for audit events.
const (
	CategoryVesting = "vesting"
	CategorySupply  = "supply"
	CategoryControl = "control"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
