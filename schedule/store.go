package schedule

// ListOpts filters and pages schedule listings. A nil Revoked returns both
// live and revoked schedules.
type ListOpts struct {
	Revoked *bool
	Limit   int
	Offset  int
}
