package constants

// FindingStatus is the canonical review status for a finding.
type FindingStatus string

// Stable values (the engine always emits PENDING; resolution happens downstream).
const (
	FindingStatusPending  FindingStatus = "PENDING"  // awaiting user review
	FindingStatusResolved FindingStatus = "RESOLVED" // user confirmed and acted
	FindingStatusIgnored  FindingStatus = "IGNORED"  // user dismissed
)
