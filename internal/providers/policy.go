package providers

// ErrorPolicy decides what an operation does when its upstream call fails.
type ErrorPolicy int

const (
	// Propagate returns the *UpstreamError to the caller.
	Propagate ErrorPolicy = iota
	// EmptyResult logs the failure and reports success with an empty result.
	EmptyResult
)

func (p ErrorPolicy) String() string {
	switch p {
	case EmptyResult:
		return "empty_result"
	default:
		return "propagate"
	}
}

// DefaultPolicies lists the operations whose failures are downgraded so that
// dependent screens keep rendering. Every other operation propagates.
func DefaultPolicies() map[Operation]ErrorPolicy {
	return map[Operation]ErrorPolicy{
		OpFlightDates: EmptyResult,
		OpActivities:  EmptyResult,
		OpSafety:      EmptyResult,
	}
}
