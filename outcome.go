package photomap

// Outcome tells the caller what an engine operation did. Failures have
// already been written to the error slot by the time it is returned.
type Outcome int

// Outcomes.
const (
	// OutcomeRefreshed means new data from the service is in the store.
	OutcomeRefreshed Outcome = iota
	// OutcomeSuppressed means a fetch of the same resource was already in flight.
	OutcomeSuppressed
	// OutcomeCleared means the state was emptied: signed out, or nothing returned.
	OutcomeCleared
	// OutcomeFailed means the service call failed and the error was reported.
	OutcomeFailed
	// OutcomeDisabled means the feature is turned off.
	OutcomeDisabled
	// OutcomeCommitted means a local edit was accepted by the service.
	OutcomeCommitted
	// OutcomeSkipped means the target marker is not in the store.
	OutcomeSkipped
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeCleared:
		return "cleared"
	case OutcomeFailed:
		return "failed"
	case OutcomeDisabled:
		return "disabled"
	case OutcomeCommitted:
		return "committed"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// OK reports whether the operation did not fail.
func (o Outcome) OK() bool {
	return o != OutcomeFailed
}
