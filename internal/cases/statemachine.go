package cases

import "time"

// transitions is the directed table of permitted status changes.
// Same-state transitions are always permitted as no-ops and are not
// listed. COMPLETE and CANCELLED are terminal.
var transitions = map[Status][]Status{
	StatusOpen:         {StatusInProgress, StatusCancelled},
	StatusInProgress:   {StatusAwaitingInfo, StatusComplete, StatusCancelled},
	StatusAwaitingInfo: {StatusInProgress, StatusComplete, StatusCancelled},
	StatusComplete:     {},
	StatusCancelled:    {},
}

// CanTransition reports whether moving from one status to another is
// permitted. Same-state moves are always permitted.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStates returns the statuses reachable from the given status,
// excluding the same-state no-op.
func NextStates(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(status Status) bool {
	return status == StatusComplete || status == StatusCancelled
}

// Transition returns a copy of the case moved to the new status.
// Invalid transitions return ErrInvalidTransition. Entering COMPLETE
// stamps the completion timestamp. Same-state transitions succeed
// without modifying timestamps.
func Transition(c Case, to Status, now time.Time) (Case, error) {
	if c.Status == to {
		return c, nil
	}

	if !CanTransition(c.Status, to) {
		return c, invalidTransition(c.Status, to)
	}

	c.Status = to
	c.UpdatedAt = now

	if to == StatusComplete {
		completed := now
		c.CompletedAt = &completed
	}

	return c, nil
}

// ShouldAutoTransition suggests a follow-on status for LoA cases in
// IN_PROGRESS or AWAITING_INFO based on field completion. It returns
// false when no change is warranted. The suggestion is advisory;
// callers decide whether to apply it.
func ShouldAutoTransition(c *Case) (Status, bool) {
	if c.CaseType != TypeLoA {
		return "", false
	}

	if c.Status != StatusInProgress && c.Status != StatusAwaitingInfo {
		return "", false
	}

	if c.IsComplete() {
		return StatusComplete, true
	}

	if len(c.MissingFields()) > 0 && c.Status != StatusAwaitingInfo {
		return StatusAwaitingInfo, true
	}

	return "", false
}
