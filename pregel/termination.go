package pregel

// stopReason records why a run left the superstep loop.
type stopReason int

const (
	// stopMaxIter: the iteration cap was reached.
	stopMaxIter stopReason = iota

	// stopNoMessages: a superstep generated no non-null messages.
	stopNoMessages

	// stopAllInactive: every vertex voted itself inactive.
	stopAllInactive
)

func (r stopReason) String() string {
	switch r {
	case stopMaxIter:
		return "max_iter"
	case stopNoMessages:
		return "no_messages"
	case stopAllInactive:
		return "all_inactive"
	default:
		return "unknown"
	}
}

/*terminationController evaluates the opt-in early-stop conditions.
The run loop transitions Iterating(t) -> Iterating(t+1) unless one of
the probes fires or the iteration cap is hit, at which point the state
relation of the current superstep is returned as-is.*/
type terminationController struct {
	earlyStopping     bool
	stopIfAllUnactive bool
}

// noMessages reports whether a zero non-null message count terminates
// the run.
func (t *terminationController) noMessages(count int64) bool {
	return t.earlyStopping && count == 0
}

/*allInactive reports whether the distinct active-flag values indicate
that no vertex wants to keep iterating. An empty value set (a graph
with no vertices) is treated as terminal.*/
func (t *terminationController) allInactive(vals []any) bool {
	if !t.stopIfAllUnactive {
		return false
	}
	if len(vals) == 0 {
		return true
	}
	if len(vals) != 1 {
		return false
	}
	active, ok := vals[0].(bool)
	return ok && !active
}
