package catalog

import "fmt"

// ResetPolicy selects which snapshot changes clear the loading state.
type ResetPolicy string

const (
	// ResetOnToken clears loading only when a result or error answering the
	// latest dispatched request arrives.
	ResetOnToken ResetPolicy = "token"
	// ResetOnAnyChange clears loading on every snapshot change, answered or not.
	ResetOnAnyChange ResetPolicy = "any"
)

// ParseResetPolicy validates a configured policy name. Empty selects ResetOnToken.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch ResetPolicy(s) {
	case "", ResetOnToken:
		return ResetOnToken, nil
	case ResetOnAnyChange:
		return ResetOnAnyChange, nil
	}
	return "", fmt.Errorf("unknown loading reset policy %q (want %q or %q)", s, ResetOnToken, ResetOnAnyChange)
}

// Loading is the view-owned "search in flight" flag. Each dispatch takes a
// new token from a monotonically increasing counter; nothing is cancelled or
// de-duplicated.
type Loading struct {
	policy  ResetPolicy
	active  bool
	counter uint64
}

// NewLoading creates an idle loading state.
func NewLoading(policy ResetPolicy) Loading {
	if policy == "" {
		policy = ResetOnToken
	}
	return Loading{policy: policy}
}

// Active reports whether a dispatched search is unresolved.
func (l Loading) Active() bool {
	return l.active
}

// Latest returns the token of the most recent dispatch, 0 if none.
func (l Loading) Latest() uint64 {
	return l.counter
}

// Policy returns the reset policy.
func (l Loading) Policy() ResetPolicy {
	return l.policy
}

// Dispatch marks a search as started and returns its token.
func (l Loading) Dispatch() (Loading, uint64) {
	l.counter++
	l.active = true
	return l, l.counter
}

// Observe applies a snapshot change. answered is the token of the request a
// newly delivered result or error answers, 0 when the change carries none.
func (l Loading) Observe(answered uint64) Loading {
	switch l.policy {
	case ResetOnAnyChange:
		l.active = false
	default:
		if answered != 0 && answered == l.counter {
			l.active = false
		}
	}
	return l
}
