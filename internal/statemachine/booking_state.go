package statemachine

import (
	"errors"
	"strings"

	"github.com/ematija/restaurant-reservation/internal/model"
)

// Result reports what Apply decided for a requested transition.
type Result int

const (
	// Applied means the transition is valid and should be persisted,
	// with its side effects (client email) fired.
	Applied Result = iota
	// AlreadyDone means the booking is already in the requested state.
	// Callers report success without re-firing side effects, since the
	// dominant cause is a double-clicked email link.
	AlreadyDone
)

// ErrUnknownStatus is returned when a status value is not one of the
// defined booking statuses.
var ErrUnknownStatus = errors.New("unknown booking status")

// TransitionError describes a rejected transition, including the
// states a booking may legally move to from its current state.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	nexts := NextStates(e.From)
	if len(nexts) == 0 {
		return "cannot change status: " + e.From + " is a terminal state"
	}
	return "cannot move booking from " + e.From + " to " + e.To +
		"; valid next states are: " + strings.Join(nexts, ", ")
}

// transitions is the authoritative definition of staff- and
// email-link-driven status changes.  pending and waiting are the only
// initial states and are never re-entered, so no state maps back to
// pending.  refused, cancelled and noshow have no outgoing edges.
var transitions = map[string]map[string]bool{
	model.StatusPending: {
		model.StatusConfirmed: true,
		model.StatusWaiting:   true,
		model.StatusRefused:   true,
		model.StatusCancelled: true,
	},
	model.StatusWaiting: {
		model.StatusConfirmed: true,
		model.StatusRefused:   true,
		model.StatusCancelled: true,
	},
	model.StatusConfirmed: {
		model.StatusWaiting:   true,
		model.StatusCancelled: true,
		model.StatusNoShow:    true,
	},
	model.StatusRefused:   {},
	model.StatusCancelled: {},
	model.StatusNoShow:    {},
}

// Valid reports whether s is a defined booking status.
func Valid(s string) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether a booking in state s can never be moved
// again through the state machine.
func Terminal(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// NextStates returns the states reachable from the given state, in a
// stable order.  It returns nil for unknown or terminal states.
func NextStates(from string) []string {
	next, ok := transitions[from]
	if !ok || len(next) == 0 {
		return nil
	}
	order := []string{
		model.StatusConfirmed, model.StatusWaiting,
		model.StatusRefused, model.StatusCancelled, model.StatusNoShow,
	}
	out := make([]string, 0, len(next))
	for _, s := range order {
		if next[s] {
			out = append(out, s)
		}
	}
	return out
}

// Apply validates a requested status change.  It returns AlreadyDone
// when the booking is already in the target state, Applied when the
// transition is allowed, and a *TransitionError otherwise.  Unknown
// statuses are rejected with ErrUnknownStatus.
func Apply(current, target string) (Result, error) {
	if !Valid(current) || !Valid(target) {
		return 0, ErrUnknownStatus
	}
	if current == target {
		return AlreadyDone, nil
	}
	if !transitions[current][target] {
		return 0, &TransitionError{From: current, To: target}
	}
	return Applied, nil
}
