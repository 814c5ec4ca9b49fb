// Package booking holds the pure decision rules of the reservation
// engine: capacity admission and opening-hours validation.  The rules
// operate on values already loaded by the repository layer so they can
// be exercised without a database.
package booking

import "github.com/ematija/restaurant-reservation/internal/model"

// Decide assigns the initial status of a new request given the covers
// already committed in the slot, the covers requested, and the
// applicable ceiling.  A request that would push the slot past the
// ceiling is waitlisted; anything else is accepted as pending.  Note
// that a request filling the slot exactly is still admitted.  The sum
// is taken in uint64 so an oversized request cannot wrap around the
// ceiling.
func Decide(existing, requested, ceiling uint32) string {
	if uint64(existing)+uint64(requested) > uint64(ceiling) {
		return model.StatusWaiting
	}
	return model.StatusPending
}
