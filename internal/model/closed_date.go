package model

import "time"

// ClosedDate is a calendar exception on which a restaurant accepts no
// online bookings, regardless of opening hours.  It corresponds to a
// row in the `closed_dates` table.
type ClosedDate struct {
    ID           uint64    `json:"id"`
    RestaurantID uint64    `json:"restaurant_id"`
    Date         string    `json:"date"` // YYYY-MM-DD
    Reason       *string   `json:"reason,omitempty"`
    CreatedAt    time.Time `json:"created_at"`
}
