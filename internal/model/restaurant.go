package model

import (
    "strings"
    "time"
)

// Restaurant listing statuses used by admin moderation.
const (
    RestaurantPending   = "PENDING"
    RestaurantApproved  = "APPROVED"
    RestaurantSuspended = "SUSPENDED"
)

// DefaultCapacity is the number of covers a restaurant can seat when
// nothing else is configured.
const DefaultCapacity uint32 = 40

// Restaurant represents a tenant listing owned by a user.  It
// corresponds to a row in the `restaurants` table.  Capacity is the
// total number of seatable covers; OnlineCapacity is the ceiling used
// for automatic acceptance of online submissions and never exceeds
// Capacity.  OpeningHours is persisted as a JSON column.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user ID of the restaurateur.
//  Capacity       – total seatable covers (default 40).
//  OnlineCapacity – ceiling for automatic online acceptance
//                   (nullable; falls back to Capacity).
//  Status         – moderation state (PENDING, APPROVED, SUSPENDED).
type Restaurant struct {
    ID             uint64       `json:"id"`
    OwnerID        uint64       `json:"owner_id"`
    Name           string       `json:"name"`
    Description    string       `json:"description"`
    Email          string       `json:"email"`
    Phone          string       `json:"phone"`
    Address        string       `json:"address"`
    Capacity       uint32       `json:"capacity"`
    OnlineCapacity *uint32      `json:"online_capacity,omitempty"`
    OpeningHours   OpeningHours `json:"opening_hours"`
    Status         string       `json:"status"`
    CreatedAt      time.Time    `json:"created_at"`
    UpdatedAt      time.Time    `json:"updated_at"`
}

// OnlineCeiling returns the cover ceiling applied to public online
// submissions: OnlineCapacity when set, otherwise Capacity.
func (r *Restaurant) OnlineCeiling() uint32 {
    if r.OnlineCapacity != nil {
        return *r.OnlineCapacity
    }
    return r.Capacity
}

// ServiceWindow is a single opening window within a day, expressed as
// zero-padded HH:MM strings.  Bookings are accepted on the half-open
// interval [Open, Close).
type ServiceWindow struct {
    Open  string `json:"open"`
    Close string `json:"close"`
}

// DayHours describes the opening windows of one weekday.  A day has at
// most two windows (first and second service); Closed overrides any
// windows that happen to be present.
type DayHours struct {
    Closed  bool            `json:"closed"`
    Windows []ServiceWindow `json:"windows"`
}

// OpeningHours maps lowercase English weekday names ("monday" ...) to
// their opening windows.  A missing weekday is treated as closed.
type OpeningHours map[string]DayHours

// For returns the hours configured for the given weekday.
func (oh OpeningHours) For(wd time.Weekday) (DayHours, bool) {
    d, ok := oh[strings.ToLower(wd.String())]
    return d, ok
}
