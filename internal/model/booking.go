package model

import "time"

// Booking statuses.  A booking enters the system as pending (fits within
// the online capacity ceiling) or waiting (exceeds it) and is then moved
// by restaurant staff or signed email links.  refused, cancelled and
// noshow are terminal.
const (
    StatusPending   = "pending"
    StatusWaiting   = "waiting"
    StatusConfirmed = "confirmed"
    StatusRefused   = "refused"
    StatusCancelled = "cancelled"
    StatusNoShow    = "noshow"
)

// Booking represents a reservation request or commitment for a
// restaurant.  It corresponds to a row in the `bookings` table.
// Capacity accounting counts Guests+Children; the service-desk
// fields (arrival, bill, departure, table) are set by staff actions
// and evolve independently of Status.
//
// Fields:
//  ID             – primary key identifier.
//  RestaurantID   – owning restaurant, immutable after creation.
//  Date           – calendar date in ISO form (YYYY-MM-DD).
//  Time           – slot time (HH:MM).
//  Guests         – adult count, at least 1.
//  Children       – child count, counted toward capacity.
//  Status         – see the status constants above.
//  CancelToken    – unguessable token for email-link actions.
//  ClientIP       – source IP recorded at creation.
//  ClientID       – long-lived cookie value, or a synthetic
//                   owner_<userID>_<ts> marker for staff entries.
//  Version        – optimistic concurrency counter, bumped on every
//                   status update.
type Booking struct {
    ID              uint64     `json:"id"`
    RestaurantID    uint64     `json:"restaurant_id"`
    Date            string     `json:"date"`
    Time            string     `json:"time"`
    Guests          uint32     `json:"guests"`
    Children        uint32     `json:"children"`
    FirstName       string     `json:"first_name"`
    LastName        string     `json:"last_name"`
    Email           string     `json:"email"`
    Phone           string     `json:"phone"`
    SpecialRequest  *string    `json:"special_request,omitempty"`
    Newsletter      bool       `json:"newsletter"`
    Status          string     `json:"status"`
    CancelToken     string     `json:"cancel_token"`
    ClientIP        string     `json:"-"`
    ClientID        string     `json:"-"`
    TableID         *uint64    `json:"table_id,omitempty"`
    ZoneID          *uint64    `json:"zone_id,omitempty"`
    ArrivalTime     *time.Time `json:"arrival_time,omitempty"`
    DepartureTime   *time.Time `json:"departure_time,omitempty"`
    BillRequested   bool       `json:"bill_requested"`
    BillAmountCents *uint32    `json:"bill_amount_cents,omitempty"`
    Version         uint64     `json:"version"`
    CreatedAt       time.Time  `json:"created_at"`
    UpdatedAt       time.Time  `json:"updated_at"`
}

// Covers returns the booking's contribution to slot capacity.
func (b *Booking) Covers() uint32 { return b.Guests + b.Children }

// OwnerCreated reports whether the booking was entered by restaurant
// staff rather than submitted through the public form.  Staff entries
// carry a synthetic client marker instead of a browser fingerprint and
// are excluded from "new online booking" notification counts.
func (b *Booking) OwnerCreated() bool {
    return b.ClientID == "owner-created" || len(b.ClientID) > 6 && b.ClientID[:6] == "owner_"
}
