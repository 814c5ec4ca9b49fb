package model

import "time"

// Zone groups tables on a restaurant's floor plan (e.g. "Terrace",
// "Main room").  Rows live in the `zones` table.
type Zone struct {
    ID           uint64    `json:"id"`
    RestaurantID uint64    `json:"restaurant_id"`
    Name         string    `json:"name"`
    CreatedAt    time.Time `json:"created_at"`
}

// DiningTable is a physical table bookings can be assigned to during
// service.  Rows live in the `dining_tables` table.  ZoneID is
// nullable for tables not placed in any zone.
type DiningTable struct {
    ID           uint64    `json:"id"`
    RestaurantID uint64    `json:"restaurant_id"`
    ZoneID       *uint64   `json:"zone_id,omitempty"`
    Name         string    `json:"name"`
    Seats        uint32    `json:"seats"`
    CreatedAt    time.Time `json:"created_at"`
}
