package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/ematija/restaurant-reservation/internal/model"
)

// TableRepo manages floor-plan zones and dining tables.  The layout
// editor itself is a front-end concern; this repository only keeps the
// records that bookings can be assigned to during service.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// CreateZone inserts a zone for a restaurant.
func (r *TableRepo) CreateZone(ctx context.Context, z *model.Zone) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO zones (restaurant_id, name) VALUES (?,?)`, z.RestaurantID, z.Name)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    z.ID = uint64(id)
    return nil
}

// ListZones returns the zones of a restaurant.
func (r *TableRepo) ListZones(ctx context.Context, restaurantID uint64) ([]model.Zone, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, restaurant_id, name, created_at FROM zones WHERE restaurant_id = ? ORDER BY name`,
        restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Zone, 0)
    for rows.Next() {
        var z model.Zone
        if err := rows.Scan(&z.ID, &z.RestaurantID, &z.Name, &z.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, z)
    }
    return out, rows.Err()
}

// ZoneExists reports whether the zone belongs to the given restaurant,
// used to keep table records from pointing into another floor plan.
func (r *TableRepo) ZoneExists(ctx context.Context, restaurantID, zoneID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM zones WHERE id = ? AND restaurant_id = ?`, zoneID, restaurantID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// DeleteZone removes a zone; its tables keep existing with a NULL zone
// via the foreign key's ON DELETE SET NULL.
func (r *TableRepo) DeleteZone(ctx context.Context, restaurantID, id uint64) error {
    return r.deleteScoped(ctx, `DELETE FROM zones WHERE id = ? AND restaurant_id = ?`, id, restaurantID)
}

// CreateTable inserts a dining table.
func (r *TableRepo) CreateTable(ctx context.Context, t *model.DiningTable) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO dining_tables (restaurant_id, zone_id, name, seats) VALUES (?,?,?,?)`,
        t.RestaurantID, t.ZoneID, t.Name, t.Seats)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// ListTables returns the dining tables of a restaurant.
func (r *TableRepo) ListTables(ctx context.Context, restaurantID uint64) ([]model.DiningTable, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, restaurant_id, zone_id, name, seats, created_at
         FROM dining_tables WHERE restaurant_id = ? ORDER BY name`, restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.DiningTable, 0)
    for rows.Next() {
        var (
            t      model.DiningTable
            zoneID sql.NullInt64
        )
        if err := rows.Scan(&t.ID, &t.RestaurantID, &zoneID, &t.Name, &t.Seats, &t.CreatedAt); err != nil {
            return nil, err
        }
        if zoneID.Valid {
            v := uint64(zoneID.Int64)
            t.ZoneID = &v
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// GetTable returns a dining table by ID, used to validate that a table
// assignment stays within the booking's restaurant.
func (r *TableRepo) GetTable(ctx context.Context, id uint64) (*model.DiningTable, error) {
    var (
        t      model.DiningTable
        zoneID sql.NullInt64
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT id, restaurant_id, zone_id, name, seats, created_at FROM dining_tables WHERE id = ?`,
        id).Scan(&t.ID, &t.RestaurantID, &zoneID, &t.Name, &t.Seats, &t.CreatedAt)
    if err != nil {
        return nil, err
    }
    if zoneID.Valid {
        v := uint64(zoneID.Int64)
        t.ZoneID = &v
    }
    return &t, nil
}

// DeleteTable removes a dining table of a restaurant.
func (r *TableRepo) DeleteTable(ctx context.Context, restaurantID, id uint64) error {
    return r.deleteScoped(ctx, `DELETE FROM dining_tables WHERE id = ? AND restaurant_id = ?`, id, restaurantID)
}

func (r *TableRepo) deleteScoped(ctx context.Context, q string, args ...any) error {
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
