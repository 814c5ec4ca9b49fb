package repository

import (
    "context"
    "database/sql"
    "encoding/json"

    "github.com/ematija/restaurant-reservation/internal/model"
)

// RestaurantRepo provides CRUD operations for restaurant listings.
// Opening hours are persisted as a JSON document in a TEXT column and
// (un)marshalled at the repository boundary so handlers only ever see
// the model.OpeningHours type.
type RestaurantRepo struct {
    db *sql.DB
}

// NewRestaurantRepo returns a new RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

const restaurantColumns = `id, owner_id, name, description, email, phone, address,
    capacity, online_capacity, opening_hours, status, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (*model.Restaurant, error) {
    var (
        r      model.Restaurant
        online sql.NullInt64
        hours  sql.NullString
    )
    err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.Email, &r.Phone, &r.Address,
        &r.Capacity, &online, &hours, &r.Status, &r.CreatedAt, &r.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if online.Valid {
        v := uint32(online.Int64)
        r.OnlineCapacity = &v
    }
    r.OpeningHours = model.OpeningHours{}
    if hours.Valid && hours.String != "" {
        if err := json.Unmarshal([]byte(hours.String), &r.OpeningHours); err != nil {
            return nil, err
        }
    }
    return &r, nil
}

// Create inserts a new restaurant listing and populates its ID and
// timestamps.  New listings start in PENDING until approved by an
// administrator.
func (r *RestaurantRepo) Create(ctx context.Context, rt *model.Restaurant) error {
    hours, err := json.Marshal(rt.OpeningHours)
    if err != nil {
        return err
    }
    const q = `INSERT INTO restaurants
        (owner_id, name, description, email, phone, address, capacity, online_capacity, opening_hours, status)
        VALUES (?,?,?,?,?,?,?,?,?,?)`
    res, err := r.db.ExecContext(ctx, q, rt.OwnerID, rt.Name, rt.Description, rt.Email, rt.Phone,
        rt.Address, rt.Capacity, rt.OnlineCapacity, string(hours), rt.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rt.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM restaurants WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, rt.ID).Scan(&rt.CreatedAt, &rt.UpdatedAt)
}

// GetByID returns a restaurant by primary key.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
    return scanRestaurant(r.db.QueryRowContext(ctx,
        `SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id))
}

// ListApproved returns all approved listings for the public browse API.
func (r *RestaurantRepo) ListApproved(ctx context.Context) ([]model.Restaurant, error) {
    return r.list(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE status = ? ORDER BY name`,
        model.RestaurantApproved)
}

// ListByOwner returns the restaurants belonging to one restaurateur.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Restaurant, error) {
    return r.list(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE owner_id = ? ORDER BY name`,
        ownerID)
}

func (r *RestaurantRepo) list(ctx context.Context, q string, args ...any) ([]model.Restaurant, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Restaurant, 0)
    for rows.Next() {
        rt, err := scanRestaurant(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *rt)
    }
    return out, rows.Err()
}

// Update rewrites the mutable listing fields.  The caller is expected
// to have clamped OnlineCapacity to Capacity before calling.
func (r *RestaurantRepo) Update(ctx context.Context, rt *model.Restaurant) error {
    hours, err := json.Marshal(rt.OpeningHours)
    if err != nil {
        return err
    }
    const q = `UPDATE restaurants SET name=?, description=?, email=?, phone=?, address=?,
               capacity=?, online_capacity=?, opening_hours=? WHERE id=?`
    res, err := r.db.ExecContext(ctx, q, rt.Name, rt.Description, rt.Email, rt.Phone, rt.Address,
        rt.Capacity, rt.OnlineCapacity, string(hours), rt.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    // RowsAffected is 0 both for a missing row and for a no-change
    // update, so verify existence explicitly.
    if n == 0 {
        var exists bool
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM restaurants WHERE id=?`, rt.ID).Scan(&exists); err != nil {
            return err
        }
    }
    return nil
}

// UpdateStatus sets the moderation status of a listing.
func (r *RestaurantRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE restaurants SET status=? WHERE id=?`, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists bool
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM restaurants WHERE id=?`, id).Scan(&exists); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a listing.  Bookings, closed dates, zones and tables
// are removed by ON DELETE CASCADE foreign keys.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id=?`, id)
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

// OwnerOf returns the owner user ID of a restaurant, used for
// ownership checks on staff endpoints.
func (r *RestaurantRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
    var ownerID uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT owner_id FROM restaurants WHERE id=?`, id).Scan(&ownerID)
    return ownerID, err
}

// EnsureOwner verifies that the restaurant exists and belongs to the
// given user.  A missing restaurant surfaces as sql.ErrNoRows and
// somebody else's as ErrForbidden.
func (r *RestaurantRepo) EnsureOwner(ctx context.Context, restaurantID, userID uint64) error {
    owner, err := r.OwnerOf(ctx, restaurantID)
    if err != nil {
        return err
    }
    if owner != userID {
        return ErrForbidden
    }
    return nil
}
