package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/ematija/restaurant-reservation/internal/model"
)

// ClosedDateRepo manages the calendar exclusion list consulted before
// accepting a public booking.
type ClosedDateRepo struct {
    db *sql.DB
}

// NewClosedDateRepo returns a new ClosedDateRepo bound to the given database.
func NewClosedDateRepo(db *sql.DB) *ClosedDateRepo { return &ClosedDateRepo{db: db} }

// List returns the closed dates of a restaurant in calendar order.
func (r *ClosedDateRepo) List(ctx context.Context, restaurantID uint64) ([]model.ClosedDate, error) {
    const q = `SELECT id, restaurant_id, DATE_FORMAT(date, '%Y-%m-%d'), reason, created_at
               FROM closed_dates WHERE restaurant_id = ? ORDER BY date`
    rows, err := r.db.QueryContext(ctx, q, restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.ClosedDate, 0)
    for rows.Next() {
        var (
            cd     model.ClosedDate
            reason sql.NullString
        )
        if err := rows.Scan(&cd.ID, &cd.RestaurantID, &cd.Date, &reason, &cd.CreatedAt); err != nil {
            return nil, err
        }
        if reason.Valid {
            s := reason.String
            cd.Reason = &s
        }
        out = append(out, cd)
    }
    return out, rows.Err()
}

// Add inserts a closed date.  A duplicate date for the same restaurant
// violates the unique key and is reported as ErrConflict.
func (r *ClosedDateRepo) Add(ctx context.Context, cd *model.ClosedDate) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO closed_dates (restaurant_id, date, reason) VALUES (?,?,?)`,
        cd.RestaurantID, cd.Date, cd.Reason)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    cd.ID = uint64(id)
    return nil
}

// Remove deletes one closed date of a restaurant.
func (r *ClosedDateRepo) Remove(ctx context.Context, restaurantID, id uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM closed_dates WHERE id = ? AND restaurant_id = ?`, id, restaurantID)
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

// IsClosed reports whether the restaurant is closed on the given date.
func (r *ClosedDateRepo) IsClosed(ctx context.Context, restaurantID uint64, date string) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM closed_dates WHERE restaurant_id = ? AND date = ? LIMIT 1`,
        restaurantID, date).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
