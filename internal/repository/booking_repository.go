package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/ematija/restaurant-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings plus the capacity
// ledger query used for admission decisions.  Dates and times are
// stored in DATE/TIME columns and always read back as the formatted
// strings the API exchanges (YYYY-MM-DD, HH:MM).  All timestamp
// fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, restaurant_id, DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i'),
    guests, children, first_name, last_name, email, phone, special_request, newsletter,
    status, cancel_token, client_ip, client_id, table_id, zone_id,
    arrival_time, departure_time, bill_requested, bill_amount_cents, version, created_at, updated_at`

// scanBooking reads one bookings row into a model.Booking.  It accepts
// either *sql.Row or *sql.Rows through the small scanner interface.
func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
    var (
        b        model.Booking
        special  sql.NullString
        tableID  sql.NullInt64
        zoneID   sql.NullInt64
        arrival  sql.NullTime
        depart   sql.NullTime
        billCents sql.NullInt64
    )
    err := row.Scan(
        &b.ID, &b.RestaurantID, &b.Date, &b.Time,
        &b.Guests, &b.Children, &b.FirstName, &b.LastName, &b.Email, &b.Phone, &special, &b.Newsletter,
        &b.Status, &b.CancelToken, &b.ClientIP, &b.ClientID, &tableID, &zoneID,
        &arrival, &depart, &b.BillRequested, &billCents, &b.Version, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if special.Valid {
        s := special.String
        b.SpecialRequest = &s
    }
    if tableID.Valid {
        v := uint64(tableID.Int64)
        b.TableID = &v
    }
    if zoneID.Valid {
        v := uint64(zoneID.Int64)
        b.ZoneID = &v
    }
    if arrival.Valid {
        t := arrival.Time.UTC()
        b.ArrivalTime = &t
    }
    if depart.Valid {
        t := depart.Time.UTC()
        b.DepartureTime = &t
    }
    if billCents.Valid {
        v := uint32(billCents.Int64)
        b.BillAmountCents = &v
    }
    return &b, nil
}

// Create inserts a new booking and populates the generated ID and
// timestamps on the provided struct.  Status, cancel token and client
// provenance must already be set by the caller.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings
        (restaurant_id, date, time, guests, children, first_name, last_name, email, phone,
         special_request, newsletter, status, cancel_token, client_ip, client_id)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := r.db.ExecContext(ctx, q,
        b.RestaurantID, b.Date, b.Time, b.Guests, b.Children,
        b.FirstName, b.LastName, b.Email, b.Phone,
        b.SpecialRequest, b.Newsletter, b.Status, b.CancelToken, b.ClientIP, b.ClientID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back defaults (version, created_at, updated_at)
    const sel = `SELECT version, created_at, updated_at FROM bookings WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.Version, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a booking by primary key.  sql.ErrNoRows is passed
// through when the booking does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return scanBooking(r.db.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

// GetByCancelToken returns the booking carrying the given cancel
// token.  Tokens are unique, so at most one row matches.
func (r *BookingRepo) GetByCancelToken(ctx context.Context, token string) (*model.Booking, error) {
    return scanBooking(r.db.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE cancel_token = ? LIMIT 1`, token))
}

// ListByRestaurant returns all bookings of a restaurant ordered by
// slot.  When date is non-empty only that calendar day is returned.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, date string) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE restaurant_id = ?`
    args := []any{restaurantID}
    if date != "" {
        q += ` AND date = ?`
        args = append(args, date)
    }
    q += ` ORDER BY date, time, id`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    return out, rows.Err()
}

// CommittedGuests sums guests+children over the bookings already
// holding capacity in the exact slot.  Only pending and confirmed
// bookings count: a waiting-list entry represents demand that has not
// been granted a seat and must not block further acceptance, and the
// terminal states free their covers.
func (r *BookingRepo) CommittedGuests(ctx context.Context, restaurantID uint64, date, slot string) (uint32, error) {
    const q = `SELECT COALESCE(SUM(guests + children), 0)
               FROM bookings
               WHERE restaurant_id = ? AND date = ? AND time = ?
                 AND status IN (?, ?)`
    var total uint32
    err := r.db.QueryRowContext(ctx, q, restaurantID, date, slot,
        model.StatusPending, model.StatusConfirmed).Scan(&total)
    return total, err
}

// UpdateStatus persists a status transition guarded by an optimistic
// version check.  When the row was modified since it was read (or no
// longer exists) no row matches and ErrVersionConflict is returned, so
// two simultaneous staff actions cannot silently overwrite each other.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, version uint64, status string) error {
    const q = `UPDATE bookings SET status = ?, version = version + 1
               WHERE id = ? AND version = ?`
    res, err := r.db.ExecContext(ctx, q, status, id, version)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrVersionConflict
    }
    return nil
}

// SetArrival records the guest's arrival time.
func (r *BookingRepo) SetArrival(ctx context.Context, id uint64, at time.Time) error {
    return r.execOnBooking(ctx, `UPDATE bookings SET arrival_time = ? WHERE id = ?`, at.UTC(), id)
}

// SetBillRequested flags that the table asked for the bill.
func (r *BookingRepo) SetBillRequested(ctx context.Context, id uint64) error {
    return r.execOnBooking(ctx, `UPDATE bookings SET bill_requested = 1 WHERE id = ?`, id)
}

// SetDeparture records the departure time and, when provided, the
// final bill amount.  Once set the booking is terminal for floor-plan
// purposes.
func (r *BookingRepo) SetDeparture(ctx context.Context, id uint64, at time.Time, billCents *uint32) error {
    return r.execOnBooking(ctx,
        `UPDATE bookings SET departure_time = ?, bill_amount_cents = COALESCE(?, bill_amount_cents) WHERE id = ?`,
        at.UTC(), billCents, id)
}

// AssignTable places the booking on a floor-plan table and zone.  A
// booking whose departure has been recorded can no longer be
// reassigned; that case returns ErrConflict.
func (r *BookingRepo) AssignTable(ctx context.Context, id uint64, tableID, zoneID *uint64) error {
    const q = `UPDATE bookings SET table_id = ?, zone_id = ?
               WHERE id = ? AND departure_time IS NULL`
    res, err := r.db.ExecContext(ctx, q, tableID, zoneID, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish a departed booking from a missing one.
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT 1 FROM bookings WHERE id = ?`, id).Scan(&exists); err != nil {
            return err // sql.ErrNoRows when the booking does not exist
        }
        return ErrConflict
    }
    return nil
}

// execOnBooking runs an UPDATE targeting a single booking and maps
// "no row touched" to sql.ErrNoRows.
func (r *BookingRepo) execOnBooking(ctx context.Context, q string, args ...any) error {
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

// ReminderBooking is one row of the daily reminder batch: the booking
// joined with its restaurant's display name.
type ReminderBooking struct {
    BookingID      uint64
    RestaurantName string
    Date           string
    Time           string
    Guests         uint32
    Children       uint32
    FirstName      string
    LastName       string
    Email          string
    CancelToken    string
}

// ListForReminder returns all bookings on the given date that should
// receive a reminder email: everything except cancelled and no-show
// entries.  Bookings without a client email are skipped.
func (r *BookingRepo) ListForReminder(ctx context.Context, date string) ([]ReminderBooking, error) {
    const q = `SELECT b.id, rt.name, DATE_FORMAT(b.date, '%Y-%m-%d'), TIME_FORMAT(b.time, '%H:%i'),
                      b.guests, b.children, b.first_name, b.last_name, b.email, b.cancel_token
               FROM bookings b
               JOIN restaurants rt ON rt.id = b.restaurant_id
               WHERE b.date = ? AND b.status NOT IN (?, ?) AND b.email <> ''
               ORDER BY b.time, b.id`
    rows, err := r.db.QueryContext(ctx, q, date,
        model.StatusCancelled, model.StatusNoShow)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ReminderBooking, 0)
    for rows.Next() {
        var rb ReminderBooking
        if err := rows.Scan(&rb.BookingID, &rb.RestaurantName, &rb.Date, &rb.Time,
            &rb.Guests, &rb.Children, &rb.FirstName, &rb.LastName, &rb.Email, &rb.CancelToken); err != nil {
            return nil, err
        }
        out = append(out, rb)
    }
    return out, rows.Err()
}
