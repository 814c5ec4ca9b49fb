package handler

import (
    "database/sql"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/booking"
    "github.com/ematija/restaurant-reservation/internal/mailer"
    "github.com/ematija/restaurant-reservation/internal/model"
    "github.com/ematija/restaurant-reservation/internal/repository"
    "github.com/ematija/restaurant-reservation/internal/statemachine"
    "github.com/ematija/restaurant-reservation/internal/utils"
)

// Staff-facing booking endpoints.  All of them require an OWNER token
// and verify that the booking's restaurant belongs to the caller.

// OwnerCreate handles POST /api/bookings/owner.  Staff record phone
// and walk-in reservations here.  Unlike the public form, contact
// details are optional, the closed-days and opening-hours checks are
// skipped (staff can overbook deliberately), and an explicit status in
// the body bypasses the capacity ledger entirely.
func (h *BookingHandler) OwnerCreate(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    if msg := validateBookingReq(&req, false); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, req.RestaurantID); !ok {
        return err
    }

    ctx := c.Request().Context()
    rt, err := h.Restaurants.GetByID(ctx, req.RestaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }

    status := req.Status
    if status != "" {
        if !statemachine.Valid(status) || statemachine.Terminal(status) {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
        }
    } else {
        // No explicit status: admit against the full room capacity,
        // not the online ceiling.
        existing, err := h.Bookings.CommittedGuests(ctx, rt.ID, req.Date, req.Time)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
        }
        status = booking.Decide(existing, req.Guests+req.Children, rt.Capacity)
    }

    token, err := utils.NewCancelToken()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "token generation failed"})
    }

    b := &model.Booking{
        RestaurantID:   rt.ID,
        Date:           req.Date,
        Time:           req.Time,
        Guests:         req.Guests,
        Children:       req.Children,
        FirstName:      req.FirstName,
        LastName:       req.LastName,
        Email:          req.Email,
        Phone:          req.Phone,
        SpecialRequest: req.SpecialRequest,
        Newsletter:     req.Newsletter,
        Status:         status,
        CancelToken:    token,
        ClientIP:       c.RealIP(),
        ClientID:       fmt.Sprintf("owner_%d_%d", userID, time.Now().Unix()),
    }
    if err := h.Bookings.Create(ctx, b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create booking"})
    }

    // The synthetic client marker suppresses the "new online booking"
    // mail to the restaurant; the guest still gets a confirmation when
    // an address was recorded.
    if b.Email != "" {
        h.publish(h.event(mailer.KindCreated, b, rt))
    }
    return c.JSON(http.StatusCreated, b)
}

// ListByRestaurant handles GET /api/bookings/restaurant/:id with an
// optional ?date=YYYY-MM-DD filter.
func (h *BookingHandler) ListByRestaurant(c echo.Context) error {
    restaurantID, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, restaurantID); !ok {
        return err
    }
    date := c.QueryParam("date")
    if date != "" {
        if _, err := booking.ParseDate(date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
        }
    }
    items, err := h.Bookings.ListByRestaurant(c.Request().Context(), restaurantID, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// loadOwnedBooking fetches the booking from the :id param and checks
// that its restaurant belongs to the caller.  On failure the response
// has been written and the booking is nil.
func (h *BookingHandler) loadOwnedBooking(c echo.Context) (*model.Booking, error) {
    id, ok := paramID(c, "id")
    if !ok {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
    }
    b, err := h.Bookings.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
        }
        return nil, c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, b.RestaurantID); !ok {
        return nil, err
    }
    return b, nil
}

// UpdateStatus handles PATCH /api/bookings/:id/status.  Transitions
// run through the state machine; re-requesting the current status is a
// 200 no-op so double submissions never re-send mail, and a concurrent
// modification surfaces as 409 so the dashboard can reload and retry.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
    b, err := h.loadOwnedBooking(c)
    if b == nil {
        return err
    }
    var req struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&req); err != nil || req.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "status is required"})
    }

    res, err := statemachine.Apply(b.Status, req.Status)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
    }
    if res == statemachine.AlreadyDone {
        return c.JSON(http.StatusOK, echo.Map{"message": "booking is already " + req.Status, "booking": b})
    }

    ctx := c.Request().Context()
    if err := h.Bookings.UpdateStatus(ctx, b.ID, b.Version, req.Status); err != nil {
        if errors.Is(err, repository.ErrVersionConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update status"})
    }

    if b.Email != "" {
        if kind := kindForStatus(req.Status); kind != "" {
            b.Status = req.Status
            if rt, err := h.Restaurants.GetByID(ctx, b.RestaurantID); err == nil {
                h.publish(h.event(kind, b, rt))
            }
        }
    }

    updated, err := h.Bookings.GetByID(ctx, b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// MarkArrival handles PATCH /api/bookings/:id/arrival.  Service-desk
// fields evolve independently of the status machine: a waiting party
// that shows up anyway still gets an arrival timestamp.
func (h *BookingHandler) MarkArrival(c echo.Context) error {
    b, err := h.loadOwnedBooking(c)
    if b == nil {
        return err
    }
    ctx := c.Request().Context()
    if err := h.Bookings.SetArrival(ctx, b.ID, time.Now().UTC()); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to record arrival"})
    }
    return h.respondWithBooking(c, b.ID)
}

// MarkBillRequested handles PATCH /api/bookings/:id/bill-requested.
func (h *BookingHandler) MarkBillRequested(c echo.Context) error {
    b, err := h.loadOwnedBooking(c)
    if b == nil {
        return err
    }
    if err := h.Bookings.SetBillRequested(c.Request().Context(), b.ID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to record bill request"})
    }
    return h.respondWithBooking(c, b.ID)
}

// MarkDeparture handles PATCH /api/bookings/:id/departure with an
// optional bill amount in cents.
func (h *BookingHandler) MarkDeparture(c echo.Context) error {
    b, err := h.loadOwnedBooking(c)
    if b == nil {
        return err
    }
    var req struct {
        BillAmountCents *uint32 `json:"bill_amount_cents"`
    }
    _ = c.Bind(&req) // empty body is fine
    if err := h.Bookings.SetDeparture(c.Request().Context(), b.ID, time.Now().UTC(), req.BillAmountCents); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to record departure"})
    }
    return h.respondWithBooking(c, b.ID)
}

// AssignTable handles PATCH /api/bookings/:id/table.  The table must
// belong to the booking's restaurant, and assignment is rejected once
// the party has departed.
func (h *BookingHandler) AssignTable(c echo.Context) error {
    b, err := h.loadOwnedBooking(c)
    if b == nil {
        return err
    }
    var req struct {
        TableID uint64 `json:"table_id"`
    }
    if err := c.Bind(&req); err != nil || req.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "table_id is required"})
    }

    ctx := c.Request().Context()
    t, err := h.Tables.GetTable(ctx, req.TableID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    if t.RestaurantID != b.RestaurantID {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "table belongs to another restaurant"})
    }

    if err := h.Bookings.AssignTable(ctx, b.ID, &t.ID, t.ZoneID); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"message": "booking has already departed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to assign table"})
    }
    return h.respondWithBooking(c, b.ID)
}

// respondWithBooking re-reads the booking and returns it, so staff
// endpoints always respond with current timestamps and version.
func (h *BookingHandler) respondWithBooking(c echo.Context, id uint64) error {
    b, err := h.Bookings.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, b)
}
