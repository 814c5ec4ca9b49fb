package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/booking"
    "github.com/ematija/restaurant-reservation/internal/config"
    "github.com/ematija/restaurant-reservation/internal/mailer"
    "github.com/ematija/restaurant-reservation/internal/model"
    "github.com/ematija/restaurant-reservation/internal/queue"
    "github.com/ematija/restaurant-reservation/internal/repository"
    queuepublisher "github.com/ematija/restaurant-reservation/internal/service"
    "github.com/ematija/restaurant-reservation/internal/signing"
    "github.com/ematija/restaurant-reservation/internal/statemachine"
    "github.com/ematija/restaurant-reservation/internal/statuspage"
    "github.com/ematija/restaurant-reservation/internal/utils"
)

// clientCookie is the long-lived browser cookie that identifies repeat
// visitors across bookings without requiring an account.
const clientCookie = "client_id"

// maxPartySize bounds guests+children on a single booking.  Anything
// larger is not a reservation a restaurant can take through the form
// and would distort the capacity ledger for its slot.
const maxPartySize = 100

// BookingHandler serves the full booking lifecycle: the public
// submission form, the token-driven email-link pages, and the
// authenticated staff endpoints (owner_booking.go).
type BookingHandler struct {
    Cfg         config.Config
    Bookings    *repository.BookingRepo
    Restaurants *repository.RestaurantRepo
    ClosedDates *repository.ClosedDateRepo
    Tables      *repository.TableRepo
    Signer      *signing.Signer

    // publishFn delivers notification events to the broker.  Tests
    // swap it for a recorder.
    publishFn func(ctx context.Context, ev queue.BookingNotificationEvent) error
}

// NewBookingHandler constructs a BookingHandler and panics if any
// dependency is nil.
func NewBookingHandler(cfg config.Config, b *repository.BookingRepo, r *repository.RestaurantRepo, cd *repository.ClosedDateRepo, t *repository.TableRepo, s *signing.Signer) *BookingHandler {
    if b == nil || r == nil || cd == nil || t == nil || s == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{
        Cfg: cfg, Bookings: b, Restaurants: r, ClosedDates: cd, Tables: t, Signer: s,
        publishFn: queuepublisher.PublishBookingNotification,
    }
}

// ----- DTOs -----

type bookingReq struct {
    RestaurantID   uint64  `json:"restaurant_id"`
    Date           string  `json:"date"`
    Time           string  `json:"time"`
    Guests         uint32  `json:"guests"`
    Children       uint32  `json:"children"`
    FirstName      string  `json:"first_name"`
    LastName       string  `json:"last_name"`
    Email          string  `json:"email"`
    Phone          string  `json:"phone"`
    SpecialRequest *string `json:"special_request"`
    Newsletter     bool    `json:"newsletter"`
    // Status may only be supplied on the staff endpoint; the public
    // endpoint ignores it.
    Status string `json:"status"`
}

// event assembles the notification payload for a booking.  Links are
// pre-signed here so the consumer process never needs the secret.
// Restaurant action links are attached only to creation events for
// public submissions; staff already have the dashboard open.
func (h *BookingHandler) event(kind string, b *model.Booking, rt *model.Restaurant) queue.BookingNotificationEvent {
    ev := queue.BookingNotificationEvent{
        EventID:        uuid.NewString(),
        Kind:           kind,
        BookingID:      b.ID,
        RestaurantID:   rt.ID,
        RestaurantName: rt.Name,
        Date:           b.Date,
        Time:           b.Time,
        Guests:         b.Guests,
        Children:       b.Children,
        FirstName:      b.FirstName,
        LastName:       b.LastName,
        Email:          b.Email,
        Status:         b.Status,
        CancelURL:      signing.CancelURL(h.Cfg.BaseURL, b.CancelToken),
        OccurredAt:     time.Now().UTC().Format(time.RFC3339),
    }
    if b.SpecialRequest != nil {
        ev.SpecialRequest = *b.SpecialRequest
    }
    if kind == mailer.KindCreated && !b.OwnerCreated() {
        ev.NotifyRestaurant = true
        ev.RestaurantEmail = rt.Email
        ev.ConfirmURL = h.Signer.ActionURL(h.Cfg.BaseURL, b.CancelToken, signing.ActionConfirm)
        ev.RefuseURL = h.Signer.ActionURL(h.Cfg.BaseURL, b.CancelToken, signing.ActionRefuse)
        ev.WaitURL = h.Signer.ActionURL(h.Cfg.BaseURL, b.CancelToken, signing.ActionWaiting)
    }
    return ev
}

// publish hands a notification event to the broker on a detached
// goroutine so a slow or unreachable broker never delays the HTTP
// response.  The request path never fails because mail delivery does;
// errors are logged inside the publisher and dropped here.
func (h *BookingHandler) publish(ev queue.BookingNotificationEvent) {
    fn := h.publishFn
    if fn == nil {
        fn = queuepublisher.PublishBookingNotification
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = fn(ctx, ev)
    }()
}

// clientID returns the visitor cookie value, setting a fresh UUID
// cookie when none is present.
func (h *BookingHandler) clientID(c echo.Context) string {
    if ck, err := c.Cookie(clientCookie); err == nil && ck.Value != "" {
        return ck.Value
    }
    id := uuid.NewString()
    c.SetCookie(&http.Cookie{
        Name:     clientCookie,
        Value:    id,
        Path:     "/",
        Expires:  time.Now().AddDate(10, 0, 0),
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
    return id
}

// validateBookingReq performs the field checks shared by the public
// and staff creation endpoints.  It returns a human-readable message
// for the 400 response, or an empty string when the body is valid.
func validateBookingReq(req *bookingReq, contactRequired bool) string {
    if req.RestaurantID == 0 {
        return "restaurant_id is required"
    }
    if req.Guests < 1 {
        return "at least one guest is required"
    }
    if uint64(req.Guests)+uint64(req.Children) > maxPartySize {
        return "party size is too large for an online booking"
    }
    if _, err := booking.ParseDate(req.Date); err != nil {
        return err.Error()
    }
    if _, err := booking.ParseTime(req.Time); err != nil {
        return err.Error()
    }
    req.FirstName = strings.TrimSpace(req.FirstName)
    req.LastName = strings.TrimSpace(req.LastName)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Phone = strings.TrimSpace(req.Phone)
    if req.FirstName == "" || req.LastName == "" {
        return "first_name and last_name are required"
    }
    if contactRequired && (req.Email == "" || req.Phone == "") {
        return "email and phone are required"
    }
    return ""
}

// Create handles POST /api/bookings.  The submission is validated
// against the restaurant's calendar and opening windows, then admitted
// as pending or waiting depending on how many covers are already
// committed for the slot.
func (h *BookingHandler) Create(c echo.Context) error {
    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    if msg := validateBookingReq(&req, true); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
    }

    ctx := c.Request().Context()
    rt, err := h.Restaurants.GetByID(ctx, req.RestaurantID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    if rt.Status != model.RestaurantApproved {
        // Unapproved listings are invisible to the public API.
        return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
    }

    closed, err := h.ClosedDates.IsClosed(ctx, rt.ID, req.Date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    if closed {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "the restaurant is closed on this date"})
    }
    open, err := booking.WithinOpeningHours(rt.OpeningHours, req.Date, req.Time)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
    }
    if !open {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "the requested time is outside opening hours"})
    }

    existing, err := h.Bookings.CommittedGuests(ctx, rt.ID, req.Date, req.Time)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    status := booking.Decide(existing, req.Guests+req.Children, rt.OnlineCeiling())

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
        ClientID:       h.clientID(c),
    }
    if err := h.Bookings.Create(ctx, b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create booking"})
    }

    h.publish(h.event(mailer.KindCreated, b, rt))
    return c.JSON(http.StatusCreated, b)
}

// CancelPage handles GET /api/bookings/cancel/:cancelToken.  The link
// lives in client emails, so the response is an HTML page, and the
// endpoint is idempotent: revisiting an already cancelled booking
// still renders a success page.  No email is sent for self-service
// cancellations.
func (h *BookingHandler) CancelPage(c echo.Context) error {
    home := h.Cfg.BaseURL
    ctx := c.Request().Context()

    b, err := h.Bookings.GetByCancelToken(ctx, c.Param("cancelToken"))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return statuspage.Render(c, http.StatusNotFound, false, "Booking not found",
                "We could not find a booking for this link.", home)
        }
        return statuspage.Render(c, http.StatusInternalServerError, false, "Something went wrong",
            "Please try again in a moment.", home)
    }

    if b.Status == model.StatusCancelled {
        return statuspage.Render(c, http.StatusOK, true, "Already cancelled",
            "This booking has already been cancelled.", home)
    }
    if statemachine.Terminal(b.Status) {
        return statuspage.Render(c, http.StatusOK, true, "Nothing to cancel",
            "This booking is no longer active.", home)
    }

    if err := h.Bookings.UpdateStatus(ctx, b.ID, b.Version, model.StatusCancelled); err != nil {
        if errors.Is(err, repository.ErrVersionConflict) {
            return statuspage.Render(c, http.StatusConflict, false, "Please try again",
                "The booking changed while we were cancelling it. Reload the page to retry.", home)
        }
        return statuspage.Render(c, http.StatusInternalServerError, false, "Something went wrong",
            "Please try again in a moment.", home)
    }
    return statuspage.Render(c, http.StatusOK, true, "Booking cancelled",
        "Your booking for "+mailer.FormatDate(b.Date)+" at "+b.Time+" has been cancelled.", home)
}

// ActionPage handles GET /api/bookings/action/:cancelToken/:action.
// These signed links are embedded in the email the restaurant receives
// for every new online booking, letting staff confirm, refuse or
// waitlist in one click without logging in.
func (h *BookingHandler) ActionPage(c echo.Context) error {
    home := h.Cfg.BaseURL
    ctx := c.Request().Context()
    action := c.Param("action")

    if !signing.ValidAction(action) {
        return statuspage.Render(c, http.StatusBadRequest, false, "Unknown action",
            "This link is not valid.", home)
    }

    b, err := h.Bookings.GetByCancelToken(ctx, c.Param("cancelToken"))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return statuspage.Render(c, http.StatusNotFound, false, "Booking not found",
                "We could not find a booking for this link.", home)
        }
        return statuspage.Render(c, http.StatusInternalServerError, false, "Something went wrong",
            "Please try again in a moment.", home)
    }

    if !h.Signer.Verify(b.CancelToken, action, c.QueryParam("sig")) {
        return statuspage.Render(c, http.StatusForbidden, false, "Invalid link",
            "This link is invalid or has been tampered with.", home)
    }

    target := map[string]string{
        signing.ActionConfirm: model.StatusConfirmed,
        signing.ActionRefuse:  model.StatusRefused,
        signing.ActionWaiting: model.StatusWaiting,
    }[action]

    res, err := statemachine.Apply(b.Status, target)
    if err != nil {
        // Terminal or otherwise impossible from the current state.
        return statuspage.Render(c, http.StatusConflict, false, "Cannot update booking",
            "This booking is "+b.Status+" and can no longer be "+target+".", home)
    }
    if res == statemachine.AlreadyDone {
        return statuspage.Render(c, http.StatusOK, true, "Nothing to do",
            "This booking is already "+target+".", home)
    }

    if err := h.Bookings.UpdateStatus(ctx, b.ID, b.Version, target); err != nil {
        if errors.Is(err, repository.ErrVersionConflict) {
            return statuspage.Render(c, http.StatusConflict, false, "Please try again",
                "The booking changed while we were updating it. Reload the page to retry.", home)
        }
        return statuspage.Render(c, http.StatusInternalServerError, false, "Something went wrong",
            "Please try again in a moment.", home)
    }

    if b.Email != "" {
        b.Status = target
        if rt, err := h.Restaurants.GetByID(ctx, b.RestaurantID); err == nil {
            h.publish(h.event(kindForStatus(target), b, rt))
        }
    }
    return statuspage.Render(c, http.StatusOK, true, "Booking "+target,
        "The booking of "+b.FirstName+" "+b.LastName+" for "+mailer.FormatDate(b.Date)+
            " at "+b.Time+" is now "+target+".", home)
}

// kindForStatus maps a booking status to the notification kind sent
// to the client when a transition lands on it.  noshow produces no
// mail; nobody writes to a guest who failed to appear.
func kindForStatus(status string) string {
    switch status {
    case model.StatusConfirmed:
        return mailer.KindConfirmed
    case model.StatusWaiting:
        return mailer.KindWaiting
    case model.StatusRefused:
        return mailer.KindRefused
    case model.StatusCancelled:
        return mailer.KindCancelled
    }
    return ""
}
