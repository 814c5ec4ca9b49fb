package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ematija/restaurant-reservation/internal/config"
	"github.com/ematija/restaurant-reservation/internal/mailer"
	"github.com/ematija/restaurant-reservation/internal/model"
	"github.com/ematija/restaurant-reservation/internal/queue"
	"github.com/ematija/restaurant-reservation/internal/repository"
	"github.com/ematija/restaurant-reservation/internal/signing"
)

func newBookingTestHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock, chan queue.BookingNotificationEvent) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewBookingHandler(
		config.Config{BaseURL: "https://book.example.com", JWTSecret: "test-secret"},
		repository.NewBookingRepo(db),
		repository.NewRestaurantRepo(db),
		repository.NewClosedDateRepo(db),
		repository.NewTableRepo(db),
		signing.NewSigner("link-secret"),
	)
	events := make(chan queue.BookingNotificationEvent, 4)
	h.publishFn = func(ctx context.Context, ev queue.BookingNotificationEvent) error {
		events <- ev
		return nil
	}
	return h, mock, events
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:           42,
		RestaurantID: 3,
		Date:         "2025-06-02",
		Time:         "19:00",
		Guests:       4,
		Children:     1,
		FirstName:    "Nina",
		LastName:     "Horvat",
		Email:        "nina@example.com",
		Phone:        "+38512345678",
		Status:       model.StatusPending,
		CancelToken:  "tok42cancel",
		ClientIP:     "203.0.113.9",
		ClientID:     "2f6c9a3e-5f7d-4b18-9a43-d41c0a6f2a11",
		Version:      1,
	}
}

func bookingRows(b *model.Booking) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "restaurant_id", "date", "time", "guests", "children",
		"first_name", "last_name", "email", "phone", "special_request", "newsletter",
		"status", "cancel_token", "client_ip", "client_id", "table_id", "zone_id",
		"arrival_time", "departure_time", "bill_requested", "bill_amount_cents",
		"version", "created_at", "updated_at",
	}).AddRow(
		b.ID, b.RestaurantID, b.Date, b.Time, b.Guests, b.Children,
		b.FirstName, b.LastName, b.Email, b.Phone, nil, b.Newsletter,
		b.Status, b.CancelToken, b.ClientIP, b.ClientID, nil, nil,
		nil, nil, false, nil,
		b.Version, now, now,
	)
}

func restaurantRows(id, ownerID uint64, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "description", "email", "phone", "address",
		"capacity", "online_capacity", "opening_hours", "status", "created_at", "updated_at",
	}).AddRow(
		id, ownerID, name, "", "office@example.com", "", "",
		40, nil, nil, model.RestaurantApproved, now, now,
	)
}

func doActionRequest(t *testing.T, h *BookingHandler, token, action, sig string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/api/bookings/action/"+token+"/"+action+"?sig="+sig, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("cancelToken", "action")
	c.SetParamValues(token, action)
	if err := h.ActionPage(c); err != nil {
		t.Fatalf("ActionPage: %v", err)
	}
	return rec
}

func doCancelRequest(t *testing.T, h *BookingHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/cancel/"+token, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("cancelToken")
	c.SetParamValues(token)
	if err := h.CancelPage(c); err != nil {
		t.Fatalf("CancelPage: %v", err)
	}
	return rec
}

func assertNoEvent(t *testing.T, events chan queue.BookingNotificationEvent) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected notification event published: %+v", ev)
	default:
	}
}

func TestActionPageTamperedSignature(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	b := sampleBooking()
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))

	// Signature computed for refuse, presented on confirm.
	sig := h.Signer.Sign(b.CancelToken, signing.ActionRefuse)
	rec := doActionRequest(t, h, b.CancelToken, signing.ActionConfirm, sig)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if !strings.Contains(rec.Body.String(), "Invalid link") {
		t.Errorf("body does not render the invalid-link page: %q", rec.Body.String())
	}
	assertNoEvent(t, events)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestActionPageUnknownToken(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs("no-such-token").
		WillReturnError(sql.ErrNoRows)

	sig := h.Signer.Sign("no-such-token", signing.ActionConfirm)
	rec := doActionRequest(t, h, "no-such-token", signing.ActionConfirm, sig)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "Booking not found") {
		t.Errorf("body does not render the not-found page: %q", rec.Body.String())
	}
	assertNoEvent(t, events)
}

func TestActionPageUnknownAction(t *testing.T) {
	h, _, events := newBookingTestHandler(t)

	rec := doActionRequest(t, h, "tok42cancel", "delete", "whatever")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Unknown action") {
		t.Errorf("body does not render the unknown-action page: %q", rec.Body.String())
	}
	assertNoEvent(t, events)
}

func TestActionPageRepeatedActionIsIdempotent(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	b := sampleBooking()
	b.Status = model.StatusConfirmed
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))

	sig := h.Signer.Sign(b.CancelToken, signing.ActionConfirm)
	rec := doActionRequest(t, h, b.CancelToken, signing.ActionConfirm, sig)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "already confirmed") {
		t.Errorf("body does not say the booking is already confirmed: %q", rec.Body.String())
	}
	// No status write and no second confirmation email.
	assertNoEvent(t, events)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestActionPageConfirm(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	b := sampleBooking()
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusConfirmed, b.ID, b.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(b.RestaurantID).
		WillReturnRows(restaurantRows(b.RestaurantID, 7, "Konoba Mika"))

	sig := h.Signer.Sign(b.CancelToken, signing.ActionConfirm)
	rec := doActionRequest(t, h, b.CancelToken, signing.ActionConfirm, sig)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Booking confirmed") {
		t.Errorf("body does not render the confirmation page: %q", rec.Body.String())
	}
	select {
	case ev := <-events:
		if ev.Kind != mailer.KindConfirmed {
			t.Errorf("event kind = %q, want %q", ev.Kind, mailer.KindConfirmed)
		}
		if ev.Email != b.Email {
			t.Errorf("event email = %q, want %q", ev.Email, b.Email)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no notification event published")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestActionPageRespondsWhileBrokerIsSlow(t *testing.T) {
	h, mock, _ := newBookingTestHandler(t)
	b := sampleBooking()
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusConfirmed, b.ID, b.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM restaurants WHERE id").
		WithArgs(b.RestaurantID).
		WillReturnRows(restaurantRows(b.RestaurantID, 7, "Konoba Mika"))

	started := make(chan struct{})
	release := make(chan struct{})
	h.publishFn = func(ctx context.Context, ev queue.BookingNotificationEvent) error {
		close(started)
		<-release
		return nil
	}
	defer close(release)

	sig := h.Signer.Sign(b.CancelToken, signing.ActionConfirm)
	rec := doActionRequest(t, h, b.CancelToken, signing.ActionConfirm, sig)

	// The page must be served even though the publish has not returned.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was never attempted")
	}
}

func TestCancelPage(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	b := sampleBooking()
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(model.StatusCancelled, b.ID, b.Version).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doCancelRequest(t, h, b.CancelToken)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Booking cancelled") {
		t.Errorf("body does not render the cancelled page: %q", rec.Body.String())
	}
	// Self-service cancellations send no email.
	assertNoEvent(t, events)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelPageAlreadyCancelled(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	b := sampleBooking()
	b.Status = model.StatusCancelled
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs(b.CancelToken).
		WillReturnRows(bookingRows(b))

	rec := doCancelRequest(t, h, b.CancelToken)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Already cancelled") {
		t.Errorf("body does not render the already-cancelled page: %q", rec.Body.String())
	}
	assertNoEvent(t, events)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelPageUnknownToken(t *testing.T) {
	h, mock, events := newBookingTestHandler(t)
	mock.ExpectQuery("FROM bookings WHERE cancel_token").
		WithArgs("no-such-token").
		WillReturnError(sql.ErrNoRows)

	rec := doCancelRequest(t, h, "no-such-token")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	assertNoEvent(t, events)
}

func TestValidateBookingReq(t *testing.T) {
	base := bookingReq{
		RestaurantID: 3,
		Date:         "2025-06-02",
		Time:         "19:00",
		Guests:       4,
		Children:     1,
		FirstName:    "Nina",
		LastName:     "Horvat",
		Email:        "nina@example.com",
		Phone:        "+38512345678",
	}
	tests := []struct {
		name    string
		mutate  func(r *bookingReq)
		wantMsg bool
	}{
		{name: "valid", mutate: func(r *bookingReq) {}, wantMsg: false},
		{name: "zeroGuests", mutate: func(r *bookingReq) { r.Guests = 0 }, wantMsg: true},
		{name: "oversizedParty", mutate: func(r *bookingReq) { r.Guests = 101 }, wantMsg: true},
		{name: "partySumOverflowsUint32", mutate: func(r *bookingReq) {
			r.Guests = 4294967290
			r.Children = 10
		}, wantMsg: true},
		{name: "missingName", mutate: func(r *bookingReq) { r.FirstName = " " }, wantMsg: true},
		{name: "missingContact", mutate: func(r *bookingReq) { r.Email = "" }, wantMsg: true},
		{name: "badDate", mutate: func(r *bookingReq) { r.Date = "02.06.2025" }, wantMsg: true},
		{name: "badTime", mutate: func(r *bookingReq) { r.Time = "25:00" }, wantMsg: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			msg := validateBookingReq(&req, true)
			if tt.wantMsg && msg == "" {
				t.Error("expected a validation message, got none")
			}
			if !tt.wantMsg && msg != "" {
				t.Errorf("unexpected validation message %q", msg)
			}
		})
	}
}
