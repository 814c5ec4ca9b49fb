package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ematija/restaurant-reservation/internal/mailer"
)

// recordingSender captures outbound messages instead of talking SMTP.
type recordingSender struct {
	sent []mailer.Message
	fail error
}

func (r *recordingSender) Send(_ context.Context, m mailer.Message) error {
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, m)
	return nil
}

func sampleEvent() BookingNotificationEvent {
	return BookingNotificationEvent{
		EventID:          "ev-1",
		Kind:             mailer.KindCreated,
		BookingID:        7,
		RestaurantID:     3,
		RestaurantName:   "Chez Testing",
		RestaurantEmail:  "owner@example.com",
		NotifyRestaurant: true,
		Date:             "2025-06-02",
		Time:             "19:30",
		Guests:           2,
		Children:         0,
		FirstName:        "Ana",
		LastName:         "Horvat",
		Email:            "ana@example.com",
		Status:           "pending",
		ConfirmURL:       "https://b.example/api/bookings/action/tok/confirm?sig=aa",
		RefuseURL:        "https://b.example/api/bookings/action/tok/refuse?sig=bb",
		WaitURL:          "https://b.example/api/bookings/action/tok/waiting?sig=cc",
		CancelURL:        "https://b.example/api/bookings/cancel/tok",
	}
}

func marshal(t *testing.T, ev BookingNotificationEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

func TestHandleNotificationCreatedSendsBothMails(t *testing.T) {
	sender := &recordingSender{}
	if err := HandleNotification(sender, marshal(t, sampleEvent())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2 (client + restaurant)", len(sender.sent))
	}
	client, restaurant := sender.sent[0], sender.sent[1]
	if client.To != "ana@example.com" {
		t.Errorf("client mail To = %q", client.To)
	}
	if restaurant.To != "owner@example.com" {
		t.Errorf("restaurant mail To = %q", restaurant.To)
	}
	if !strings.Contains(restaurant.HTML, "action/tok/confirm") {
		t.Error("restaurant mail is missing the confirm link")
	}
}

func TestHandleNotificationStaffEntrySkipsRestaurantCopy(t *testing.T) {
	ev := sampleEvent()
	ev.NotifyRestaurant = false

	sender := &recordingSender{}
	if err := HandleNotification(sender, marshal(t, ev)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want only the client mail", len(sender.sent))
	}
	if sender.sent[0].To != "ana@example.com" {
		t.Errorf("To = %q", sender.sent[0].To)
	}
}

func TestHandleNotificationNoClientAddress(t *testing.T) {
	ev := sampleEvent()
	ev.Email = ""

	sender := &recordingSender{}
	if err := HandleNotification(sender, marshal(t, ev)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want only the restaurant mail", len(sender.sent))
	}
	if sender.sent[0].To != "owner@example.com" {
		t.Errorf("To = %q", sender.sent[0].To)
	}
}

func TestHandleNotificationTransitionKindsSkipRestaurant(t *testing.T) {
	for _, kind := range []string{mailer.KindConfirmed, mailer.KindWaiting, mailer.KindRefused, mailer.KindCancelled, mailer.KindReminder} {
		t.Run(kind, func(t *testing.T) {
			ev := sampleEvent()
			ev.Kind = kind
			ev.Status = kind

			sender := &recordingSender{}
			if err := HandleNotification(sender, marshal(t, ev)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(sender.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sender.sent))
			}
		})
	}
}

func TestHandleNotificationBadPayload(t *testing.T) {
	sender := &recordingSender{}
	if err := HandleNotification(sender, []byte("not json")); err == nil {
		t.Error("malformed payload must error so the message is rejected")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages for a malformed payload", len(sender.sent))
	}
}

func TestHandleNotificationUnknownKind(t *testing.T) {
	ev := sampleEvent()
	ev.Kind = "promo"
	sender := &recordingSender{}
	if err := HandleNotification(sender, marshal(t, ev)); err == nil {
		t.Error("unknown kind must error")
	}
}

func TestHandleNotificationSenderFailure(t *testing.T) {
	sender := &recordingSender{fail: errors.New("smtp down")}
	if err := HandleNotification(sender, marshal(t, sampleEvent())); err == nil {
		t.Error("sender failure must propagate so the message is nacked")
	}
}
