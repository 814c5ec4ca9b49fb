package mailer

import (
	"strings"
	"testing"
)

func sampleData() BookingEmailData {
	return BookingEmailData{
		RestaurantName: "Chez Testing",
		Date:           "2025-06-02",
		Time:           "19:30",
		Guests:         4,
		Children:       2,
		FirstName:      "Ana",
		LastName:       "Horvat",
		Status:         "pending",
		ConfirmURL:     "https://b.example/api/bookings/action/tok/confirm?sig=aa",
		RefuseURL:      "https://b.example/api/bookings/action/tok/refuse?sig=bb",
		WaitURL:        "https://b.example/api/bookings/action/tok/waiting?sig=cc",
		CancelURL:      "https://b.example/api/bookings/cancel/tok",
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2025-06-02"); got != "02.06.2025" {
		t.Errorf("FormatDate = %q, want 02.06.2025", got)
	}
	// unparseable input passes through so a bad row never breaks mail
	if got := FormatDate("soon"); got != "soon" {
		t.Errorf("FormatDate(soon) = %q", got)
	}
}

func TestGuestSummary(t *testing.T) {
	tests := []struct {
		guests   uint32
		children uint32
		want     string
	}{
		{1, 0, "1 guest"},
		{2, 0, "2 guests"},
		{1, 1, "1 guest, 1 child"},
		{4, 2, "4 guests, 2 children"},
		{0, 0, "0 guests"},
	}
	for _, tt := range tests {
		if got := GuestSummary(tt.guests, tt.children); got != tt.want {
			t.Errorf("GuestSummary(%d, %d) = %q, want %q", tt.guests, tt.children, got, tt.want)
		}
	}
}

func TestClientMessageKinds(t *testing.T) {
	tests := []struct {
		kind     string
		status   string
		contains string
	}{
		{kind: KindCreated, status: "pending", contains: "will confirm it shortly"},
		{kind: KindCreated, status: "waiting", contains: "placed on the waiting list"},
		{kind: KindConfirmed, status: "confirmed", contains: "has been confirmed"},
		{kind: KindWaiting, status: "waiting", contains: "moved to the waiting list"},
		{kind: KindRefused, status: "refused", contains: "has been cancelled"},
		{kind: KindCancelled, status: "cancelled", contains: "has been cancelled"},
		{kind: KindReminder, status: "confirmed", contains: "reservation tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"_"+tt.status, func(t *testing.T) {
			d := sampleData()
			d.Status = tt.status
			msg, err := ClientMessage(tt.kind, "ana@example.com", d)
			if err != nil {
				t.Fatalf("ClientMessage(%q) error: %v", tt.kind, err)
			}
			if msg.To != "ana@example.com" {
				t.Errorf("To = %q", msg.To)
			}
			if msg.Subject == "" || !strings.Contains(msg.Subject, d.RestaurantName) {
				t.Errorf("subject %q does not mention the restaurant", msg.Subject)
			}
			if !strings.Contains(msg.HTML, tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, msg.HTML)
			}
			if !strings.Contains(msg.HTML, "02.06.2025") {
				t.Errorf("body missing display date:\n%s", msg.HTML)
			}
			if !strings.Contains(msg.HTML, "4 guests, 2 children") {
				t.Errorf("body missing party summary:\n%s", msg.HTML)
			}
		})
	}
}

func TestClientMessageUnknownKind(t *testing.T) {
	if _, err := ClientMessage("promo", "a@b.c", sampleData()); err == nil {
		t.Error("unknown kind must error, not silently pick a template")
	}
}

func TestClientMessageEscapesUserInput(t *testing.T) {
	d := sampleData()
	d.FirstName = `<script>alert("x")</script>`
	d.SpecialRequest = `window seat & "quiet" <please>`
	msg, err := ClientMessage(KindCreated, "ana@example.com", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("script tag survived templating")
	}
	if !strings.Contains(msg.HTML, "&lt;please&gt;") {
		t.Errorf("special request not escaped:\n%s", msg.HTML)
	}
}

func TestRestaurantMessage(t *testing.T) {
	d := sampleData()
	msg, err := RestaurantMessage("owner@example.com", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, link := range []string{d.ConfirmURL, d.RefuseURL, d.WaitURL} {
		if !strings.Contains(msg.HTML, link) {
			t.Errorf("body missing action link %q", link)
		}
	}
	if strings.Contains(msg.HTML, "placed on the waiting list") {
		t.Error("pending booking must not be announced as waitlisted")
	}

	d.Status = "waiting"
	msg, err = RestaurantMessage("owner@example.com", d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(msg.HTML, "placed on the waiting list") {
		t.Errorf("waitlisted booking not flagged:\n%s", msg.HTML)
	}
}
