package model

import "testing"

func TestCovers(t *testing.T) {
	b := Booking{Guests: 4, Children: 2}
	if got := b.Covers(); got != 6 {
		t.Errorf("Covers() = %d, want 6", got)
	}
}

func TestOwnerCreated(t *testing.T) {
	tests := []struct {
		clientID string
		want     bool
	}{
		{"owner_12_1719820800", true},
		{"owner-created", true},
		{"2f6c9a3e-5f7d-4b18-9a43-d41c0a6f2a11", false},
		{"", false},
		{"owner", false},
	}
	for _, tt := range tests {
		b := Booking{ClientID: tt.clientID}
		if got := b.OwnerCreated(); got != tt.want {
			t.Errorf("OwnerCreated with clientID %q = %v, want %v", tt.clientID, got, tt.want)
		}
	}
}

func TestOnlineCeiling(t *testing.T) {
	r := Restaurant{Capacity: 40}
	if got := r.OnlineCeiling(); got != 40 {
		t.Errorf("without online capacity: ceiling = %d, want 40", got)
	}
	online := uint32(25)
	r.OnlineCapacity = &online
	if got := r.OnlineCeiling(); got != 25 {
		t.Errorf("with online capacity: ceiling = %d, want 25", got)
	}
}

func TestOpeningHoursFor(t *testing.T) {
	oh := OpeningHours{
		"monday": {Windows: []ServiceWindow{{Open: "12:00", Close: "14:00"}}},
	}
	d, ok := oh.For(1) // time.Monday
	if !ok || len(d.Windows) != 1 {
		t.Errorf("For(Monday) = %+v, %v", d, ok)
	}
	if _, ok := oh.For(3); ok {
		t.Error("unconfigured weekday must report !ok")
	}
}
