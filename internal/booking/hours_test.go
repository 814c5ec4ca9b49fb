package booking

import (
	"errors"
	"testing"

	"github.com/ematija/restaurant-reservation/internal/model"
)

// 2025-06-02 is a Monday.
const monday = "2025-06-02"

func twoServiceDays() model.OpeningHours {
	return model.OpeningHours{
		"monday": {Windows: []model.ServiceWindow{
			{Open: "12:00", Close: "14:30"},
			{Open: "19:00", Close: "22:00"},
		}},
		"tuesday": {Closed: true, Windows: []model.ServiceWindow{
			{Open: "12:00", Close: "14:30"},
		}},
	}
}

func TestWithinOpeningHours(t *testing.T) {
	oh := twoServiceDays()

	tests := []struct {
		name string
		date string
		time string
		want bool
	}{
		{name: "insideLunch", date: monday, time: "12:30", want: true},
		{name: "exactlyAtOpen", date: monday, time: "12:00", want: true},
		{name: "lastMinuteBeforeClose", date: monday, time: "14:29", want: true},
		{name: "exactlyAtClose", date: monday, time: "14:30", want: false},
		{name: "betweenServices", date: monday, time: "16:00", want: false},
		{name: "insideDinner", date: monday, time: "21:59", want: true},
		{name: "afterDinner", date: monday, time: "22:00", want: false},
		{name: "closedFlagOverridesWindows", date: "2025-06-03", time: "12:30", want: false},
		{name: "weekdayNotConfigured", date: "2025-06-04", time: "12:30", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinOpeningHours(oh, tt.date, tt.time)
			if err != nil {
				t.Fatalf("WithinOpeningHours(%s %s) unexpected error: %v", tt.date, tt.time, err)
			}
			if got != tt.want {
				t.Errorf("WithinOpeningHours(%s %s) = %v, want %v", tt.date, tt.time, got, tt.want)
			}
		})
	}
}

func TestWithinOpeningHoursBadInput(t *testing.T) {
	oh := twoServiceDays()

	if _, err := WithinOpeningHours(oh, "02.06.2025", "12:30"); !errors.Is(err, ErrBadDate) {
		t.Errorf("bad date: err = %v, want ErrBadDate", err)
	}
	if _, err := WithinOpeningHours(oh, monday, "noonish"); !errors.Is(err, ErrBadTime) {
		t.Errorf("bad time: err = %v, want ErrBadTime", err)
	}
	if _, err := WithinOpeningHours(oh, monday, "25:00"); !errors.Is(err, ErrBadTime) {
		t.Errorf("out-of-range time: err = %v, want ErrBadTime", err)
	}
}

func TestWithinOpeningHoursSkipsMalformedWindows(t *testing.T) {
	oh := model.OpeningHours{
		"monday": {Windows: []model.ServiceWindow{
			{Open: "garbage", Close: "14:00"},
			{Open: "19:00", Close: "22:00"},
		}},
	}
	ok, err := WithinOpeningHours(oh, monday, "20:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("valid window after a malformed one must still match")
	}
	ok, err = WithinOpeningHours(oh, monday, "13:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("malformed window must not admit bookings")
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("08:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8*60+45 {
		t.Errorf("ParseTime(08:45) = %d, want %d", got, 8*60+45)
	}
	if _, err := ParseTime("8:45pm"); !errors.Is(err, ErrBadTime) {
		t.Errorf("err = %v, want ErrBadTime", err)
	}
}
