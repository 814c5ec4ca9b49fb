package booking

import (
	"errors"
	"time"

	"github.com/ematija/restaurant-reservation/internal/model"
)

const (
	dateLayout = "2006-01-02" // ISO calendar date
	timeLayout = "15:04"      // zero-padded 24h clock
)

var (
	// ErrBadDate is returned for dates not in YYYY-MM-DD form.
	ErrBadDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrBadTime is returned for times not in HH:MM form.
	ErrBadTime = errors.New("invalid time, expected HH:MM")
)

// ParseDate validates an ISO date string and returns it as a time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// ParseTime validates an HH:MM string and returns minutes since midnight.
func ParseTime(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, ErrBadTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

// WithinOpeningHours reports whether the given date/time falls inside
// one of the restaurant's configured service windows for that weekday.
// Windows are half-open: a request at exactly the opening time is
// accepted, one at exactly the closing time is not.  Malformed windows
// are skipped rather than failing the whole check.
func WithinOpeningHours(oh model.OpeningHours, date, timeStr string) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	minutes, err := ParseTime(timeStr)
	if err != nil {
		return false, err
	}
	hours, ok := oh.For(day.Weekday())
	if !ok || hours.Closed {
		return false, nil
	}
	for _, w := range hours.Windows {
		open, err := ParseTime(w.Open)
		if err != nil {
			continue
		}
		close, err := ParseTime(w.Close)
		if err != nil {
			continue
		}
		if open <= minutes && minutes < close {
			return true, nil
		}
	}
	return false, nil
}
