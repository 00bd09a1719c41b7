package hours

import (
	"errors"
	"fmt"
	"time"
)

const dayLayout = "20060102"

// ErrBadDayFormat is returned when a caller-supplied day string can't be
// parsed, or the range boundaries are not in order.
var ErrBadDayFormat = errors.New("day must be an 8-digit YYYYMMDD string")

// DayRange is a half-open range of calendar days [From, To) in the
// provider time zone. Prices are fetched for every hour of the range.
type DayRange struct {
	From time.Time
	To   time.Time
}

// ParseDayRange parses two YYYYMMDD day strings into a DayRange.
// To is exclusive. Malformed input or From >= To fails with ErrBadDayFormat.
func ParseDayRange(startDay, endDay string) (DayRange, error) {
	from, err := time.ParseInLocation(dayLayout, startDay, osloLoc)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: %q", ErrBadDayFormat, startDay)
	}
	to, err := time.ParseInLocation(dayLayout, endDay, osloLoc)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: %q", ErrBadDayFormat, endDay)
	}
	if !from.Before(to) {
		return DayRange{}, fmt.Errorf("%w: start day %q is not before end day %q", ErrBadDayFormat, startDay, endDay)
	}
	return DayRange{From: from, To: to}, nil
}

// RangeFromToday returns [today, today+days) in the provider time zone.
func RangeFromToday(days int) DayRange {
	from := OsloMidnight(time.Now())
	return DayRange{From: from, To: from.AddDate(0, 0, days)}
}

// Days returns every calendar day in [From, To], To included. The
// exchange rate series is built over the inclusive span so every hourly
// price has a rate for its own date regardless of where the range ends.
func (r DayRange) Days() []string {
	var days []string
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}

// Hours returns the number of whole hours in [From, To).
func (r DayRange) Hours() int {
	return int(r.To.Sub(r.From) / time.Hour)
}

// Key is a stable identifier for the range, used as cache key.
func (r DayRange) Key() string {
	return r.From.Format(dayLayout) + "-" + r.To.Format(dayLayout)
}

func (r DayRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.From.Format(dateLayout), r.To.Format(dateLayout))
}
