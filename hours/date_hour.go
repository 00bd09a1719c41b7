package hours

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02 15"
)

var osloLoc *time.Location

func init() {
	var err error
	osloLoc, err = time.LoadLocation("Europe/Oslo")
	if err != nil {
		panic(fmt.Sprintf("failed to load Oslo location: %v", err))
	}
}

// DateHour is a naive local wall-clock hour. Provider timestamps are
// converted to Oslo time and then stripped of their zone, so downstream
// code never does zone-aware arithmetic by accident.
type DateHour struct {
	Date string
	Hour uint8
}

func (dh DateHour) String() string {
	return fmt.Sprintf("%s %02d", dh.Date, dh.Hour)
}

func (dh DateHour) IsoString() string {
	return fmt.Sprintf("%sT%02d:00:00", dh.Date, dh.Hour)
}

func (dh DateHour) Add(hours int) DateHour {
	t, err := time.ParseInLocation(hourLayout, dh.String(), time.UTC)
	if err != nil {
		return dh
	}

	t = t.Add(time.Duration(hours) * time.Hour)
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

func (dh DateHour) Compare(other DateHour) int {
	if dh == other {
		return 0
	}
	if dh.Date < other.Date {
		return -1
	}
	if dh.Date > other.Date {
		return 1
	}
	if dh.Hour < other.Hour {
		return -1
	}
	return 1
}

func (dh DateHour) IsZero() bool {
	return dh.Date == "" && dh.Hour == 0
}

// FromTime normalizes a zone-aware timestamp to a naive Oslo wall-clock hour.
func FromTime(t time.Time) DateHour {
	if t.IsZero() {
		return DateHour{}
	}
	t = t.In(osloLoc)
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

// LocationOslo returns the timestamp in the provider time zone.
func LocationOslo(t time.Time) time.Time {
	return t.In(osloLoc)
}

// OsloMidnight returns local midnight of the day containing t.
func OsloMidnight(t time.Time) time.Time {
	t = t.In(osloLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, osloLoc)
}
