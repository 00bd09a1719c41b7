package hours

import (
	"testing"
	"time"
)

func TestDateHourString(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 5}
	expected := "2025-01-01 05"
	if s := dh.String(); s != expected {
		t.Errorf("String() expected %q, got %q", expected, s)
	}
}

func TestDateHourIsoString(t *testing.T) {
	dh := DateHour{Date: "2025-01-01", Hour: 15}
	expected := "2025-01-01T15:00:00"
	if s := dh.IsoString(); s != expected {
		t.Errorf("IsoString() expected %q, got %q", expected, s)
	}
}

func TestDateHourAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    DateHour
		addHours int
		expected DateHour
	}{
		{
			name:     "add within same day",
			input:    DateHour{Date: "2025-01-01", Hour: 10},
			addHours: 2,
			expected: DateHour{Date: "2025-01-01", Hour: 12},
		},
		{
			name:     "add crossing midnight",
			input:    DateHour{Date: "2025-01-01", Hour: 23},
			addHours: 2,
			expected: DateHour{Date: "2025-01-02", Hour: 1},
		},
		{
			name:     "add negative hours (subtract)",
			input:    DateHour{Date: "2025-01-01", Hour: 1},
			addHours: -2,
			expected: DateHour{Date: "2024-12-31", Hour: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Add(tt.addHours)
			if result != tt.expected {
				t.Errorf("Add(%d) expected %+v, got %+v", tt.addHours, tt.expected, result)
			}
		})
	}
}

func TestDateHourCompare(t *testing.T) {
	a := DateHour{Date: "2025-01-01", Hour: 10}
	b := DateHour{Date: "2025-01-01", Hour: 11}
	c := DateHour{Date: "2025-01-02", Hour: 0}

	if a.Compare(a) != 0 {
		t.Errorf("expected equal DateHours to compare as 0")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Errorf("expected hour ordering within the same date")
	}
	if b.Compare(c) != -1 {
		t.Errorf("expected date ordering to dominate hour ordering")
	}
}

func TestFromTimeNormalizesToOslo(t *testing.T) {
	// 22:00 UTC on a summer day is 00:00 the next day in Oslo (UTC+2).
	tm := time.Date(2022, time.August, 5, 22, 0, 0, 0, time.UTC)
	dh := FromTime(tm)
	expected := DateHour{Date: "2022-08-06", Hour: 0}
	if dh != expected {
		t.Errorf("FromTime() expected %+v, got %+v", expected, dh)
	}

	// Winter: UTC+1.
	tm = time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)
	dh = FromTime(tm)
	expected = DateHour{Date: "2025-01-01", Hour: 16}
	if dh != expected {
		t.Errorf("FromTime() expected %+v, got %+v", expected, dh)
	}

	var zero time.Time
	if !FromTime(zero).IsZero() {
		t.Errorf("FromTime() with zero time expected a zero DateHour")
	}
}

func TestOsloMidnight(t *testing.T) {
	tm := time.Date(2022, time.August, 6, 14, 30, 0, 0, time.UTC)
	midnight := OsloMidnight(tm)
	if midnight.Hour() != 0 || midnight.Minute() != 0 {
		t.Errorf("expected midnight, got %v", midnight)
	}
	if midnight.Format("2006-01-02") != "2022-08-06" {
		t.Errorf("expected date 2022-08-06, got %s", midnight.Format("2006-01-02"))
	}
	// Oslo midnight in August is 22:00 UTC the previous day.
	if midnight.UTC().Hour() != 22 {
		t.Errorf("expected 22:00 UTC, got %d", midnight.UTC().Hour())
	}
}
