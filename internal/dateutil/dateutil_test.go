package dateutil

import (
	"testing"
	"time"
)

func TestDayBefore(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2023-03-01", "2023-02-28"},
		{"2024-01-01", "2023-12-31"},
		{"2024-06-10", "2024-06-09"},
	}
	for _, tt := range tests {
		in, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		got := Format(DayBefore(in))
		if got != tt.want {
			t.Errorf("DayBefore(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestTruncate_DropsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 6, 10, 17, 45, 12, 999, time.UTC)
	got := Truncate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("Truncate left time-of-day: %v", got)
	}
	if Format(got) != "2024-06-10" {
		t.Errorf("Truncate changed the day: %s", Format(got))
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("SameDay(a, b) = false, want true")
	}
	if SameDay(a, c) {
		t.Error("SameDay(a, c) = true, want false")
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "06/10/2024", "not-a-date"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestDayBefore_RoundTripWithFormat(t *testing.T) {
	// The restore operations match on the exact value the forward operations
	// wrote; DayBefore must be stable across a format/parse round trip.
	start, _ := Parse("2024-06-10")
	forward := DayBefore(start)
	parsed, err := Parse(Format(forward))
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}
	if !forward.Equal(parsed) {
		t.Errorf("round trip changed value: %v != %v", forward, parsed)
	}
}
