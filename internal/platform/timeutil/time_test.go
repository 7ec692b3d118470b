package timeutil

import (
	"testing"
	"time"
)

func TestFormatMicrosConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 1, 15, 12, 30, 0, 123456789, loc)

	got := FormatMicros(ts)
	if got != "2024-01-15T10:30:00.123456Z" {
		t.Fatalf("unexpected format: %s", got)
	}
}

func TestFormatMicrosPadsZeroFraction(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	got := FormatMicros(ts)
	if got != "2024-01-15T10:30:00.000000Z" {
		t.Fatalf("expected fixed microsecond precision, got %s", got)
	}
}
