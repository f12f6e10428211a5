package models

import (
	"testing"
	"time"
)

func TestNormalizeCollectorNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0204", "204"},
		{"204", "204"},
		{" 0361 ", "361"},
		{"361a", "361a"},
		{"0", "0"},
		{"000", "000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCollectorNumber(tt.in); got != tt.want {
			t.Errorf("NormalizeCollectorNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObservationDay(t *testing.T) {
	// 23:30 in Sao Paulo (UTC-3) is already the next day in UTC; the day
	// boundary must follow UTC, not the venue's local time.
	sp := time.FixedZone("BRT", -3*60*60)
	local := time.Date(2026, 3, 14, 23, 30, 0, 0, sp)

	got := ObservationDay(local)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ObservationDay(%v) = %v, want %v", local, got, want)
	}

	// Two timestamps inside the same UTC day collapse to one key.
	morning := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	if !ObservationDay(morning).Equal(ObservationDay(evening)) {
		t.Error("timestamps within one UTC day produced different observation days")
	}
}
