package admin

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	dhaka := time.FixedZone("Asia/Dhaka", 6*60*60)

	// 02:30 local on June 2nd is still June 1st in UTC; the day boundary
	// must follow the local clock.
	now := time.Date(2026, time.June, 2, 2, 30, 0, 0, dhaka)
	got := startOfDay(now)

	want := time.Date(2026, time.June, 2, 0, 0, 0, 0, dhaka)
	if !got.Equal(want) {
		t.Errorf("startOfDay() = %v, want %v", got, want)
	}
	if got.Location() != dhaka {
		t.Errorf("location = %v, want the input's zone", got.Location())
	}

	utcTruncated := now.Truncate(24 * time.Hour)
	if got.Equal(utcTruncated) {
		t.Error("local midnight should differ from the UTC truncation here")
	}
}
