package util

import (
	"strconv"
	"time"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Base36Millis renders the unix millisecond timestamp of t in base 36.
func Base36Millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}
