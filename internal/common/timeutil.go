package common

import (
	"fmt"
	"strings"
	"time"
)

// WallClockLayout is the provider's local timestamp layout
const WallClockLayout = "2006-01-02 15:04"

var wallClockLayouts = []string{
	WallClockLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseWallClock parses a provider timestamp keeping its wall-clock fields.
// Any zone offset is dropped: the result is expressed in UTC with the same
// year/month/day/hour/minute as written.
func ParseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range wallClockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// NormalizeTimestamp rewrites any supported timestamp into WallClockLayout.
// Unparseable input is returned unchanged.
func NormalizeTimestamp(s string) string {
	if s == "" {
		return s
	}
	t, err := ParseWallClock(s)
	if err != nil {
		return s
	}
	return t.Format(WallClockLayout)
}
