package util

import (
	"strconv"
	"strings"
	"time"
)

// Unix timestamps above this are taken to be milliseconds.
const millisThreshold = 100_000_000_000

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"Mon Jan 02 15:04:05 -0700 2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FromUnix converts seconds or milliseconds since the epoch to UTC.
func FromUnix(n int64) time.Time {
	if n > millisThreshold || n < -millisThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// ParseTimestamp accepts unix seconds/millis as text and the layouts above.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		return FromUnix(n), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// NowUTC is the clock used for report timestamps.
func NowUTC() time.Time {
	return time.Now().UTC()
}
