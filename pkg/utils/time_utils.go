package utils

import (
	"time"
)

// ISOMillisLayout matches the JavaScript toISOString format used by the
// calculator frontend.
const ISOMillisLayout = "2006-01-02T15:04:05.000Z07:00"

// YearsBefore returns t moved back by the given number of calendar years, in
// UTC. Feb 29 normalises to Mar 1 when the target year is not a leap year.
func YearsBefore(t time.Time, years int) time.Time {
	return t.UTC().AddDate(-years, 0, 0)
}

// FormatISO formats t as an ISO-8601 UTC timestamp with millisecond precision
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOMillisLayout)
}

// UnixMillis converts a millisecond timestamp to a UTC time
func UnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// AbsDuration returns |d|
func AbsDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// PickClosest returns the element whose timestamp is nearest to target. On an
// exact tie the earlier element in items wins; items is never reordered.
func PickClosest[T any](items []T, target time.Time, timestampOf func(T) time.Time) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}

	best = items[0]
	bestDiff := AbsDuration(timestampOf(best).Sub(target))
	for _, item := range items[1:] {
		diff := AbsDuration(timestampOf(item).Sub(target))
		if diff < bestDiff {
			best = item
			bestDiff = diff
		}
	}
	return best, true
}
