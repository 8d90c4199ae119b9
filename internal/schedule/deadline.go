// Package schedule holds the time-based business rules of the school:
// cancellation deadlines, rebooking windows and the bookable slot grid.
// Every day-boundary comparison is done in the business timezone (JST),
// never in the host's local zone.
package schedule

import "time"

// JST is the business timezone. Japan has no DST, so a fixed zone is exact.
var JST = time.FixedZone("Asia/Tokyo", 9*60*60)

const (
	// ClassDuration is fixed for every class.
	ClassDuration = 25 * time.Minute

	// RebookWindowMonths is how many calendar months a cancellation grants
	// for claiming a replacement class.
	RebookWindowMonths = 5

	// RebookCutoff is the minimum lead time before a target slot's start
	// for a rebooking to be accepted.
	RebookCutoff = 3 * time.Hour
)

// IsPastPreviousDayDeadline reports whether now is on or after the calendar
// day of scheduledAt in JST. Day-level granularity: a class at 00:00 counts
// as "today" from midnight on. Before the deadline, free cancellation with
// rebooking is allowed; on or after, only the same-day support flow applies.
func IsPastPreviousDayDeadline(now, scheduledAt time.Time) bool {
	return !dayOf(now).Before(dayOf(scheduledAt))
}

// RebookableUntil returns the end of the rebooking window granted by a
// cancellation at canceledAt: the last instant (23:59:59 JST) of the month
// five calendar months after canceledAt's month.
func RebookableUntil(canceledAt time.Time) time.Time {
	t := canceledAt.In(JST)
	firstOfTarget := time.Date(t.Year(), t.Month()+RebookWindowMonths, 1, 0, 0, 0, 0, JST)
	return firstOfTarget.AddDate(0, 1, 0).Add(-time.Second)
}

// WithinRebookingWindow reports whether now is still inside the window.
func WithinRebookingWindow(now, rebookableUntil time.Time) bool {
	return !now.After(rebookableUntil)
}

// PastRebookingCutoff reports whether now is too close to the target slot's
// start for a rebooking to be accepted.
func PastRebookingCutoff(now, targetStart time.Time) bool {
	return !now.Before(targetStart.Add(-RebookCutoff))
}

// Overlaps reports whether two fixed-duration class windows intersect.
func Overlaps(a, b time.Time) bool {
	return a.Before(b.Add(ClassDuration)) && b.Before(a.Add(ClassDuration))
}

// MonthBounds returns the first instant of the month and the first instant
// of the following month, both in JST.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, JST)
	return start, start.AddDate(0, 1, 0)
}

// NextMonth returns the month after t's JST month. Stepping from the first
// of the month avoids AddDate overflow on the 29th-31st.
func NextMonth(t time.Time) (int, time.Month) {
	d := t.In(JST)
	next := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, JST).AddDate(0, 1, 0)
	return next.Year(), next.Month()
}

// WeekdayDatesIn lists every JST date of the given month falling on weekday.
func WeekdayDatesIn(year int, month time.Month, weekday time.Weekday) []time.Time {
	start, end := MonthBounds(year, month)

	var dates []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			dates = append(dates, d)
		}
	}
	return dates
}

// At combines a JST date with a time of day.
func At(date time.Time, hour, minute int) time.Time {
	d := date.In(JST)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, JST)
}

func dayOf(t time.Time) time.Time {
	d := t.In(JST)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, JST)
}
