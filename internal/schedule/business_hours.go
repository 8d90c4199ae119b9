package schedule

import (
	"fmt"
	"time"
)

// Business hours span 09:00-21:00 in half-hour increments: 24 slot start
// times per day, 09:00 through 20:30. Weekday-specific closures on top:
// Mon-Fri classes start at 16:00, Saturday closes from 12:30, Sunday is
// reserved for administrative use and has no bookable slots.
const (
	OpeningHour     = 9
	ClosingHour     = 21
	SlotsPerDay     = 24
	slotMinutes     = 30
	weekdayOpenHour = 16
)

// saturdayCloseFrom is the first closed Saturday slot.
const saturdayCloseFrom = "12:30"

// AllSlots returns the 24 slot start times as "HH:MM" strings.
func AllSlots() []string {
	slots := make([]string, 0, SlotsPerDay)
	for h := OpeningHour; h < ClosingHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// DisabledSlots returns the closed slot start times for a weekday. The
// server re-validates against this on every booking write; client-supplied
// availability is never trusted.
func DisabledSlots(weekday time.Weekday) map[string]bool {
	disabled := make(map[string]bool)

	switch weekday {
	case time.Sunday:
		for _, s := range AllSlots() {
			disabled[s] = true
		}
	case time.Saturday:
		for _, s := range AllSlots() {
			if s >= saturdayCloseFrom {
				disabled[s] = true
			}
		}
	default: // Monday-Friday: closed strictly before 16:00
		cutoff := fmt.Sprintf("%02d:00", weekdayOpenHour)
		for _, s := range AllSlots() {
			if s < cutoff {
				disabled[s] = true
			}
		}
	}
	return disabled
}

// SlotBookable reports whether a weekday + time-of-day combination is an
// open slot start.
func SlotBookable(weekday time.Weekday, hour, minute int) bool {
	if hour < OpeningHour || hour >= ClosingHour {
		return false
	}
	if minute != 0 && minute != slotMinutes {
		return false
	}
	return !DisabledSlots(weekday)[fmt.Sprintf("%02d:%02d", hour, minute)]
}

// IsBookable reports whether the instant, interpreted in JST, is an open
// slot start.
func IsBookable(t time.Time) bool {
	jst := t.In(JST)
	return SlotBookable(jst.Weekday(), jst.Hour(), jst.Minute())
}
