// Package timetable projects weekly class meetings onto the calendar: it
// parses weekday names and HH:MM times of day and computes the next wall-clock
// occurrence of a recurring slot relative to a reference instant.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime indicates a time of day that does not parse as HH:MM with
// hour 0-23 and minute 0-59.
type ErrMalformedTime struct {
	Value string
}

func (e *ErrMalformedTime) Error() string {
	return fmt.Sprintf("timetable: malformed time of day %q", e.Value)
}

// ErrUnknownWeekday indicates a day value that is not one of the seven
// recognized English weekday names.
type ErrUnknownWeekday struct {
	Value string
}

func (e *ErrUnknownWeekday) Error() string {
	return fmt.Sprintf("timetable: unknown weekday %q", e.Value)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a weekday name ("Monday", case-insensitive) to its
// time.Weekday value.
func ParseWeekday(day string) (time.Weekday, error) {
	weekday, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return 0, &ErrUnknownWeekday{Value: day}
	}
	return weekday, nil
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a strict HH:MM string. Single-digit hours are
// accepted ("9:05"), out-of-range components are not.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, &ErrMalformedTime{Value: value}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, &ErrMalformedTime{Value: value}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, &ErrMalformedTime{Value: value}
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String renders the time of day back into HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NextOccurrence returns the soonest instant at or after now at which the
// given weekday and time of day occur, in now's location with seconds and
// sub-seconds zeroed. A slot whose time has already passed today rolls over
// to the following week.
func NextOccurrence(weekday time.Weekday, tod TimeOfDay, now time.Time) time.Time {
	daysUntil := (int(weekday) - int(now.Weekday()) + 7) % 7

	candidate := time.Date(now.Year(), now.Month(), now.Day()+daysUntil, tod.Hour, tod.Minute, 0, 0, now.Location())
	if daysUntil == 0 && !now.Before(candidate) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// Offsets applied to a slot's boundaries when deriving reminder instants.
const (
	AfterClassDelay = 5 * time.Minute
	BeforeClassLead = 10 * time.Minute
)

// AfterClassAt returns the reminder instant shortly after the slot's next end.
func AfterClassAt(weekday time.Weekday, end TimeOfDay, now time.Time) time.Time {
	return NextOccurrence(weekday, end, now).Add(AfterClassDelay)
}

// BeforeClassAt returns the reminder instant shortly before the slot's next
// start.
func BeforeClassAt(weekday time.Weekday, start TimeOfDay, now time.Time) time.Time {
	return NextOccurrence(weekday, start, now).Add(-BeforeClassLead)
}
