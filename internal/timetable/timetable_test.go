package timetable

import (
	"errors"
	"testing"
	"time"
)

// reference is a Wednesday.
var reference = time.Date(2024, time.March, 13, 14, 0, 0, 0, time.UTC)

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	t.Run("accepts the seven names case-insensitively", func(t *testing.T) {
		t.Parallel()

		weekday, err := ParseWeekday("wednesday")
		if err != nil {
			t.Fatalf("ParseWeekday failed: %v", err)
		}
		if weekday != time.Wednesday {
			t.Fatalf("expected Wednesday, got %v", weekday)
		}
	})

	t.Run("rejects unrecognized names instead of defaulting", func(t *testing.T) {
		t.Parallel()

		_, err := ParseWeekday("Funday")
		var unknownErr *ErrUnknownWeekday
		if !errors.As(err, &unknownErr) {
			t.Fatalf("expected ErrUnknownWeekday, got %v", err)
		}
		if unknownErr.Value != "Funday" {
			t.Fatalf("expected offending value to be preserved, got %q", unknownErr.Value)
		}
	})
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	t.Run("parses HH:MM", func(t *testing.T) {
		t.Parallel()

		tod, err := ParseTimeOfDay("09:30")
		if err != nil {
			t.Fatalf("ParseTimeOfDay failed: %v", err)
		}
		if tod.Hour != 9 || tod.Minute != 30 {
			t.Fatalf("expected 09:30, got %v", tod)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Parallel()

		for _, value := range []string{"", "24:00", "12:60", "12", "12:3:4", "ab:cd", "-1:30"} {
			if _, err := ParseTimeOfDay(value); err == nil {
				t.Fatalf("expected error for %q", value)
			} else {
				var malformedErr *ErrMalformedTime
				if !errors.As(err, &malformedErr) {
					t.Fatalf("expected ErrMalformedTime for %q, got %v", value, err)
				}
			}
		}
	})
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	t.Run("later the same day", func(t *testing.T) {
		t.Parallel()

		next := NextOccurrence(time.Wednesday, TimeOfDay{Hour: 16, Minute: 15}, reference)
		want := time.Date(2024, time.March, 13, 16, 15, 0, 0, time.UTC)
		if !next.Equal(want) {
			t.Fatalf("expected %v, got %v", want, next)
		}
	})

	t.Run("same weekday but earlier time wraps a full week", func(t *testing.T) {
		t.Parallel()

		next := NextOccurrence(time.Wednesday, TimeOfDay{Hour: 10, Minute: 0}, reference)
		want := time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)
		if !next.Equal(want) {
			t.Fatalf("expected the following Wednesday %v, got %v", want, next)
		}
	})

	t.Run("exactly now wraps a full week", func(t *testing.T) {
		t.Parallel()

		next := NextOccurrence(time.Wednesday, TimeOfDay{Hour: 14, Minute: 0}, reference)
		want := time.Date(2024, time.March, 20, 14, 0, 0, 0, time.UTC)
		if !next.Equal(want) {
			t.Fatalf("expected %v, got %v", want, next)
		}
	})

	t.Run("earlier weekday lands next week", func(t *testing.T) {
		t.Parallel()

		next := NextOccurrence(time.Monday, TimeOfDay{Hour: 8, Minute: 0}, reference)
		want := time.Date(2024, time.March, 18, 8, 0, 0, 0, time.UTC)
		if !next.Equal(want) {
			t.Fatalf("expected %v, got %v", want, next)
		}
	})

	t.Run("zeroes seconds and sub-seconds", func(t *testing.T) {
		t.Parallel()

		now := reference.Add(42*time.Second + 17*time.Millisecond)
		next := NextOccurrence(time.Friday, TimeOfDay{Hour: 12, Minute: 30}, now)
		if next.Second() != 0 || next.Nanosecond() != 0 {
			t.Fatalf("expected zeroed seconds, got %v", next)
		}
	})
}

func TestReminderInstants(t *testing.T) {
	t.Parallel()

	t.Run("after-class fires five minutes past the end", func(t *testing.T) {
		t.Parallel()

		at := AfterClassAt(time.Thursday, TimeOfDay{Hour: 11, Minute: 0}, reference)
		want := time.Date(2024, time.March, 14, 11, 5, 0, 0, time.UTC)
		if !at.Equal(want) {
			t.Fatalf("expected %v, got %v", want, at)
		}
	})

	t.Run("before-class fires ten minutes ahead of the start", func(t *testing.T) {
		t.Parallel()

		at := BeforeClassAt(time.Thursday, TimeOfDay{Hour: 9, Minute: 0}, reference)
		want := time.Date(2024, time.March, 14, 8, 50, 0, 0, time.UTC)
		if !at.Equal(want) {
			t.Fatalf("expected %v, got %v", want, at)
		}
	})
}
