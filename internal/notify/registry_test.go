package notify

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_ScheduleAndCancel(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	ctx := context.Background()

	requests := []Request{
		{Key: "course-1:0:before", CourseID: "course-1", Weekday: time.Monday, Hour: 9, Minute: 50},
		{Key: "course-1:0:after", CourseID: "course-1", Weekday: time.Monday, Hour: 12, Minute: 5},
		{Key: "course-2:0:before", CourseID: "course-2", Weekday: time.Friday, Hour: 13, Minute: 50},
	}
	for _, request := range requests {
		if err := registry.Schedule(ctx, request); err != nil {
			t.Fatalf("Schedule failed: %v", err)
		}
	}

	if got := registry.ScheduledForCourse("course-1"); len(got) != 2 {
		t.Fatalf("expected 2 reminders for course-1, got %d", len(got))
	}

	if err := registry.CancelCourse(ctx, "course-1"); err != nil {
		t.Fatalf("CancelCourse failed: %v", err)
	}
	if got := registry.ScheduledForCourse("course-1"); len(got) != 0 {
		t.Fatalf("expected no reminders after cancel, got %d", len(got))
	}
	if got := registry.ScheduledForCourse("course-2"); len(got) != 1 {
		t.Fatalf("cancel must not touch other courses, got %d", len(got))
	}
}

func TestRegistry_ScheduleReplacesByKey(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	ctx := context.Background()

	first := Request{Key: "course-1:0:before", CourseID: "course-1", Hour: 9}
	second := Request{Key: "course-1:0:before", CourseID: "course-1", Hour: 10}
	if err := registry.Schedule(ctx, first); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := registry.Schedule(ctx, second); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	got := registry.ScheduledForCourse("course-1")
	if len(got) != 1 {
		t.Fatalf("expected replacement, got %d entries", len(got))
	}
	if got[0].Hour != 10 {
		t.Fatalf("expected latest entry to win, got hour %d", got[0].Hour)
	}
}
