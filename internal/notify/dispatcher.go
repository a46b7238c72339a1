// Package notify defines the boundary to the reminder delivery system. The
// tracker computes when and what to remind; delivery itself is a collaborator
// behind the Dispatcher interface.
package notify

import (
	"context"
	"time"
)

// Request describes one weekly-recurring reminder to schedule.
type Request struct {
	// Key is a stable identifier (courseID:slot:kind) used for cancelation.
	Key      string
	CourseID string
	// TriggerAt is the first occurrence; Weekday/Hour/Minute anchor the
	// weekly recurrence from there on.
	TriggerAt time.Time
	Weekday   time.Weekday
	Hour      int
	Minute    int
	Title     string
	Body      string
	Payload   map[string]string
}

// Dispatcher schedules and cancels recurring reminders.
type Dispatcher interface {
	Schedule(ctx context.Context, request Request) error
	// CancelCourse removes every reminder previously scheduled for the
	// course.
	CancelCourse(ctx context.Context, courseID string) error
}
