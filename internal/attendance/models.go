package attendance

import (
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/policy"
)

// CourseInput carries the writable fields of a course.
type CourseInput struct {
	Name          string
	Type          string
	Color         string
	Schedule      []persistence.ScheduleSlot
	MinPercentage *float64
	MinClasses    *int
	SemesterTotal *int
}

// CourseOverview pairs a stored course with its derived counters and current
// attendance percentage, the shape course listings display.
type CourseOverview struct {
	Course     persistence.Course
	Counters   policy.Counters
	Percentage float64
}

// CourseStatus is the full evaluation result for one course.
type CourseStatus struct {
	CourseID string
	Counters policy.Counters
	Status   policy.Status
}

// RecordInput carries the writable fields of an attendance record.
type RecordInput struct {
	CourseID string
	Date     time.Time
	Status   string
	Notes    string
}

// RecordUpdate carries the mutable fields of an existing record; nil fields
// are left unchanged.
type RecordUpdate struct {
	Status *string
	Notes  *string
}

// BulkInput requests count weekly-spaced present marks ending at Anchor.
type BulkInput struct {
	CourseID string
	Count    int
	Anchor   time.Time
}

// ReminderKind distinguishes the two reminders derived per schedule slot.
type ReminderKind string

const (
	ReminderBeforeClass ReminderKind = "before"
	ReminderAfterClass  ReminderKind = "after"
)

// ReminderPlan is one weekly reminder for one course schedule slot: the
// first trigger instant, the weekly recurrence anchor, and the message.
type ReminderPlan struct {
	// Key is stable across replans (courseID:slot:kind) so previously
	// scheduled reminders can be canceled en masse.
	Key       string
	CourseID  string
	SlotIndex int
	Kind      ReminderKind
	TriggerAt time.Time
	Weekday   time.Weekday
	Hour      int
	Minute    int
	Title     string
	Body      string
}

// SlotError reports a schedule slot whose reminders could not be planned.
// One bad slot never suppresses the plans of the remaining slots.
type SlotError struct {
	SlotIndex int
	Err       error
}

func (e SlotError) Error() string {
	return e.Err.Error()
}

func (e SlotError) Unwrap() error {
	return e.Err
}
