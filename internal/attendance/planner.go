package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/attendance-tracker/internal/notify"
	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/timetable"
)

// Reminder message templates. Template selection and numeric parameters are
// computed here; rendering stays plain English data.
const (
	afterClassTitle   = "Class Just Ended!"
	afterClassBodyFmt = "Don't forget to mark your attendance for %s"

	beforeClassTitle   = "Upcoming Class"
	beforeClassNeedFmt = "%s starts soon. You need %d more %s to meet the requirement"
	beforeClassMetFmt  = "%s starts soon. You have met the attendance requirement!"
	classWordSingular  = "class"
	classWordPlural    = "classes"
)

// ReminderPlanner derives the weekly reminder plans of a course and hands
// them to the notification dispatcher.
type ReminderPlanner struct {
	courses    *CourseService
	dispatcher notify.Dispatcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewReminderPlanner wires dependencies for reminder planning.
func NewReminderPlanner(courses *CourseService, dispatcher notify.Dispatcher, now func() time.Time, logger *slog.Logger) *ReminderPlanner {
	if now == nil {
		now = time.Now
	}
	return &ReminderPlanner{
		courses:    courses,
		dispatcher: dispatcher,
		now:        now,
		logger:     defaultLogger(logger),
	}
}

// BuildReminderPlans computes the before/after reminder pair for every
// schedule slot of the course. Slots that fail to parse are reported in the
// second return value without suppressing the remaining slots.
func BuildReminderPlans(course persistence.Course, stillNeeded int, now time.Time) ([]ReminderPlan, []SlotError) {
	plans := make([]ReminderPlan, 0, 2*len(course.Schedule))
	var slotErrs []SlotError

	for i, slot := range course.Schedule {
		weekday, err := timetable.ParseWeekday(slot.Day)
		if err != nil {
			slotErrs = append(slotErrs, SlotError{SlotIndex: i, Err: err})
			continue
		}
		start, err := timetable.ParseTimeOfDay(slot.StartTime)
		if err != nil {
			slotErrs = append(slotErrs, SlotError{SlotIndex: i, Err: err})
			continue
		}
		end, err := timetable.ParseTimeOfDay(slot.EndTime)
		if err != nil {
			slotErrs = append(slotErrs, SlotError{SlotIndex: i, Err: err})
			continue
		}

		afterAt := timetable.AfterClassAt(weekday, end, now)
		plans = append(plans, ReminderPlan{
			Key:       reminderKey(course.ID, i, ReminderAfterClass),
			CourseID:  course.ID,
			SlotIndex: i,
			Kind:      ReminderAfterClass,
			TriggerAt: afterAt,
			Weekday:   afterAt.Weekday(),
			Hour:      afterAt.Hour(),
			Minute:    afterAt.Minute(),
			Title:     afterClassTitle,
			Body:      fmt.Sprintf(afterClassBodyFmt, course.Name),
		})

		beforeAt := timetable.BeforeClassAt(weekday, start, now)
		plans = append(plans, ReminderPlan{
			Key:       reminderKey(course.ID, i, ReminderBeforeClass),
			CourseID:  course.ID,
			SlotIndex: i,
			Kind:      ReminderBeforeClass,
			TriggerAt: beforeAt,
			Weekday:   beforeAt.Weekday(),
			Hour:      beforeAt.Hour(),
			Minute:    beforeAt.Minute(),
			Title:     beforeClassTitle,
			Body:      beforeClassBody(course.Name, stillNeeded),
		})
	}

	return plans, slotErrs
}

// PlansForCourse loads the course, evaluates its policy for the still-needed
// count, and builds the reminder plans.
func (p *ReminderPlanner) PlansForCourse(ctx context.Context, courseID string) ([]ReminderPlan, []SlotError, error) {
	course, err := p.courses.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	status, err := p.courses.ComputeStatus(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}

	plans, slotErrs := BuildReminderPlans(course, status.Status.StillNeeded, p.now())
	return plans, slotErrs, nil
}

// Sync cancels the course's previously scheduled reminders and schedules the
// freshly computed plans through the dispatcher.
func (p *ReminderPlanner) Sync(ctx context.Context, courseID string) ([]ReminderPlan, []SlotError, error) {
	if p == nil || p.dispatcher == nil {
		return nil, nil, fmt.Errorf("reminder dispatcher not configured")
	}

	logger := serviceLogger(ctx, p.logger, "ReminderPlanner", "Sync", "course_id", courseID)

	plans, slotErrs, err := p.PlansForCourse(ctx, courseID)
	if err != nil {
		logger.ErrorContext(ctx, "reminder planning failed", "error", err, "error_kind", ErrorKind(err))
		return nil, nil, err
	}

	if err := p.dispatcher.CancelCourse(ctx, courseID); err != nil {
		return nil, nil, fmt.Errorf("cancel reminders for course %s: %w", courseID, err)
	}

	for _, plan := range plans {
		request := notify.Request{
			Key:       plan.Key,
			CourseID:  plan.CourseID,
			TriggerAt: plan.TriggerAt,
			Weekday:   plan.Weekday,
			Hour:      plan.Hour,
			Minute:    plan.Minute,
			Title:     plan.Title,
			Body:      plan.Body,
			Payload: map[string]string{
				"courseId": plan.CourseID,
				"type":     string(plan.Kind) + "-class",
			},
		}
		if err := p.dispatcher.Schedule(ctx, request); err != nil {
			return nil, nil, fmt.Errorf("schedule reminder %s: %w", plan.Key, err)
		}
	}

	for _, slotErr := range slotErrs {
		logger.WarnContext(ctx, "schedule slot skipped",
			"slot", slotErr.SlotIndex,
			"error", slotErr.Err,
			"error_kind", ErrorKind(slotErr.Err),
		)
	}

	logger.InfoContext(ctx, "reminders scheduled", "plans", len(plans), "skipped_slots", len(slotErrs))
	return plans, slotErrs, nil
}

func reminderKey(courseID string, slotIndex int, kind ReminderKind) string {
	return fmt.Sprintf("%s:%d:%s", courseID, slotIndex, kind)
}

func beforeClassBody(courseName string, stillNeeded int) string {
	if stillNeeded <= 0 {
		return fmt.Sprintf(beforeClassMetFmt, courseName)
	}
	word := classWordPlural
	if stillNeeded == 1 {
		word = classWordSingular
	}
	return fmt.Sprintf(beforeClassNeedFmt, courseName, stillNeeded, word)
}
