package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/policy"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + string(rune('0'+n))
	}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func newCourseServiceForTest(courses *courseRepoStub, records *attendanceRepoStub) *CourseService {
	return NewCourseService(courses, records, nil, nil, sequentialIDs("course"), fixedNow, nil)
}

func TestCourseService_CreateCourse(t *testing.T) {
	t.Parallel()

	courses := newCourseRepoStub()
	records := newAttendanceRepoStub(courses)
	service := newCourseServiceForTest(courses, records)

	course, err := service.CreateCourse(context.Background(), CourseInput{
		Name: "  Databases  ",
		Schedule: []persistence.ScheduleSlot{
			{Day: "Monday", StartTime: "10:00", EndTime: "12:00"},
		},
		MinPercentage: floatPtr(80),
	})
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	if course.ID == "" {
		t.Fatal("expected a generated id")
	}
	if course.Name != "Databases" {
		t.Fatalf("expected trimmed name, got %q", course.Name)
	}
	if course.Type != "course" {
		t.Fatalf("expected default type, got %q", course.Type)
	}
	if course.Color != "#4A90E2" {
		t.Fatalf("expected default color, got %q", course.Color)
	}
	if !course.CreatedAt.Equal(fixedNow()) || !course.UpdatedAt.Equal(fixedNow()) {
		t.Fatal("expected clock-driven timestamps")
	}
	if _, ok := courses.courses[course.ID]; !ok {
		t.Fatal("course was not persisted")
	}
}

func TestCourseService_CreateCourse_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CourseInput
		field string
	}{
		{
			name:  "missing name",
			input: CourseInput{Name: "   "},
			field: "name",
		},
		{
			name:  "percentage above 100",
			input: CourseInput{Name: "Math", MinPercentage: floatPtr(120)},
			field: "minAttendancePercentage",
		},
		{
			name:  "negative class minimum",
			input: CourseInput{Name: "Math", MinClasses: intPtr(-1)},
			field: "minAttendanceClasses",
		},
		{
			name:  "negative semester total",
			input: CourseInput{Name: "Math", SemesterTotal: intPtr(-5)},
			field: "totalClassesInSemester",
		},
		{
			name: "unknown weekday in slot",
			input: CourseInput{Name: "Math", Schedule: []persistence.ScheduleSlot{
				{Day: "Funday", StartTime: "10:00", EndTime: "12:00"},
			}},
			field: "schedule[0].day",
		},
		{
			name: "malformed start time",
			input: CourseInput{Name: "Math", Schedule: []persistence.ScheduleSlot{
				{Day: "Monday", StartTime: "25:00", EndTime: "12:00"},
			}},
			field: "schedule[0].startTime",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			courses := newCourseRepoStub()
			service := newCourseServiceForTest(courses, newAttendanceRepoStub(courses))

			_, err := service.CreateCourse(context.Background(), tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tt.field]; !ok {
				t.Fatalf("expected field error for %q, got %v", tt.field, vErr.FieldErrors)
			}
			if len(courses.courses) != 0 {
				t.Fatal("invalid course must not be persisted")
			}
		})
	}
}

func TestCourseService_UpdateCourse(t *testing.T) {
	t.Parallel()

	existing := persistence.Course{
		ID:        "course-1",
		Name:      "Old Name",
		Type:      "lab",
		Color:     "#FFFFFF",
		CreatedAt: fixedNow().Add(-48 * time.Hour),
		UpdatedAt: fixedNow().Add(-48 * time.Hour),
	}
	courses := newCourseRepoStub(existing)
	service := newCourseServiceForTest(courses, newAttendanceRepoStub(courses))

	updated, err := service.UpdateCourse(context.Background(), "course-1", CourseInput{
		Name:       "New Name",
		MinClasses: intPtr(10),
	})
	if err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	if updated.Name != "New Name" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.MinClasses == nil || *updated.MinClasses != 10 {
		t.Fatal("expected updated class minimum")
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatal("creation time must be preserved")
	}
	if !updated.UpdatedAt.Equal(fixedNow()) {
		t.Fatal("expected refreshed update time")
	}
}

func TestCourseService_UpdateCourse_NotFound(t *testing.T) {
	t.Parallel()

	courses := newCourseRepoStub()
	service := newCourseServiceForTest(courses, newAttendanceRepoStub(courses))

	_, err := service.UpdateCourse(context.Background(), "missing", CourseInput{Name: "Math"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseService_DeleteCourse_NotFound(t *testing.T) {
	t.Parallel()

	courses := newCourseRepoStub()
	service := newCourseServiceForTest(courses, newAttendanceRepoStub(courses))

	if err := service.DeleteCourse(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseService_ComputeStatus(t *testing.T) {
	t.Parallel()

	course := persistence.Course{
		ID:            "course-1",
		Name:          "Databases",
		MinPercentage: floatPtr(75),
		SemesterTotal: intPtr(20),
	}
	courses := newCourseRepoStub(course)
	records := newAttendanceRepoStub(courses)
	service := newCourseServiceForTest(courses, records)

	ctx := context.Background()
	for day := 1; day <= 12; day++ {
		status := persistence.AttendanceStatusPresent
		if day > 8 {
			status = persistence.AttendanceStatusAbsent
		}
		record := persistence.AttendanceRecord{
			ID:       "record-" + string(rune('a'+day)),
			CourseID: "course-1",
			Date:     time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
			Status:   status,
		}
		if err := records.CreateRecord(ctx, record); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	got, err := service.ComputeStatus(ctx, "course-1")
	if err != nil {
		t.Fatalf("ComputeStatus failed: %v", err)
	}

	if got.Counters.Total != 12 || got.Counters.Attended != 8 {
		t.Fatalf("unexpected counters: %+v", got.Counters)
	}
	if got.Status.Percentage != 40.0 {
		t.Fatalf("expected semester-total percentage 40.0, got %v", got.Status.Percentage)
	}
	if got.Status.AboveThreshold {
		t.Fatal("8 of 20 must be below a 75%% requirement")
	}
	if got.Status.StillNeeded != 7 {
		t.Fatalf("expected 7 more classes needed, got %d", got.Status.StillNeeded)
	}
}

func TestCourseService_ComputeStatus_UsesCache(t *testing.T) {
	t.Parallel()

	course := persistence.Course{ID: "course-1", Name: "Databases"}
	courses := newCourseRepoStub(course)
	records := newAttendanceRepoStub(courses)
	cache := NewStatusCache(time.Minute)
	service := NewCourseService(courses, records, nil, cache, sequentialIDs("course"), fixedNow, nil)

	ctx := context.Background()
	if _, err := service.ComputeStatus(ctx, "course-1"); err != nil {
		t.Fatalf("ComputeStatus failed: %v", err)
	}
	if _, err := service.ComputeStatus(ctx, "course-1"); err != nil {
		t.Fatalf("ComputeStatus failed: %v", err)
	}
	if records.countCalls != 1 {
		t.Fatalf("expected one repository aggregation, got %d", records.countCalls)
	}

	cache.Invalidate("course-1")
	if _, err := service.ComputeStatus(ctx, "course-1"); err != nil {
		t.Fatalf("ComputeStatus failed: %v", err)
	}
	if records.countCalls != 2 {
		t.Fatalf("expected recomputation after invalidation, got %d calls", records.countCalls)
	}
}

func TestCourseService_ListCourses(t *testing.T) {
	t.Parallel()

	courses := newCourseRepoStub(
		persistence.Course{ID: "course-1", Name: "Databases"},
		persistence.Course{ID: "course-2", Name: "Networks"},
	)
	records := newAttendanceRepoStub(courses)
	service := newCourseServiceForTest(courses, records)

	ctx := context.Background()
	record := persistence.AttendanceRecord{
		ID:       "record-1",
		CourseID: "course-1",
		Date:     time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		Status:   persistence.AttendanceStatusPresent,
	}
	if err := records.CreateRecord(ctx, record); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	overviews, err := service.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("expected 2 overviews, got %d", len(overviews))
	}
	if overviews[0].Counters != (policy.Counters{Total: 1, Attended: 1}) {
		t.Fatalf("unexpected counters for first course: %+v", overviews[0].Counters)
	}
	if overviews[0].Percentage != 100.0 {
		t.Fatalf("expected 100.0 for a fully attended course, got %v", overviews[0].Percentage)
	}
	if overviews[1].Counters != (policy.Counters{}) {
		t.Fatalf("expected zero counters for untouched course, got %+v", overviews[1].Counters)
	}
}
