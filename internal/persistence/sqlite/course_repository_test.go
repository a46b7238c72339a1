package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

func TestCourseRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	course := testCourse("course-1", createdAt)

	if err := repo.CreateCourse(ctx, course); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	stored, err := repo.GetCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if stored.Name != course.Name {
		t.Fatalf("expected name %q, got %q", course.Name, stored.Name)
	}
	if stored.MinPercentage == nil || *stored.MinPercentage != 75.0 {
		t.Fatalf("expected minimum percentage 75, got %v", stored.MinPercentage)
	}
	if stored.MinClasses != nil {
		t.Fatalf("expected no minimum class count, got %v", *stored.MinClasses)
	}
	if len(stored.Schedule) != 2 {
		t.Fatalf("expected 2 schedule slots, got %d", len(stored.Schedule))
	}
	if stored.Schedule[0].Day != "Monday" || stored.Schedule[1].Day != "Thursday" {
		t.Fatalf("slot order not preserved: %+v", stored.Schedule)
	}
}

func TestCourseRepository_GetMissing(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewCourseRepository(db)

	if _, err := repo.GetCourse(context.Background(), "absent"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseRepository_Update(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	course := testCourse("course-1", createdAt)
	if err := repo.CreateCourse(ctx, course); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}

	course.Name = "Algorithms"
	course.Schedule = []persistence.ScheduleSlot{{Day: "Friday", StartTime: "14:00", EndTime: "16:00"}}
	course.MinPercentage = nil
	minClasses := 10
	course.MinClasses = &minClasses
	course.UpdatedAt = createdAt.Add(time.Hour)

	if err := repo.UpdateCourse(ctx, course); err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}

	stored, err := repo.GetCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if stored.Name != "Algorithms" {
		t.Fatalf("expected updated name, got %q", stored.Name)
	}
	if stored.MinPercentage != nil {
		t.Fatalf("expected cleared percentage, got %v", *stored.MinPercentage)
	}
	if stored.MinClasses == nil || *stored.MinClasses != 10 {
		t.Fatalf("expected minimum class count 10, got %v", stored.MinClasses)
	}
	if len(stored.Schedule) != 1 || stored.Schedule[0].Day != "Friday" {
		t.Fatalf("expected replaced schedule, got %+v", stored.Schedule)
	}

	course.ID = "missing"
	if err := repo.UpdateCourse(ctx, course); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseRepository_List(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	base := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"course-1", "course-2", "course-3"} {
		course := testCourse(id, base.Add(time.Duration(i)*time.Hour))
		if err := repo.CreateCourse(ctx, course); err != nil {
			t.Fatalf("CreateCourse(%s) failed: %v", id, err)
		}
	}

	courses, err := repo.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(courses))
	}
	if courses[0].ID != "course-1" || courses[2].ID != "course-3" {
		t.Fatalf("expected creation order, got %s..%s", courses[0].ID, courses[2].ID)
	}
	for _, course := range courses {
		if len(course.Schedule) != 2 {
			t.Fatalf("expected slots attached to %s, got %d", course.ID, len(course.Schedule))
		}
	}
}

func TestCourseRepository_DeleteCascades(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	courses := NewCourseRepository(db)
	records := NewAttendanceRepository(db)
	ctx := context.Background()

	createdAt := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	if err := courses.CreateCourse(ctx, testCourse("course-1", createdAt)); err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	date := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	if err := records.CreateRecord(ctx, testRecord("rec-1", "course-1", date, persistence.AttendanceStatusPresent)); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if err := courses.DeleteCourse(ctx, "course-1"); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}

	if _, err := records.GetRecord(ctx, "rec-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected cascade delete of attendance records, got %v", err)
	}
	if err := courses.DeleteCourse(ctx, "course-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
