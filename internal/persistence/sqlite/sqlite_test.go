package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}

func testCourse(id string, createdAt time.Time) persistence.Course {
	minPercentage := 75.0
	semesterTotal := 14
	return persistence.Course{
		ID:    id,
		Name:  "Data Structures",
		Type:  "course",
		Color: "#4A90E2",
		Schedule: []persistence.ScheduleSlot{
			{Day: "Monday", StartTime: "10:00", EndTime: "12:00"},
			{Day: "Thursday", StartTime: "08:00", EndTime: "10:00"},
		},
		MinPercentage: &minPercentage,
		SemesterTotal: &semesterTotal,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func testRecord(id, courseID string, date time.Time, status string) persistence.AttendanceRecord {
	return persistence.AttendanceRecord{
		ID:        id,
		CourseID:  courseID,
		Date:      date,
		Status:    status,
		CreatedAt: date,
		UpdatedAt: date,
	}
}
