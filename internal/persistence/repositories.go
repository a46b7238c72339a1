package persistence

import (
	"context"
	"time"
)

// CourseRepository exposes CRUD operations for courses.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course) error
	UpdateCourse(ctx context.Context, course Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	// DeleteCourse removes the course and cascades to its attendance
	// records.
	DeleteCourse(ctx context.Context, id string) error
}

// AttendanceRepository stores attendance records scoped by course.
type AttendanceRepository interface {
	CreateRecord(ctx context.Context, record AttendanceRecord) error
	UpdateRecord(ctx context.Context, record AttendanceRecord) error
	GetRecord(ctx context.Context, id string) (AttendanceRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	// ListRecordsForCourse returns a course's records ordered by date
	// descending.
	ListRecordsForCourse(ctx context.Context, courseID string) ([]AttendanceRecord, error)
	// ListAbsences returns all absent records across courses, newest first,
	// joined with course display fields.
	ListAbsences(ctx context.Context) ([]AbsenceWithCourse, error)
	// CountForCourse aggregates the course's records into counters.
	CountForCourse(ctx context.Context, courseID string) (AttendanceCounters, error)
	// BulkCreateRecords inserts the supplied records, skipping any whose
	// (course, date) pair already exists.
	BulkCreateRecords(ctx context.Context, records []AttendanceRecord) (BulkCreateResult, error)
	// FindByCourseAndDate reports an existing record for the pair, if any.
	FindByCourseAndDate(ctx context.Context, courseID string, date time.Time) (AttendanceRecord, error)
}
