package persistence

import "time"

// Course represents a stored course with its schedule and attendance policy.
type Course struct {
	ID            string
	Name          string
	Type          string
	Color         string
	Schedule      []ScheduleSlot
	MinPercentage *float64
	MinClasses    *int
	SemesterTotal *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ScheduleSlot is one weekly meeting of a course. Day and the times are kept
// in their wire form; the timetable package validates them on use.
type ScheduleSlot struct {
	Day       string
	StartTime string
	EndTime   string
}

// AttendanceRecord is one marked class occurrence. Date carries no time
// component.
type AttendanceRecord struct {
	ID        string
	CourseID  string
	Date      time.Time
	Status    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// The two record states.
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
)

// AttendanceCounters aggregates a course's records.
type AttendanceCounters struct {
	Total    int
	Attended int
}

// AbsenceWithCourse is an absence record joined with display fields of its
// owning course.
type AbsenceWithCourse struct {
	Record      AttendanceRecord
	CourseName  string
	CourseColor string
}

// BulkCreateResult reports the outcome of an idempotent bulk insert.
type BulkCreateResult struct {
	Created int
	Skipped int
}
