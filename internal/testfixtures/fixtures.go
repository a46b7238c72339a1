package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/attendance-tracker/internal/attendance"
	"github.com/example/attendance-tracker/internal/persistence"
)

var (
	courseCounter uint64
	recordCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Course fixtures ----------------------------

// CourseFixture represents a deterministic course record that can be
// materialised for service or persistence tests.
type CourseFixture struct {
	ID            string
	Name          string
	Type          string
	Color         string
	Schedule      []persistence.ScheduleSlot
	MinPercentage *float64
	MinClasses    *int
	SemesterTotal *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CourseOption configures the generated course fixture.
type CourseOption func(*CourseFixture)

// NewCourseFixture returns a deterministic course fixture with optional overrides.
func NewCourseFixture(opts ...CourseOption) CourseFixture {
	idx := atomic.AddUint64(&courseCounter, 1)
	id := fmt.Sprintf("course-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := CourseFixture{
		ID:        id,
		Name:      fmt.Sprintf("Course %03d", idx),
		Type:      "course",
		Color:     "#4A90E2",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCourseID overrides the generated course ID.
func WithCourseID(id string) CourseOption {
	return func(f *CourseFixture) {
		f.ID = id
	}
}

// WithCourseName overrides the generated course name.
func WithCourseName(name string) CourseOption {
	return func(f *CourseFixture) {
		f.Name = name
	}
}

// WithCourseType overrides the course type.
func WithCourseType(courseType string) CourseOption {
	return func(f *CourseFixture) {
		f.Type = courseType
	}
}

// WithCourseColor overrides the display color.
func WithCourseColor(color string) CourseOption {
	return func(f *CourseFixture) {
		f.Color = color
	}
}

// WithCourseSchedule sets the weekly schedule slots.
func WithCourseSchedule(slots ...persistence.ScheduleSlot) CourseOption {
	return func(f *CourseFixture) {
		f.Schedule = append([]persistence.ScheduleSlot(nil), slots...)
	}
}

// WithCourseMinPercentage sets the minimum attendance percentage requirement.
func WithCourseMinPercentage(percent float64) CourseOption {
	return func(f *CourseFixture) {
		value := percent
		f.MinPercentage = &value
	}
}

// WithCourseMinClasses sets the minimum attended classes requirement.
func WithCourseMinClasses(classes int) CourseOption {
	return func(f *CourseFixture) {
		value := classes
		f.MinClasses = &value
	}
}

// WithCourseSemesterTotal sets the planned number of classes in the semester.
func WithCourseSemesterTotal(total int) CourseOption {
	return func(f *CourseFixture) {
		value := total
		f.SemesterTotal = &value
	}
}

// WithoutCoursePolicy clears every policy field on the fixture.
func WithoutCoursePolicy() CourseOption {
	return func(f *CourseFixture) {
		f.MinPercentage = nil
		f.MinClasses = nil
		f.SemesterTotal = nil
	}
}

// WithCourseCreatedAt sets the created timestamp on the fixture.
func WithCourseCreatedAt(t time.Time) CourseOption {
	return func(f *CourseFixture) {
		f.CreatedAt = t
	}
}

// WithCourseTimestamps sets both created and updated timestamps.
func WithCourseTimestamps(created, updated time.Time) CourseOption {
	return func(f *CourseFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Persistence returns the fixture as a persistence.Course value.
func (f CourseFixture) Persistence() persistence.Course {
	return persistence.Course{
		ID:            f.ID,
		Name:          f.Name,
		Type:          f.Type,
		Color:         f.Color,
		Schedule:      append([]persistence.ScheduleSlot(nil), f.Schedule...),
		MinPercentage: copyFloatPtr(f.MinPercentage),
		MinClasses:    copyIntPtr(f.MinClasses),
		SemesterTotal: copyIntPtr(f.SemesterTotal),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Input returns the fixture as an attendance.CourseInput.
func (f CourseFixture) Input() attendance.CourseInput {
	return attendance.CourseInput{
		Name:          f.Name,
		Type:          f.Type,
		Color:         f.Color,
		Schedule:      append([]persistence.ScheduleSlot(nil), f.Schedule...),
		MinPercentage: copyFloatPtr(f.MinPercentage),
		MinClasses:    copyIntPtr(f.MinClasses),
		SemesterTotal: copyIntPtr(f.SemesterTotal),
	}
}

// ----------------------------- Record fixtures ----------------------------

// RecordFixture represents a deterministic attendance record.
type RecordFixture struct {
	ID        string
	CourseID  string
	Date      time.Time
	Status    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordOption configures the generated record fixture.
type RecordOption func(*RecordFixture)

// NewRecordFixture returns a deterministic attendance record fixture with
// optional overrides. Successive fixtures land on successive days so they
// never collide on a course's unique date.
func NewRecordFixture(opts ...RecordOption) RecordFixture {
	idx := atomic.AddUint64(&recordCounter, 1)
	id := fmt.Sprintf("record-%03d", idx)
	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx))
	fixture := RecordFixture{
		ID:        id,
		CourseID:  "course-001",
		Date:      date,
		Status:    persistence.AttendanceStatusPresent,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRecordID overrides the generated record ID.
func WithRecordID(id string) RecordOption {
	return func(f *RecordFixture) {
		f.ID = id
	}
}

// WithRecordCourseID sets the owning course.
func WithRecordCourseID(courseID string) RecordOption {
	return func(f *RecordFixture) {
		f.CourseID = courseID
	}
}

// WithRecordDate sets the class date.
func WithRecordDate(date time.Time) RecordOption {
	return func(f *RecordFixture) {
		f.Date = date
	}
}

// WithRecordStatus sets the attendance status.
func WithRecordStatus(status string) RecordOption {
	return func(f *RecordFixture) {
		f.Status = status
	}
}

// WithRecordAbsent marks the fixture as an absence.
func WithRecordAbsent() RecordOption {
	return func(f *RecordFixture) {
		f.Status = persistence.AttendanceStatusAbsent
	}
}

// WithRecordNotes sets the free-form notes.
func WithRecordNotes(notes string) RecordOption {
	return func(f *RecordFixture) {
		f.Notes = notes
	}
}

// WithRecordTimestamps sets both created and updated timestamps.
func WithRecordTimestamps(created, updated time.Time) RecordOption {
	return func(f *RecordFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Persistence returns the fixture as a persistence.AttendanceRecord value.
func (f RecordFixture) Persistence() persistence.AttendanceRecord {
	return persistence.AttendanceRecord{
		ID:        f.ID,
		CourseID:  f.CourseID,
		Date:      f.Date,
		Status:    f.Status,
		Notes:     f.Notes,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an attendance.RecordInput.
func (f RecordFixture) Input() attendance.RecordInput {
	return attendance.RecordInput{
		CourseID: f.CourseID,
		Date:     f.Date,
		Status:   f.Status,
		Notes:    f.Notes,
	}
}

func copyFloatPtr(src *float64) *float64 {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
