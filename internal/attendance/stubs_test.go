package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

type courseRepoStub struct {
	courses map[string]persistence.Course
	err     error
}

func newCourseRepoStub(courses ...persistence.Course) *courseRepoStub {
	stub := &courseRepoStub{courses: make(map[string]persistence.Course)}
	for _, course := range courses {
		stub.courses[course.ID] = course
	}
	return stub
}

func (s *courseRepoStub) CreateCourse(_ context.Context, course persistence.Course) error {
	if s.err != nil {
		return s.err
	}
	s.courses[course.ID] = course
	return nil
}

func (s *courseRepoStub) UpdateCourse(_ context.Context, course persistence.Course) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.courses[course.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.courses[course.ID] = course
	return nil
}

func (s *courseRepoStub) GetCourse(_ context.Context, id string) (persistence.Course, error) {
	if s.err != nil {
		return persistence.Course{}, s.err
	}
	course, ok := s.courses[id]
	if !ok {
		return persistence.Course{}, persistence.ErrNotFound
	}
	return course, nil
}

func (s *courseRepoStub) ListCourses(_ context.Context) ([]persistence.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	courses := make([]persistence.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *courseRepoStub) DeleteCourse(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.courses[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

type attendanceRepoStub struct {
	records map[string]persistence.AttendanceRecord
	courses *courseRepoStub
	err     error

	countCalls  int
	createCalls int
}

func newAttendanceRepoStub(courses *courseRepoStub) *attendanceRepoStub {
	return &attendanceRepoStub{
		records: make(map[string]persistence.AttendanceRecord),
		courses: courses,
	}
}

func (s *attendanceRepoStub) CreateRecord(_ context.Context, record persistence.AttendanceRecord) error {
	if s.err != nil {
		return s.err
	}
	s.createCalls++
	for _, existing := range s.records {
		if existing.CourseID == record.CourseID && existing.Date.Equal(record.Date) {
			return persistence.ErrDuplicateDate
		}
	}
	s.records[record.ID] = record
	return nil
}

func (s *attendanceRepoStub) UpdateRecord(_ context.Context, record persistence.AttendanceRecord) error {
	if _, ok := s.records[record.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.records[record.ID] = record
	return nil
}

func (s *attendanceRepoStub) GetRecord(_ context.Context, id string) (persistence.AttendanceRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *attendanceRepoStub) DeleteRecord(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *attendanceRepoStub) ListRecordsForCourse(_ context.Context, courseID string) ([]persistence.AttendanceRecord, error) {
	records := make([]persistence.AttendanceRecord, 0)
	for _, record := range s.records {
		if record.CourseID == courseID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (s *attendanceRepoStub) ListAbsences(_ context.Context) ([]persistence.AbsenceWithCourse, error) {
	absences := make([]persistence.AbsenceWithCourse, 0)
	for _, record := range s.records {
		if record.Status != persistence.AttendanceStatusAbsent {
			continue
		}
		absence := persistence.AbsenceWithCourse{Record: record}
		if s.courses != nil {
			if course, ok := s.courses.courses[record.CourseID]; ok {
				absence.CourseName = course.Name
				absence.CourseColor = course.Color
			}
		}
		absences = append(absences, absence)
	}
	sort.Slice(absences, func(i, j int) bool { return absences[i].Record.Date.After(absences[j].Record.Date) })
	return absences, nil
}

func (s *attendanceRepoStub) CountForCourse(_ context.Context, courseID string) (persistence.AttendanceCounters, error) {
	if s.err != nil {
		return persistence.AttendanceCounters{}, s.err
	}
	s.countCalls++
	var counters persistence.AttendanceCounters
	for _, record := range s.records {
		if record.CourseID != courseID {
			continue
		}
		counters.Total++
		if record.Status == persistence.AttendanceStatusPresent {
			counters.Attended++
		}
	}
	return counters, nil
}

func (s *attendanceRepoStub) BulkCreateRecords(ctx context.Context, records []persistence.AttendanceRecord) (persistence.BulkCreateResult, error) {
	var result persistence.BulkCreateResult
	for _, record := range records {
		switch err := s.CreateRecord(ctx, record); {
		case err == nil:
			result.Created++
		case err == persistence.ErrDuplicateDate:
			result.Skipped++
		default:
			return persistence.BulkCreateResult{}, err
		}
	}
	return result, nil
}

func (s *attendanceRepoStub) FindByCourseAndDate(_ context.Context, courseID string, date time.Time) (persistence.AttendanceRecord, error) {
	for _, record := range s.records {
		if record.CourseID == courseID && record.Date.Equal(date) {
			return record, nil
		}
	}
	return persistence.AttendanceRecord{}, persistence.ErrNotFound
}
