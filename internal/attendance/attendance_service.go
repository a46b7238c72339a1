package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

// bulk generation bounds
const (
	minBulkCount = 1
	maxBulkCount = 100
)

// AttendanceService orchestrates marking, editing, and bulk-generating
// attendance records.
type AttendanceService struct {
	courses     persistence.CourseRepository
	records     persistence.AttendanceRepository
	statusCache *StatusCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAttendanceService wires dependencies for attendance operations.
func NewAttendanceService(
	courses persistence.CourseRepository,
	records persistence.AttendanceRepository,
	statusCache *StatusCache,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		courses:     courses,
		records:     records,
		statusCache: statusCache,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// MarkAttendance records one class occurrence for a course. Marking the same
// date twice yields ErrDuplicateDate.
func (s *AttendanceService) MarkAttendance(ctx context.Context, input RecordInput) (persistence.AttendanceRecord, error) {
	if s == nil || s.records == nil {
		return persistence.AttendanceRecord{}, fmt.Errorf("attendance repository not configured")
	}

	logger := s.loggerWith(ctx, "MarkAttendance", "course_id", input.CourseID)

	if err := validateRecordInput(input); err != nil {
		logger.ErrorContext(ctx, "record rejected", "error", err, "error_kind", ErrorKind(err))
		return persistence.AttendanceRecord{}, err
	}

	if _, err := s.courses.GetCourse(ctx, input.CourseID); err != nil {
		return persistence.AttendanceRecord{}, mapRepoError(err)
	}

	date := truncateToDate(input.Date)
	if existing, err := s.records.FindByCourseAndDate(ctx, input.CourseID, date); err == nil {
		logger.WarnContext(ctx, "duplicate attendance date", "existing_record_id", existing.ID, "date", date.Format("2006-01-02"))
		return persistence.AttendanceRecord{}, ErrDuplicateDate
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return persistence.AttendanceRecord{}, mapRepoError(err)
	}

	createdAt := s.now()
	record := persistence.AttendanceRecord{
		ID:        s.idGenerator(),
		CourseID:  input.CourseID,
		Date:      date,
		Status:    strings.TrimSpace(strings.ToLower(input.Status)),
		Notes:     input.Notes,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.records.CreateRecord(ctx, record); err != nil {
		logger.ErrorContext(ctx, "record creation failed", "error", err, "error_kind", ErrorKind(mapRepoError(err)))
		return persistence.AttendanceRecord{}, mapRepoError(err)
	}

	s.statusCache.Invalidate(input.CourseID)
	logger.InfoContext(ctx, "attendance marked", "record_id", record.ID, "status", record.Status)
	return record, nil
}

// UpdateRecord applies status and notes changes to an existing record.
func (s *AttendanceService) UpdateRecord(ctx context.Context, recordID string, update RecordUpdate) (persistence.AttendanceRecord, error) {
	logger := s.loggerWith(ctx, "UpdateRecord", "record_id", recordID)

	record, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return persistence.AttendanceRecord{}, mapRepoError(err)
	}

	if update.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*update.Status))
		if status != persistence.AttendanceStatusPresent && status != persistence.AttendanceStatusAbsent {
			vErr := &ValidationError{}
			vErr.add("status", "must be present or absent")
			return persistence.AttendanceRecord{}, vErr
		}
		record.Status = status
	}
	if update.Notes != nil {
		record.Notes = *update.Notes
	}
	record.UpdatedAt = s.now()

	if err := s.records.UpdateRecord(ctx, record); err != nil {
		return persistence.AttendanceRecord{}, mapRepoError(err)
	}

	s.statusCache.Invalidate(record.CourseID)
	logger.InfoContext(ctx, "record updated", "status", record.Status)
	return record, nil
}

// DeleteRecord removes one record.
func (s *AttendanceService) DeleteRecord(ctx context.Context, recordID string) error {
	logger := s.loggerWith(ctx, "DeleteRecord", "record_id", recordID)

	record, err := s.records.GetRecord(ctx, recordID)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.records.DeleteRecord(ctx, recordID); err != nil {
		return mapRepoError(err)
	}

	s.statusCache.Invalidate(record.CourseID)
	logger.InfoContext(ctx, "record deleted")
	return nil
}

// ListForCourse returns a course's records, newest first.
func (s *AttendanceService) ListForCourse(ctx context.Context, courseID string) ([]persistence.AttendanceRecord, error) {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return nil, mapRepoError(err)
	}
	return s.records.ListRecordsForCourse(ctx, courseID)
}

// ListAbsences returns every absence across courses, newest first, joined
// with course display fields.
func (s *AttendanceService) ListAbsences(ctx context.Context) ([]persistence.AbsenceWithCourse, error) {
	return s.records.ListAbsences(ctx)
}

// GenerateBulkDates produces count dates spaced exactly seven days apart,
// ending at the anchor date.
func GenerateBulkDates(count int, anchor time.Time) ([]time.Time, error) {
	if count < minBulkCount || count > maxBulkCount {
		vErr := &ValidationError{}
		vErr.add("numberOfClasses", fmt.Sprintf("must be between %d and %d", minBulkCount, maxBulkCount))
		return nil, vErr
	}

	anchor = truncateToDate(anchor)
	dates := make([]time.Time, 0, count)
	for i := count - 1; i >= 0; i-- {
		dates = append(dates, anchor.AddDate(0, 0, -7*i))
	}
	return dates, nil
}

// BulkMark generates weekly-spaced present marks ending at the anchor date
// and inserts them, skipping dates the course already has records for.
func (s *AttendanceService) BulkMark(ctx context.Context, input BulkInput) (persistence.BulkCreateResult, error) {
	logger := s.loggerWith(ctx, "BulkMark", "course_id", input.CourseID, "count", input.Count)

	if _, err := s.courses.GetCourse(ctx, input.CourseID); err != nil {
		return persistence.BulkCreateResult{}, mapRepoError(err)
	}

	anchor := input.Anchor
	if anchor.IsZero() {
		anchor = s.now()
	}

	dates, err := GenerateBulkDates(input.Count, anchor)
	if err != nil {
		logger.ErrorContext(ctx, "bulk generation rejected", "error", err, "error_kind", ErrorKind(err))
		return persistence.BulkCreateResult{}, err
	}

	createdAt := s.now()
	records := make([]persistence.AttendanceRecord, 0, len(dates))
	for _, date := range dates {
		records = append(records, persistence.AttendanceRecord{
			ID:        s.idGenerator(),
			CourseID:  input.CourseID,
			Date:      date,
			Status:    persistence.AttendanceStatusPresent,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}

	result, err := s.records.BulkCreateRecords(ctx, records)
	if err != nil {
		return persistence.BulkCreateResult{}, err
	}

	s.statusCache.Invalidate(input.CourseID)
	logger.InfoContext(ctx, "bulk attendance added", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func validateRecordInput(input RecordInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.CourseID) == "" {
		vErr.add("courseId", "course id is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	status := strings.TrimSpace(strings.ToLower(input.Status))
	if status != persistence.AttendanceStatusPresent && status != persistence.AttendanceStatusAbsent {
		vErr.add("status", "must be present or absent")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
