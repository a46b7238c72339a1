package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/policy"
	"github.com/example/attendance-tracker/internal/timetable"
)

const (
	defaultCourseType  = "course"
	defaultCourseColor = "#4A90E2"
)

// CourseService orchestrates validation, persistence, and status evaluation
// for courses.
type CourseService struct {
	courses     persistence.CourseRepository
	records     persistence.AttendanceRepository
	evaluator   *policy.Evaluator
	statusCache *StatusCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCourseService wires dependencies for course operations.
func NewCourseService(
	courses persistence.CourseRepository,
	records persistence.AttendanceRepository,
	evaluator *policy.Evaluator,
	statusCache *StatusCache,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *CourseService {
	if evaluator == nil {
		evaluator = policy.NewEvaluator(policy.DefaultMinPercentage)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CourseService{
		courses:     courses,
		records:     records,
		evaluator:   evaluator,
		statusCache: statusCache,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CourseService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CourseService", operation, attrs...)
}

// CreateCourse validates the input and persists a new course.
func (s *CourseService) CreateCourse(ctx context.Context, input CourseInput) (persistence.Course, error) {
	if s == nil || s.courses == nil {
		return persistence.Course{}, fmt.Errorf("course repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateCourse", "name", input.Name)

	if err := validateCourseInput(input); err != nil {
		logger.ErrorContext(ctx, "course rejected", "error", err, "error_kind", ErrorKind(err))
		return persistence.Course{}, err
	}

	createdAt := s.now()
	course := persistence.Course{
		ID:            s.idGenerator(),
		Name:          strings.TrimSpace(input.Name),
		Type:          normalizeCourseType(input.Type),
		Color:         normalizeCourseColor(input.Color),
		Schedule:      input.Schedule,
		MinPercentage: input.MinPercentage,
		MinClasses:    input.MinClasses,
		SemesterTotal: input.SemesterTotal,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	if err := s.courses.CreateCourse(ctx, course); err != nil {
		logger.ErrorContext(ctx, "course creation failed", "error", err)
		return persistence.Course{}, err
	}

	logger.InfoContext(ctx, "course created", "course_id", course.ID)
	return course, nil
}

// UpdateCourse validates and applies new writable fields to an existing
// course.
func (s *CourseService) UpdateCourse(ctx context.Context, courseID string, input CourseInput) (persistence.Course, error) {
	if s == nil || s.courses == nil {
		return persistence.Course{}, fmt.Errorf("course repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateCourse", "course_id", courseID)

	if err := validateCourseInput(input); err != nil {
		logger.ErrorContext(ctx, "course rejected", "error", err, "error_kind", ErrorKind(err))
		return persistence.Course{}, err
	}

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return persistence.Course{}, mapRepoError(err)
	}

	course.Name = strings.TrimSpace(input.Name)
	course.Type = normalizeCourseType(input.Type)
	course.Color = normalizeCourseColor(input.Color)
	course.Schedule = input.Schedule
	course.MinPercentage = input.MinPercentage
	course.MinClasses = input.MinClasses
	course.SemesterTotal = input.SemesterTotal
	course.UpdatedAt = s.now()

	if err := s.courses.UpdateCourse(ctx, course); err != nil {
		logger.ErrorContext(ctx, "course update failed", "error", err)
		return persistence.Course{}, mapRepoError(err)
	}

	s.statusCache.Invalidate(courseID)
	logger.InfoContext(ctx, "course updated")
	return course, nil
}

// GetCourse retrieves one course.
func (s *CourseService) GetCourse(ctx context.Context, courseID string) (persistence.Course, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return persistence.Course{}, mapRepoError(err)
	}
	return course, nil
}

// ListCourses returns all courses enriched with derived counters and the
// current attendance percentage.
func (s *CourseService) ListCourses(ctx context.Context) ([]CourseOverview, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]CourseOverview, 0, len(courses))
	for _, course := range courses {
		status, err := s.ComputeStatus(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("compute status for course %s: %w", course.ID, err)
		}
		overviews = append(overviews, CourseOverview{
			Course:     course,
			Counters:   status.Counters,
			Percentage: status.Status.Percentage,
		})
	}
	return overviews, nil
}

// DeleteCourse removes a course; its records cascade in persistence.
func (s *CourseService) DeleteCourse(ctx context.Context, courseID string) error {
	logger := s.loggerWith(ctx, "DeleteCourse", "course_id", courseID)

	if err := s.courses.DeleteCourse(ctx, courseID); err != nil {
		return mapRepoError(err)
	}

	s.statusCache.Invalidate(courseID)
	logger.InfoContext(ctx, "course deleted")
	return nil
}

// ComputeStatus aggregates the course's records into counters and evaluates
// its attendance policy. Results are cached briefly; any write to the course
// or its records invalidates the entry.
func (s *CourseService) ComputeStatus(ctx context.Context, courseID string) (CourseStatus, error) {
	if cached, ok := s.statusCache.Get(courseID); ok {
		return cached, nil
	}

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return CourseStatus{}, mapRepoError(err)
	}

	counters, err := s.records.CountForCourse(ctx, courseID)
	if err != nil {
		return CourseStatus{}, err
	}

	status, err := s.evaluator.Evaluate(coursePolicy(course), policy.Counters(counters))
	if err != nil {
		return CourseStatus{}, err
	}

	result := CourseStatus{
		CourseID: courseID,
		Counters: policy.Counters(counters),
		Status:   status,
	}
	s.statusCache.Put(result)
	return result, nil
}

// coursePolicy extracts the policy fields of a stored course.
func coursePolicy(course persistence.Course) policy.Policy {
	return policy.Policy{
		MinPercentage: course.MinPercentage,
		MinClasses:    course.MinClasses,
		SemesterTotal: course.SemesterTotal,
	}
}

func validateCourseInput(input CourseInput) error {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.MinPercentage != nil && (*input.MinPercentage < 0 || *input.MinPercentage > 100) {
		vErr.add("minAttendancePercentage", "must be between 0 and 100")
	}
	if input.MinClasses != nil && *input.MinClasses < 0 {
		vErr.add("minAttendanceClasses", "must not be negative")
	}
	if input.SemesterTotal != nil && *input.SemesterTotal < 0 {
		vErr.add("totalClassesInSemester", "must not be negative")
	}

	for i, slot := range input.Schedule {
		if _, err := timetable.ParseWeekday(slot.Day); err != nil {
			vErr.add(fmt.Sprintf("schedule[%d].day", i), "unknown weekday")
		}
		if _, err := timetable.ParseTimeOfDay(slot.StartTime); err != nil {
			vErr.add(fmt.Sprintf("schedule[%d].startTime", i), "must be HH:MM")
		}
		if _, err := timetable.ParseTimeOfDay(slot.EndTime); err != nil {
			vErr.add(fmt.Sprintf("schedule[%d].endTime", i), "must be HH:MM")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func normalizeCourseType(courseType string) string {
	courseType = strings.TrimSpace(strings.ToLower(courseType))
	if courseType == "" {
		return defaultCourseType
	}
	return courseType
}

func normalizeCourseColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" {
		return defaultCourseColor
	}
	return color
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicateDate):
		return ErrDuplicateDate
	default:
		return err
	}
}
