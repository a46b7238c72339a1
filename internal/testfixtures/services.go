package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/attendance-tracker/internal/attendance"
	"github.com/example/attendance-tracker/internal/notify"
	"github.com/example/attendance-tracker/internal/persistence"
	"github.com/example/attendance-tracker/internal/policy"
)

// ServiceFactory assists tests with constructing attendance services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// CourseServiceDeps captures dependencies for constructing a course service.
type CourseServiceDeps struct {
	Courses     persistence.CourseRepository
	Records     persistence.AttendanceRepository
	Evaluator   *policy.Evaluator
	StatusCache *attendance.StatusCache
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCourseService builds a course service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewCourseService(deps CourseServiceDeps) *attendance.CourseService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return attendance.NewCourseService(
		deps.Courses,
		deps.Records,
		deps.Evaluator,
		deps.StatusCache,
		idGen,
		now,
		deps.Logger,
	)
}

// AttendanceServiceDeps captures dependencies for constructing an attendance
// service.
type AttendanceServiceDeps struct {
	Courses     persistence.CourseRepository
	Records     persistence.AttendanceRepository
	StatusCache *attendance.StatusCache
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewAttendanceService builds an attendance service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewAttendanceService(deps AttendanceServiceDeps) *attendance.AttendanceService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return attendance.NewAttendanceService(
		deps.Courses,
		deps.Records,
		deps.StatusCache,
		idGen,
		now,
		deps.Logger,
	)
}

// ReminderPlannerDeps captures dependencies for constructing a reminder
// planner.
type ReminderPlannerDeps struct {
	Courses    *attendance.CourseService
	Dispatcher notify.Dispatcher
	Now        func() time.Time
	Logger     *slog.Logger
}

// NewReminderPlanner builds a reminder planner using the supplied dependencies
// combined with the factory defaults. When no dispatcher is provided, an
// in-memory registry is used.
func (f *ServiceFactory) NewReminderPlanner(deps ReminderPlannerDeps) *attendance.ReminderPlanner {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = notify.NewRegistry(deps.Logger)
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return attendance.NewReminderPlanner(deps.Courses, dispatcher, now, deps.Logger)
}
