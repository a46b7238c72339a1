package testfixtures

import (
	"context"
	"testing"

	"github.com/example/attendance-tracker/internal/persistence"
)

type capturingCourseRepo struct {
	created persistence.Course
}

func (c *capturingCourseRepo) CreateCourse(ctx context.Context, course persistence.Course) error {
	c.created = course
	return nil
}

func (c *capturingCourseRepo) UpdateCourse(ctx context.Context, course persistence.Course) error {
	return nil
}

func (c *capturingCourseRepo) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	return persistence.Course{}, persistence.ErrNotFound
}

func (c *capturingCourseRepo) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	return nil, nil
}

func (c *capturingCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	return nil
}

func TestServiceFactoryNewCourseService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingCourseRepo{}

	svc := factory.NewCourseService(CourseServiceDeps{Courses: repo})
	fixture := NewCourseFixture(WithCourseName("Databases"))

	course, err := svc.CreateCourse(context.Background(), fixture.Input())
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	if course.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", course.ID)
	}
	if repo.created.ID != course.ID {
		t.Fatalf("repository received unexpected ID: %q", repo.created.ID)
	}
	if !course.CreatedAt.Equal(factory.Clock.Current()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Current(), course.CreatedAt)
	}
}

func TestSQLiteHarnessRoundTrip(t *testing.T) {
	harness := NewSQLiteHarness(t)
	ctx := context.Background()

	course := NewCourseFixture(WithCourseMinPercentage(80)).Persistence()
	if err := harness.Courses.CreateCourse(ctx, course); err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	record := NewRecordFixture(WithRecordCourseID(course.ID)).Persistence()
	if err := harness.Records.CreateRecord(ctx, record); err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	counters, err := harness.Records.CountForCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("CountForCourse returned error: %v", err)
	}
	if counters.Total != 1 || counters.Attended != 1 {
		t.Fatalf("unexpected counters: %+v", counters)
	}
}
