package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

// CourseRepository implements persistence.CourseRepository using SQLite.
type CourseRepository struct {
	db *DB
}

// NewCourseRepository wraps the shared database handle.
func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a course together with its schedule slots.
func (r *CourseRepository) CreateCourse(ctx context.Context, course persistence.Course) error {
	if course.ID == "" {
		return fmt.Errorf("sqlite: course id is required")
	}

	return r.db.withTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO courses (id, name, type, color, min_percentage, min_classes, semester_total, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			course.ID,
			course.Name,
			course.Type,
			course.Color,
			nullFloat(course.MinPercentage),
			nullInt(course.MinClasses),
			nullInt(course.SemesterTotal),
			course.CreatedAt.UTC().Format(time.RFC3339),
			course.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert course: %w", err)
		}
		return insertSlots(ctx, tx, course.ID, course.Schedule)
	})
}

// UpdateCourse replaces the course row and its schedule slots.
func (r *CourseRepository) UpdateCourse(ctx context.Context, course persistence.Course) error {
	return r.db.withTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE courses
			SET name = ?, type = ?, color = ?, min_percentage = ?, min_classes = ?, semester_total = ?, updated_at = ?
			WHERE id = ?
		`,
			course.Name,
			course.Type,
			course.Color,
			nullFloat(course.MinPercentage),
			nullInt(course.MinClasses),
			nullInt(course.SemesterTotal),
			course.UpdatedAt.UTC().Format(time.RFC3339),
			course.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: update course: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: update course: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_slots WHERE course_id = ?`, course.ID); err != nil {
			return fmt.Errorf("sqlite: clear schedule slots: %w", err)
		}
		return insertSlots(ctx, tx, course.ID, course.Schedule)
	})
}

// GetCourse retrieves one course with its schedule slots.
func (r *CourseRepository) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, name, type, color, min_percentage, min_classes, semester_total, created_at, updated_at
		FROM courses
		WHERE id = ?
	`, id)

	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Course{}, persistence.ErrNotFound
		}
		return persistence.Course{}, err
	}

	slots, err := r.slotsForCourses(ctx, id)
	if err != nil {
		return persistence.Course{}, err
	}
	course.Schedule = slots[id]
	return course, nil
}

// ListCourses returns all courses ordered by creation time ascending.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, name, type, color, min_percentage, min_classes, semester_total, created_at, updated_at
		FROM courses
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]persistence.Course, 0)
	ids := make([]string, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
		ids = append(ids, course.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list courses: %w", err)
	}

	slots, err := r.slotsForCourses(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Schedule = slots[courses[i].ID]
	}
	return courses, nil
}

// DeleteCourse removes the course; schedule slots and attendance records
// cascade via foreign keys.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete course: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, courseID string, slots []persistence.ScheduleSlot) error {
	for position, slot := range slots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_slots (course_id, position, day, start_time, end_time)
			VALUES (?, ?, ?, ?, ?)
		`, courseID, position, slot.Day, slot.StartTime, slot.EndTime)
		if err != nil {
			return fmt.Errorf("sqlite: insert schedule slot %d: %w", position, err)
		}
	}
	return nil
}

func (r *CourseRepository) slotsForCourses(ctx context.Context, ids ...string) (map[string][]persistence.ScheduleSlot, error) {
	result := make(map[string][]persistence.ScheduleSlot, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]byte, 0, 2*len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}

	rows, err := r.db.db.QueryContext(ctx, `
		SELECT course_id, day, start_time, end_time
		FROM schedule_slots
		WHERE course_id IN (`+string(placeholders)+`)
		ORDER BY course_id, position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list schedule slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID string
		var slot persistence.ScheduleSlot
		if err := rows.Scan(&courseID, &slot.Day, &slot.StartTime, &slot.EndTime); err != nil {
			return nil, fmt.Errorf("sqlite: scan schedule slot: %w", err)
		}
		result[courseID] = append(result[courseID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list schedule slots: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (persistence.Course, error) {
	var course persistence.Course
	var minPercentage sql.NullFloat64
	var minClasses, semesterTotal sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Type,
		&course.Color,
		&minPercentage,
		&minClasses,
		&semesterTotal,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Course{}, err
		}
		return persistence.Course{}, fmt.Errorf("sqlite: scan course: %w", err)
	}

	if minPercentage.Valid {
		v := minPercentage.Float64
		course.MinPercentage = &v
	}
	if minClasses.Valid {
		v := int(minClasses.Int64)
		course.MinClasses = &v
	}
	if semesterTotal.Valid {
		v := int(semesterTotal.Int64)
		course.SemesterTotal = &v
	}

	if course.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Course{}, err
	}
	if course.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Course{}, err
	}
	return course, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
