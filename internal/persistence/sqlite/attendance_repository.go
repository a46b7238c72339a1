package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/attendance-tracker/internal/persistence"
)

// dateLayout is the storage form of a record's calendar date.
const dateLayout = "2006-01-02"

// AttendanceRepository implements persistence.AttendanceRepository using
// SQLite.
type AttendanceRepository struct {
	db *DB
}

// NewAttendanceRepository wraps the shared database handle.
func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateRecord inserts one attendance record. A second record for the same
// course and date yields ErrDuplicateDate.
func (r *AttendanceRepository) CreateRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, course_id, date, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.CourseID,
		record.Date.Format(dateLayout),
		record.Status,
		record.Notes,
		record.CreatedAt.UTC().Format(time.RFC3339),
		record.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return persistence.ErrDuplicateDate
		}
		return fmt.Errorf("sqlite: insert attendance record: %w", err)
	}
	return nil
}

// UpdateRecord updates the status and notes of an existing record.
func (r *AttendanceRepository) UpdateRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE attendance_records
		SET status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		record.Status,
		record.Notes,
		record.UpdatedAt.UTC().Format(time.RFC3339),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update attendance record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update attendance record: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetRecord retrieves one record by ID.
func (r *AttendanceRepository) GetRecord(ctx context.Context, id string) (persistence.AttendanceRecord, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, course_id, date, status, notes, created_at, updated_at
		FROM attendance_records
		WHERE id = ?
	`, id)
	return scanRecord(row)
}

// DeleteRecord removes one record by ID.
func (r *AttendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete attendance record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete attendance record: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListRecordsForCourse returns a course's records ordered by date descending.
func (r *AttendanceRepository) ListRecordsForCourse(ctx context.Context, courseID string) ([]persistence.AttendanceRecord, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, course_id, date, status, notes, created_at, updated_at
		FROM attendance_records
		WHERE course_id = ?
		ORDER BY date DESC, id ASC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]persistence.AttendanceRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list attendance records: %w", err)
	}
	return records, nil
}

// ListAbsences returns all absent records joined with their course's display
// fields, newest first.
func (r *AttendanceRepository) ListAbsences(ctx context.Context) ([]persistence.AbsenceWithCourse, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT a.id, a.course_id, a.date, a.status, a.notes, a.created_at, a.updated_at, c.name, c.color
		FROM attendance_records a
		JOIN courses c ON c.id = a.course_id
		WHERE a.status = ?
		ORDER BY a.date DESC, a.id ASC
	`, persistence.AttendanceStatusAbsent)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list absences: %w", err)
	}
	defer rows.Close()

	absences := make([]persistence.AbsenceWithCourse, 0)
	for rows.Next() {
		var absence persistence.AbsenceWithCourse
		var date, createdAt, updatedAt string
		err := rows.Scan(
			&absence.Record.ID,
			&absence.Record.CourseID,
			&date,
			&absence.Record.Status,
			&absence.Record.Notes,
			&createdAt,
			&updatedAt,
			&absence.CourseName,
			&absence.CourseColor,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan absence: %w", err)
		}
		if absence.Record.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if absence.Record.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if absence.Record.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list absences: %w", err)
	}
	return absences, nil
}

// CountForCourse aggregates the course's records into counters.
func (r *AttendanceRepository) CountForCourse(ctx context.Context, courseID string) (persistence.AttendanceCounters, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM attendance_records
		WHERE course_id = ?
	`, persistence.AttendanceStatusPresent, courseID)

	var counters persistence.AttendanceCounters
	if err := row.Scan(&counters.Total, &counters.Attended); err != nil {
		return persistence.AttendanceCounters{}, fmt.Errorf("sqlite: count attendance records: %w", err)
	}
	return counters, nil
}

// BulkCreateRecords inserts the records in one transaction, skipping entries
// whose (course, date) pair already exists.
func (r *AttendanceRepository) BulkCreateRecords(ctx context.Context, records []persistence.AttendanceRecord) (persistence.BulkCreateResult, error) {
	var result persistence.BulkCreateResult

	err := r.db.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range records {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO attendance_records (id, course_id, date, status, notes, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (course_id, date) DO NOTHING
			`,
				record.ID,
				record.CourseID,
				record.Date.Format(dateLayout),
				record.Status,
				record.Notes,
				record.CreatedAt.UTC().Format(time.RFC3339),
				record.UpdatedAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("sqlite: bulk insert attendance record: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("sqlite: bulk insert attendance record: %w", err)
			}
			if affected == 0 {
				result.Skipped++
			} else {
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return persistence.BulkCreateResult{}, err
	}
	return result, nil
}

// FindByCourseAndDate reports an existing record for the pair, if any.
func (r *AttendanceRepository) FindByCourseAndDate(ctx context.Context, courseID string, date time.Time) (persistence.AttendanceRecord, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, course_id, date, status, notes, created_at, updated_at
		FROM attendance_records
		WHERE course_id = ? AND date = ?
	`, courseID, date.Format(dateLayout))
	return scanRecord(row)
}

func scanRecord(row rowScanner) (persistence.AttendanceRecord, error) {
	var record persistence.AttendanceRecord
	var date, createdAt, updatedAt string

	err := row.Scan(
		&record.ID,
		&record.CourseID,
		&date,
		&record.Status,
		&record.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.AttendanceRecord{}, persistence.ErrNotFound
		}
		return persistence.AttendanceRecord{}, fmt.Errorf("sqlite: scan attendance record: %w", err)
	}

	if record.Date, err = parseDate(date); err != nil {
		return persistence.AttendanceRecord{}, err
	}
	if record.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.AttendanceRecord{}, err
	}
	if record.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.AttendanceRecord{}, err
	}
	return record, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse date %q: %w", value, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
