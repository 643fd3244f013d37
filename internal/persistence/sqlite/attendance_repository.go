package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/campus-portal/internal/persistence"
)

// AttendanceRepository persists attendance records. One row exists per
// (student, schedule) pair; resubmissions overwrite it in place.
type AttendanceRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAttendanceRepository creates an attendance repository backed by the pool.
func NewAttendanceRepository(pool *ConnectionPool) *AttendanceRepository {
	return &AttendanceRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// UpsertAttendance inserts a record, or on a repeat submission for the same
// (student, schedule) pair refreshes the existing row and resets its status.
// The stored row keeps its original id across resubmissions, so the returned
// record is re-read after the write.
func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, record persistence.AttendanceRecord) (persistence.AttendanceRecord, error) {
	var stored persistence.AttendanceRecord

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(tx, `INSERT INTO attendance
			(id, student_id, schedule_id, date, status, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (student_id, schedule_id) DO UPDATE SET
				date = excluded.date,
				status = excluded.status,
				latitude = excluded.latitude,
				longitude = excluded.longitude`,
			record.ID, record.StudentID, record.ScheduleID,
			formatTime(record.Date), record.Status, record.Latitude, record.Longitude,
		)
		if err != nil {
			return err
		}

		row := r.helper.QueryRowTx(tx, `SELECT id, student_id, schedule_id, date, status, latitude, longitude
			FROM attendance WHERE student_id = ? AND schedule_id = ?`,
			record.StudentID, record.ScheduleID,
		)
		stored, err = scanAttendance(row)
		return err
	})
	if err != nil {
		return persistence.AttendanceRecord{}, r.mapper.MapError(err)
	}
	return stored, nil
}

// UpdateAttendanceStatus sets the status of a record by id.
func (r *AttendanceRepository) UpdateAttendanceStatus(ctx context.Context, id, status string) error {
	result, err := r.helper.Exec(ctx,
		"UPDATE attendance SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return r.mapper.MapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListAttendanceBetween returns records with from <= date < to joined with
// student names, newest first.
func (r *AttendanceRepository) ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]persistence.AttendanceDetail, error) {
	rows, err := r.helper.Query(ctx, `SELECT
			a.id, a.student_id, a.schedule_id, a.date, a.status, a.latitude, a.longitude,
			s.name
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date >= ? AND a.date < ?
		ORDER BY a.date DESC, a.id`,
		formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var details []persistence.AttendanceDetail
	for rows.Next() {
		var detail persistence.AttendanceDetail
		var date string
		if err := rows.Scan(
			&detail.ID, &detail.StudentID, &detail.ScheduleID, &date,
			&detail.Status, &detail.Latitude, &detail.Longitude,
			&detail.StudentName,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if detail.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return details, nil
}

// ListAttendanceForStudent returns one student's records, newest first.
func (r *AttendanceRepository) ListAttendanceForStudent(ctx context.Context, studentID string) ([]persistence.AttendanceRecord, error) {
	rows, err := r.helper.Query(ctx, `SELECT
			id, student_id, schedule_id, date, status, latitude, longitude
		FROM attendance
		WHERE student_id = ?
		ORDER BY date DESC, id`,
		studentID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var records []persistence.AttendanceRecord
	for rows.Next() {
		var record persistence.AttendanceRecord
		var date string
		if err := rows.Scan(
			&record.ID, &record.StudentID, &record.ScheduleID, &date,
			&record.Status, &record.Latitude, &record.Longitude,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if record.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return records, nil
}

func scanAttendance(row rowScanner) (persistence.AttendanceRecord, error) {
	var record persistence.AttendanceRecord
	var date string
	if err := row.Scan(
		&record.ID, &record.StudentID, &record.ScheduleID, &date,
		&record.Status, &record.Latitude, &record.Longitude,
	); err != nil {
		return persistence.AttendanceRecord{}, err
	}
	var err error
	if record.Date, err = parseTime(date); err != nil {
		return persistence.AttendanceRecord{}, err
	}
	return record, nil
}
