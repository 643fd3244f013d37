package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/example/campus-portal/internal/persistence"
	"github.com/example/campus-portal/internal/timetable"
)

// ScheduleRepository persists timetable slots and enforces the per-teacher
// overlap rule at insert time.
type ScheduleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewScheduleRepository creates a schedule repository backed by the pool.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSchedule checks the teacher's existing slots for the day and inserts
// the new one, all inside a single transaction so a concurrent insert cannot
// slip between check and write. An overlap surfaces as ErrConflict.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule persistence.Schedule) error {
	candidate, err := toSlot(schedule)
	if err != nil {
		return err
	}

	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		rows, err := r.helper.QueryTx(tx,
			"SELECT id, start_time, end_time FROM schedules WHERE teacher_id = ? AND day_of_week = ?",
			schedule.TeacherID, schedule.DayOfWeek,
		)
		if err != nil {
			return err
		}

		var existing []timetable.Slot
		for rows.Next() {
			var id, start, end string
			if err := rows.Scan(&id, &start, &end); err != nil {
				rows.Close()
				return err
			}
			slot, err := storedSlot(id, schedule.TeacherID, schedule.DayOfWeek, start, end)
			if err != nil {
				rows.Close()
				return err
			}
			existing = append(existing, slot)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if conflicts := timetable.FindConflicts(existing, candidate); len(conflicts) > 0 {
			return persistence.ErrConflict
		}

		_, err = r.helper.ExecTx(tx, `INSERT INTO schedules
			(id, class_id, subject_id, teacher_id, batch, day_of_week, start_time, end_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			schedule.ID, schedule.ClassID, schedule.SubjectID, schedule.TeacherID,
			schedule.Batch, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime,
			formatTime(schedule.CreatedAt),
		)
		return err
	})
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// DeleteSchedule removes a slot by id.
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, "DELETE FROM schedules WHERE id = ?", id)
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

// ListSchedulesForTeacher returns a teacher's slots joined with class and
// subject names, ordered by weekday then start time.
func (r *ScheduleRepository) ListSchedulesForTeacher(ctx context.Context, teacherID string) ([]persistence.ScheduleDetail, error) {
	rows, err := r.helper.Query(ctx, `SELECT
			s.id, s.class_id, s.subject_id, s.teacher_id, s.batch,
			s.day_of_week, s.start_time, s.end_time, s.created_at,
			c.name, sub.name
		FROM schedules s
		JOIN classes c ON c.id = s.class_id
		JOIN subjects sub ON sub.id = s.subject_id
		WHERE s.teacher_id = ?`,
		teacherID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var details []persistence.ScheduleDetail
	for rows.Next() {
		var detail persistence.ScheduleDetail
		var createdAt string
		if err := rows.Scan(
			&detail.ID, &detail.ClassID, &detail.SubjectID, &detail.TeacherID, &detail.Batch,
			&detail.DayOfWeek, &detail.StartTime, &detail.EndTime, &createdAt,
			&detail.ClassName, &detail.SubjectName,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if detail.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	sort.SliceStable(details, func(i, j int) bool {
		return scheduleLess(details[i].Schedule, details[j].Schedule)
	})
	return details, nil
}

// ListSchedules returns every slot, ordered by weekday then start time.
func (r *ScheduleRepository) ListSchedules(ctx context.Context) ([]persistence.Schedule, error) {
	rows, err := r.helper.Query(ctx, `SELECT
			id, class_id, subject_id, teacher_id, batch,
			day_of_week, start_time, end_time, created_at
		FROM schedules`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		var schedule persistence.Schedule
		var createdAt string
		if err := rows.Scan(
			&schedule.ID, &schedule.ClassID, &schedule.SubjectID, &schedule.TeacherID, &schedule.Batch,
			&schedule.DayOfWeek, &schedule.StartTime, &schedule.EndTime, &createdAt,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if schedule.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	sort.SliceStable(schedules, func(i, j int) bool {
		return scheduleLess(schedules[i], schedules[j])
	})
	return schedules, nil
}

// scheduleLess orders Monday before Sunday, then by start time. SQLite cannot
// sort weekday names natively, so ordering happens here.
func scheduleLess(a, b persistence.Schedule) bool {
	ai := timetable.WeekdayIndex(a.DayOfWeek)
	bi := timetable.WeekdayIndex(b.DayOfWeek)
	if ai != bi {
		return ai < bi
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}

func toSlot(schedule persistence.Schedule) (timetable.Slot, error) {
	return storedSlot(schedule.ID, schedule.TeacherID, schedule.DayOfWeek, schedule.StartTime, schedule.EndTime)
}

func storedSlot(id, teacherID, dayOfWeek, start, end string) (timetable.Slot, error) {
	startMin, err := timetable.ParseClock(start)
	if err != nil {
		return timetable.Slot{}, fmt.Errorf("schedule %s: %w", id, err)
	}
	endMin, err := timetable.ParseClock(end)
	if err != nil {
		return timetable.Slot{}, fmt.Errorf("schedule %s: %w", id, err)
	}
	return timetable.Slot{
		ID:        id,
		TeacherID: teacherID,
		DayOfWeek: dayOfWeek,
		Start:     startMin,
		End:       endMin,
	}, nil
}
