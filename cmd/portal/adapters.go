package main

import (
	"context"
	"time"

	"github.com/example/campus-portal/internal/application"
	"github.com/example/campus-portal/internal/persistence"
)

type credentialStoreAdapter struct {
	repo persistence.AccountRepository
}

func newCredentialStoreAdapter(repo persistence.AccountRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetCredentialsByEmail(ctx context.Context, role application.Role, email string) (application.Credentials, error) {
	stored, err := a.repo.GetAccountByEmail(ctx, persistence.Role(role), email)
	if err != nil {
		return application.Credentials{}, err
	}
	return application.Credentials{
		Account:      toApplicationAccount(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetAccount(ctx context.Context, role application.Role, id string) (application.Account, error) {
	stored, err := a.repo.GetAccount(ctx, persistence.Role(role), id)
	if err != nil {
		return application.Account{}, err
	}
	return toApplicationAccount(stored), nil
}

type accountDirectoryAdapter struct {
	repo persistence.AccountRepository
}

func newAccountDirectoryAdapter(repo persistence.AccountRepository) *accountDirectoryAdapter {
	return &accountDirectoryAdapter{repo: repo}
}

func (a *accountDirectoryAdapter) CreateAccount(ctx context.Context, credentials application.Credentials) error {
	return a.repo.CreateAccount(ctx, toPersistenceAccount(credentials))
}

func (a *accountDirectoryAdapter) CountStudentsInBatch(ctx context.Context, batch string) (int, error) {
	return a.repo.CountStudentsInBatch(ctx, batch)
}

func (a *accountDirectoryAdapter) ListTeachers(ctx context.Context) ([]application.Account, error) {
	models, err := a.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	teachers := make([]application.Account, 0, len(models))
	for _, model := range models {
		teachers = append(teachers, toApplicationAccount(model))
	}
	return teachers, nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type scheduleRepositoryAdapter struct {
	repo persistence.ScheduleRepository
}

func newScheduleRepositoryAdapter(repo persistence.ScheduleRepository) *scheduleRepositoryAdapter {
	return &scheduleRepositoryAdapter{repo: repo}
}

func (a *scheduleRepositoryAdapter) CreateSchedule(ctx context.Context, slot application.ScheduleSlot) (application.ScheduleSlot, error) {
	if err := a.repo.CreateSchedule(ctx, toPersistenceSchedule(slot)); err != nil {
		return application.ScheduleSlot{}, err
	}
	return slot, nil
}

func (a *scheduleRepositoryAdapter) DeleteSchedule(ctx context.Context, id string) error {
	return a.repo.DeleteSchedule(ctx, id)
}

func (a *scheduleRepositoryAdapter) ListSchedulesForTeacher(ctx context.Context, teacherID string) ([]application.ScheduleDetail, error) {
	models, err := a.repo.ListSchedulesForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	details := make([]application.ScheduleDetail, 0, len(models))
	for _, model := range models {
		details = append(details, application.ScheduleDetail{
			ScheduleSlot: toApplicationSchedule(model.Schedule),
			ClassName:    model.ClassName,
			SubjectName:  model.SubjectName,
		})
	}
	return details, nil
}

func (a *scheduleRepositoryAdapter) ListSchedules(ctx context.Context) ([]application.ScheduleSlot, error) {
	models, err := a.repo.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	slots := make([]application.ScheduleSlot, 0, len(models))
	for _, model := range models {
		slots = append(slots, toApplicationSchedule(model))
	}
	return slots, nil
}

type attendanceRepositoryAdapter struct {
	repo persistence.AttendanceRepository
}

func newAttendanceRepositoryAdapter(repo persistence.AttendanceRepository) *attendanceRepositoryAdapter {
	return &attendanceRepositoryAdapter{repo: repo}
}

func (a *attendanceRepositoryAdapter) UpsertAttendance(ctx context.Context, record application.AttendanceRecord) (application.AttendanceRecord, error) {
	stored, err := a.repo.UpsertAttendance(ctx, toPersistenceAttendance(record))
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationAttendance(stored), nil
}

func (a *attendanceRepositoryAdapter) UpdateAttendanceStatus(ctx context.Context, id, status string) error {
	return a.repo.UpdateAttendanceStatus(ctx, id, status)
}

func (a *attendanceRepositoryAdapter) ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]application.AttendanceDetail, error) {
	models, err := a.repo.ListAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	details := make([]application.AttendanceDetail, 0, len(models))
	for _, model := range models {
		details = append(details, application.AttendanceDetail{
			AttendanceRecord: toApplicationAttendance(model.AttendanceRecord),
			StudentName:      model.StudentName,
		})
	}
	return details, nil
}

func (a *attendanceRepositoryAdapter) ListAttendanceForStudent(ctx context.Context, studentID string) ([]application.AttendanceRecord, error) {
	models, err := a.repo.ListAttendanceForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	records := make([]application.AttendanceRecord, 0, len(models))
	for _, model := range models {
		records = append(records, toApplicationAttendance(model))
	}
	return records, nil
}

type catalogRepositoryAdapter struct {
	repo persistence.CatalogRepository
}

func newCatalogRepositoryAdapter(repo persistence.CatalogRepository) *catalogRepositoryAdapter {
	return &catalogRepositoryAdapter{repo: repo}
}

func (a *catalogRepositoryAdapter) AddClass(ctx context.Context, class application.Class) error {
	return a.repo.AddClass(ctx, persistence.Class{ID: class.ID, Name: class.Name})
}

func (a *catalogRepositoryAdapter) RemoveClass(ctx context.Context, id string) error {
	return a.repo.RemoveClass(ctx, id)
}

func (a *catalogRepositoryAdapter) ListClasses(ctx context.Context) ([]application.Class, error) {
	models, err := a.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	classes := make([]application.Class, 0, len(models))
	for _, model := range models {
		classes = append(classes, application.Class{ID: model.ID, Name: model.Name})
	}
	return classes, nil
}

func (a *catalogRepositoryAdapter) AddSubject(ctx context.Context, subject application.Subject) error {
	return a.repo.AddSubject(ctx, persistence.Subject{ID: subject.ID, Name: subject.Name})
}

func (a *catalogRepositoryAdapter) RemoveSubject(ctx context.Context, id string) error {
	return a.repo.RemoveSubject(ctx, id)
}

func (a *catalogRepositoryAdapter) ListSubjects(ctx context.Context) ([]application.Subject, error) {
	models, err := a.repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	subjects := make([]application.Subject, 0, len(models))
	for _, model := range models {
		subjects = append(subjects, application.Subject{ID: model.ID, Name: model.Name})
	}
	return subjects, nil
}

func (a *catalogRepositoryAdapter) AddBatch(ctx context.Context, batch application.Batch) error {
	return a.repo.AddBatch(ctx, persistence.Batch{ID: batch.ID, Name: batch.Name})
}

func (a *catalogRepositoryAdapter) RemoveBatch(ctx context.Context, id string) error {
	return a.repo.RemoveBatch(ctx, id)
}

func (a *catalogRepositoryAdapter) GetBatch(ctx context.Context, id string) (application.Batch, error) {
	stored, err := a.repo.GetBatch(ctx, id)
	if err != nil {
		return application.Batch{}, err
	}
	return application.Batch{ID: stored.ID, Name: stored.Name}, nil
}

func (a *catalogRepositoryAdapter) GetBatchByName(ctx context.Context, name string) (application.Batch, error) {
	stored, err := a.repo.GetBatchByName(ctx, name)
	if err != nil {
		return application.Batch{}, err
	}
	return application.Batch{ID: stored.ID, Name: stored.Name}, nil
}

func (a *catalogRepositoryAdapter) ListBatches(ctx context.Context) ([]application.Batch, error) {
	models, err := a.repo.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	batches := make([]application.Batch, 0, len(models))
	for _, model := range models {
		batches = append(batches, application.Batch{ID: model.ID, Name: model.Name})
	}
	return batches, nil
}

func (a *catalogRepositoryAdapter) BatchInUse(ctx context.Context, name string) (bool, error) {
	return a.repo.BatchInUse(ctx, name)
}

func toApplicationAccount(model persistence.Account) application.Account {
	return application.Account{
		ID:        model.ID,
		Role:      application.Role(model.Role),
		Name:      model.Name,
		Email:     model.Email,
		Batch:     model.Batch,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceAccount(credentials application.Credentials) persistence.Account {
	account := credentials.Account
	return persistence.Account{
		ID:           account.ID,
		Role:         persistence.Role(account.Role),
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: credentials.PasswordHash,
		Batch:        account.Batch,
		CreatedAt:    account.CreatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Role:      application.Role(model.Role),
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Role:      persistence.Role(session.Role),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationSchedule(model persistence.Schedule) application.ScheduleSlot {
	return application.ScheduleSlot{
		ID:        model.ID,
		ClassID:   model.ClassID,
		SubjectID: model.SubjectID,
		TeacherID: model.TeacherID,
		Batch:     model.Batch,
		DayOfWeek: model.DayOfWeek,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		CreatedAt: model.CreatedAt,
	}
}

func toPersistenceSchedule(slot application.ScheduleSlot) persistence.Schedule {
	return persistence.Schedule{
		ID:        slot.ID,
		ClassID:   slot.ClassID,
		SubjectID: slot.SubjectID,
		TeacherID: slot.TeacherID,
		Batch:     slot.Batch,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		CreatedAt: slot.CreatedAt,
	}
}

func toApplicationAttendance(model persistence.AttendanceRecord) application.AttendanceRecord {
	return application.AttendanceRecord{
		ID:         model.ID,
		StudentID:  model.StudentID,
		ScheduleID: model.ScheduleID,
		Date:       model.Date,
		Status:     model.Status,
		Latitude:   model.Latitude,
		Longitude:  model.Longitude,
	}
}

func toPersistenceAttendance(record application.AttendanceRecord) persistence.AttendanceRecord {
	return persistence.AttendanceRecord{
		ID:         record.ID,
		StudentID:  record.StudentID,
		ScheduleID: record.ScheduleID,
		Date:       record.Date,
		Status:     record.Status,
		Latitude:   record.Latitude,
		Longitude:  record.Longitude,
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
