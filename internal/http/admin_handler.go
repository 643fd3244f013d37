package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campus-portal/internal/application"
)

type catalogService interface {
	AddClass(ctx context.Context, principal application.Principal, name string) (application.Class, error)
	RemoveClass(ctx context.Context, principal application.Principal, id string) error
	ListClasses(ctx context.Context, principal application.Principal) ([]application.Class, error)
	AddSubject(ctx context.Context, principal application.Principal, name string) (application.Subject, error)
	RemoveSubject(ctx context.Context, principal application.Principal, id string) error
	ListSubjects(ctx context.Context, principal application.Principal) ([]application.Subject, error)
	AddBatch(ctx context.Context, principal application.Principal, name string) (application.Batch, error)
	RemoveBatch(ctx context.Context, principal application.Principal, id string) error
	ListBatches(ctx context.Context, principal application.Principal) ([]application.Batch, error)
}

type accountService interface {
	CreateUser(ctx context.Context, principal application.Principal, input application.CreateUserInput) (application.Account, error)
	ListTeachers(ctx context.Context, principal application.Principal) ([]application.Account, error)
}

type scheduleService interface {
	ScheduleClass(ctx context.Context, principal application.Principal, input application.ScheduleInput) (application.ScheduleSlot, error)
	RemoveSchedule(ctx context.Context, principal application.Principal, scheduleID string) error
	ListSchedulesForTeacher(ctx context.Context, principal application.Principal, teacherID string) ([]application.ScheduleDetail, error)
	ListSchedules(ctx context.Context, principal application.Principal) ([]application.ScheduleSlot, error)
}

// AdminHandler serves the administration API: catalogs, accounts and the
// timetable.
type AdminHandler struct {
	catalog   catalogService
	accounts  accountService
	schedules scheduleService
	responder responder
	logger    *slog.Logger
}

// NewAdminHandler creates the administration API handler.
func NewAdminHandler(catalog catalogService, accounts accountService, schedules scheduleService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{
		catalog:   catalog,
		accounts:  accounts,
		schedules: schedules,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

type namedEntryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teacherDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type scheduleDTO struct {
	ID        string `json:"id"`
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	TeacherID string `json:"teacher_id"`
	Batch     string `json:"batch"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type scheduleDetailDTO struct {
	scheduleDTO
	ClassName   string `json:"class_name"`
	SubjectName string `json:"subject_name"`
}

type createUserRequest struct {
	UserType string `json:"user_type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Batch    string `json:"batch"`
}

type scheduleClassRequest struct {
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	TeacherID string `json:"teacher_id"`
	Batch     string `json:"batch"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type removeScheduleRequest struct {
	ScheduleID string `json:"schedule_id"`
}

// manageRequest is the shared payload of the manage_* endpoints: "add"
// carries a name, "remove" carries an id.
type manageRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
	ID     string `json:"id"`
}

// ListClasses serves GET /admin/api/classes.
func (h *AdminHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	classes, err := h.catalog.ListClasses(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]namedEntryDTO, 0, len(classes))
	for _, class := range classes {
		payload = append(payload, namedEntryDTO{ID: class.ID, Name: class.Name})
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "classes", payload)
}

// ListSubjects serves GET /admin/api/subjects.
func (h *AdminHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	subjects, err := h.catalog.ListSubjects(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]namedEntryDTO, 0, len(subjects))
	for _, subject := range subjects {
		payload = append(payload, namedEntryDTO{ID: subject.ID, Name: subject.Name})
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "subjects", payload)
}

// ListBatches serves GET /admin/api/batches.
func (h *AdminHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	batches, err := h.catalog.ListBatches(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]namedEntryDTO, 0, len(batches))
	for _, batch := range batches {
		payload = append(payload, namedEntryDTO{ID: batch.ID, Name: batch.Name})
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "batches", payload)
}

// ListTeachers serves GET /admin/api/teachers.
func (h *AdminHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	teachers, err := h.accounts.ListTeachers(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]teacherDTO, 0, len(teachers))
	for _, teacher := range teachers {
		payload = append(payload, teacherDTO{ID: teacher.ID, Name: teacher.Name, Email: teacher.Email})
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "teachers", payload)
}

// ListSchedules serves GET /admin/api/schedules. With a teacher_id query
// parameter it returns that teacher's slots joined with class and subject
// names; without one it returns every slot.
func (h *AdminHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	teacherID := strings.TrimSpace(r.URL.Query().Get("teacher_id"))
	if teacherID != "" {
		details, err := h.schedules.ListSchedulesForTeacher(r.Context(), principal, teacherID)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeSuccess(r.Context(), w, http.StatusOK, "schedules", toScheduleDetailDTOs(details))
		return
	}

	slots, err := h.schedules.ListSchedules(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]scheduleDTO, 0, len(slots))
	for _, slot := range slots {
		payload = append(payload, toScheduleDTO(slot))
	}
	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "schedules", payload)
}

// CreateUser serves POST /admin/api/create_user.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateUser", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode create user request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	account, err := h.accounts.CreateUser(r.Context(), principal, application.CreateUserInput{
		Role:     application.Role(strings.TrimSpace(strings.ToLower(req.UserType))),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Batch:    req.Batch,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "user created", map[string]string{
		"id":    account.ID,
		"name":  account.Name,
		"email": account.Email,
		"role":  string(account.Role),
	})
}

// ScheduleClass serves POST /admin/api/schedule_class.
func (h *AdminHandler) ScheduleClass(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	var req scheduleClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ScheduleClass", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	slot, err := h.schedules.ScheduleClass(r.Context(), principal, application.ScheduleInput{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Batch:     req.Batch,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "class scheduled", toScheduleDTO(slot))
}

// RemoveSchedule serves POST /admin/api/remove_schedule.
func (h *AdminHandler) RemoveSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	var req removeScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "RemoveSchedule", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode remove schedule request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	if err := h.schedules.RemoveSchedule(r.Context(), principal, req.ScheduleID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "schedule removed", nil)
}

// ManageClasses serves POST /admin/api/manage_classes.
func (h *AdminHandler) ManageClasses(w http.ResponseWriter, r *http.Request) {
	h.manageCatalog(w, r, "ManageClasses", "class",
		func(ctx context.Context, principal application.Principal, name string) (namedEntryDTO, error) {
			class, err := h.catalog.AddClass(ctx, principal, name)
			return namedEntryDTO{ID: class.ID, Name: class.Name}, err
		},
		h.catalog.RemoveClass,
	)
}

// ManageSubjects serves POST /admin/api/manage_subjects.
func (h *AdminHandler) ManageSubjects(w http.ResponseWriter, r *http.Request) {
	h.manageCatalog(w, r, "ManageSubjects", "subject",
		func(ctx context.Context, principal application.Principal, name string) (namedEntryDTO, error) {
			subject, err := h.catalog.AddSubject(ctx, principal, name)
			return namedEntryDTO{ID: subject.ID, Name: subject.Name}, err
		},
		h.catalog.RemoveSubject,
	)
}

// ManageBatches serves POST /admin/api/manage_batches.
func (h *AdminHandler) ManageBatches(w http.ResponseWriter, r *http.Request) {
	h.manageCatalog(w, r, "ManageBatches", "batch",
		func(ctx context.Context, principal application.Principal, name string) (namedEntryDTO, error) {
			batch, err := h.catalog.AddBatch(ctx, principal, name)
			return namedEntryDTO{ID: batch.ID, Name: batch.Name}, err
		},
		h.catalog.RemoveBatch,
	)
}

func (h *AdminHandler) manageCatalog(
	w http.ResponseWriter,
	r *http.Request,
	operation, entity string,
	add func(context.Context, application.Principal, string) (namedEntryDTO, error),
	remove func(context.Context, application.Principal, string) error,
) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeFailure(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken.Error())
		return
	}

	var req manageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode manage request", "error", err)
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, errBadRequestBody.Error())
		return
	}

	switch strings.TrimSpace(strings.ToLower(req.Action)) {
	case "add":
		entry, err := add(r.Context(), principal, req.Name)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeSuccess(r.Context(), w, http.StatusCreated, entity+" added", entry)
	case "remove":
		if err := remove(r.Context(), principal, req.ID); err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeSuccess(r.Context(), w, http.StatusOK, entity+" removed", nil)
	default:
		h.responder.writeFailure(r.Context(), w, http.StatusBadRequest, "action must be add or remove")
	}
}

func toScheduleDTO(slot application.ScheduleSlot) scheduleDTO {
	return scheduleDTO{
		ID:        slot.ID,
		ClassID:   slot.ClassID,
		SubjectID: slot.SubjectID,
		TeacherID: slot.TeacherID,
		Batch:     slot.Batch,
		DayOfWeek: slot.DayOfWeek,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

func toScheduleDetailDTOs(details []application.ScheduleDetail) []scheduleDetailDTO {
	payload := make([]scheduleDetailDTO, 0, len(details))
	for _, detail := range details {
		payload = append(payload, scheduleDetailDTO{
			scheduleDTO: toScheduleDTO(detail.ScheduleSlot),
			ClassName:   detail.ClassName,
			SubjectName: detail.SubjectName,
		})
	}
	return payload
}
