package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campus-portal/internal/application"
)

// RouterConfig wires handlers and middleware into the portal's route table.
type RouterConfig struct {
	AdminAuth   *AuthHandler
	StudentAuth *AuthHandler
	TeacherAuth *AuthHandler
	Admin       *AdminHandler
	Student     *StudentHandler
	Teacher     *TeacherHandler
	Sessions    SessionValidator
	Metrics     *Metrics
	Health      http.HandlerFunc
	Logger      *slog.Logger
	Middleware  []func(http.Handler) http.Handler
}

// NewRouter builds the role-prefixed route table. Endpoints past login are
// gated by RequireRole for their prefix's role.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAdmin := requireRoleOrPass(cfg.Sessions, application.RoleAdmin, cfg.Logger)
	requireStudent := requireRoleOrPass(cfg.Sessions, application.RoleStudent, cfg.Logger)
	requireTeacher := requireRoleOrPass(cfg.Sessions, application.RoleTeacher, cfg.Logger)

	if cfg.AdminAuth != nil {
		mux.HandleFunc("/admin/login", postOnly(cfg.AdminAuth.Login))
		mux.HandleFunc("/admin/logout", postOnly(cfg.AdminAuth.Logout))
	}
	if cfg.Admin != nil {
		mux.Handle("/admin/api/classes", requireAdmin(getOnly(cfg.Admin.ListClasses)))
		mux.Handle("/admin/api/subjects", requireAdmin(getOnly(cfg.Admin.ListSubjects)))
		mux.Handle("/admin/api/batches", requireAdmin(getOnly(cfg.Admin.ListBatches)))
		mux.Handle("/admin/api/teachers", requireAdmin(getOnly(cfg.Admin.ListTeachers)))
		mux.Handle("/admin/api/schedules", requireAdmin(getOnly(cfg.Admin.ListSchedules)))
		mux.Handle("/admin/api/create_user", requireAdmin(postOnly(cfg.Admin.CreateUser)))
		mux.Handle("/admin/api/schedule_class", requireAdmin(postOnly(cfg.Admin.ScheduleClass)))
		mux.Handle("/admin/api/remove_schedule", requireAdmin(postOnly(cfg.Admin.RemoveSchedule)))
		mux.Handle("/admin/api/manage_classes", requireAdmin(postOnly(cfg.Admin.ManageClasses)))
		mux.Handle("/admin/api/manage_subjects", requireAdmin(postOnly(cfg.Admin.ManageSubjects)))
		mux.Handle("/admin/api/manage_batches", requireAdmin(postOnly(cfg.Admin.ManageBatches)))
	}

	if cfg.StudentAuth != nil {
		mux.HandleFunc("/student/login", postOnly(cfg.StudentAuth.Login))
		mux.HandleFunc("/student/logout", postOnly(cfg.StudentAuth.Logout))
	}
	if cfg.Student != nil {
		requireStudentStrict := requireStudent
		if cfg.Sessions != nil {
			requireStudentStrict = RequireRoleWithStatus(cfg.Sessions, application.RoleStudent, http.StatusForbidden, cfg.Logger)
		}
		mux.Handle("/student/mark_attendance", requireStudentStrict(postOnly(cfg.Student.MarkAttendance)))
		mux.Handle("/student/attendance", requireStudent(getOnly(cfg.Student.Attendance)))
		mux.Handle("/student/schedule", requireStudent(getOnly(cfg.Student.Schedule)))
		mux.Handle("/student/download_attendance_log", requireStudent(getOnly(cfg.Student.DownloadAttendanceLog)))
	}

	if cfg.TeacherAuth != nil {
		mux.HandleFunc("/teacher/login", postOnly(cfg.TeacherAuth.Login))
		mux.HandleFunc("/teacher/logout", postOnly(cfg.TeacherAuth.Logout))
	}
	if cfg.Teacher != nil {
		mux.Handle("/teacher/api/session", requireTeacher(getOnly(cfg.Teacher.Session)))
		mux.Handle("/teacher/schedule", requireTeacher(getOnly(cfg.Teacher.MySchedule)))
		mux.Handle("/teacher/today_attendance", requireTeacher(getOnly(cfg.Teacher.TodayAttendance)))
		mux.Handle("/teacher/update_status/", requireTeacher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/teacher/update_status/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			ctx := ContextWithAttendanceID(r.Context(), id)
			cfg.Teacher.UpdateStatus(w, r.WithContext(ctx))
		})))
	}

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", getOnly(cfg.Health))
	}
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Middleware()(handler)
	}
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func requireRoleOrPass(validator SessionValidator, role application.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	if validator == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return RequireRole(validator, role, logger)
}

func getOnly(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		handler(w, r)
	}
}

func postOnly(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		handler(w, r)
	}
}
