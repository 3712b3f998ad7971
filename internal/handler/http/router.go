package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/user"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/middleware"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Task       TaskHandler
	Salary     SalaryHandler
	Analytics  AnalyticsHandler
	Realtime   RealtimeHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	// The kiosk punch records the caller's address.
	r.Use(chiMiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	perm := middleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Post("/attendance/punch", h.Attendance.Punch)

		// Stream tokens arrive as a query parameter
		r.Get("/realtime/stream", h.Realtime.Stream)
		r.Get("/realtime/ws", h.Realtime.WebSocket)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/profile", h.Auth.Profile)
			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/realtime/token", h.Realtime.Token)

			r.Route("/users", func(r chi.Router) {
				r.Use(perm(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Get("/stats", h.User.Stats)
				r.Patch("/{id}/role", h.User.UpdateRole)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(perm(user.PermissionEmployeeView)).Get("/", h.Employee.ListEmployees)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionEmployeeArchive))
					r.Get("/previous-staff", h.Employee.ListPreviousStaff)
					r.Get("/previous-staff/{id}", h.Employee.GetPreviousStaff)
					r.Post("/cleanup-left-employees", h.Employee.CleanupLeftEmployees)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
					r.Post("/{id}/move-to-previous-staff", h.Employee.MoveToPreviousStaff)
				})

				r.With(perm(user.PermissionEmployeeView)).Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Patch("/{id}/mark-leaving", h.Employee.MarkAsLeaving)
					r.Patch("/{id}/salary", h.Employee.UpdateSalary)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(perm(user.PermissionAttendanceViewOwn)).Get("/my-attendance", h.Attendance.MyAttendance)
				r.With(perm(user.PermissionAttendanceManage)).Delete("/cleanup", h.Attendance.Cleanup)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
					r.Get("/stats", h.Attendance.Stats)
					r.Get("/today", h.Attendance.Today)
					r.Get("/employee/{id}", h.Attendance.EmployeeAttendance)
					r.Get("/employee/{id}/history", h.Attendance.EmployeeHistory)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(perm(user.PermissionTaskViewOwn)).Get("/my-tasks", h.Task.MyTasks)
				r.With(perm(user.PermissionAnalyticsView)).Get("/revenue", h.Task.Revenue)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionTaskViewAll))
					r.Get("/", h.Task.List)
					r.Get("/stats", h.Task.Stats)
					r.Get("/employee/{id}", h.Task.ByEmployee)
					r.Get("/{id}", h.Task.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionTaskManage))
					r.Post("/", h.Task.Create)
					r.Put("/{id}", h.Task.Update)
					r.Delete("/{id}", h.Task.Delete)
				})
			})

			r.Route("/salary", func(r chi.Router) {
				r.With(perm(user.PermissionSalaryStats)).Get("/stats", h.Salary.Stats)
				r.With(perm(user.PermissionSalaryView)).Get("/{employeeId}", h.Salary.History)
				r.With(perm(user.PermissionSalaryView)).Get("/{employeeId}/payslip", h.Salary.Payslip)
				r.With(perm(user.PermissionSalaryPay)).Post("/{employeeId}/pay", h.Salary.Pay)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAnalyticsView))
					r.Get("/revenue-trends", h.Analytics.RevenueTrends)
					r.Get("/task-analytics", h.Analytics.TaskAnalytics)
					r.Get("/employee-performance", h.Analytics.EmployeePerformance)
				})
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAnalyticsFull))
					r.Get("/salary-distribution", h.Analytics.SalaryDistribution)
					r.Get("/dashboard", h.Analytics.Dashboard)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
