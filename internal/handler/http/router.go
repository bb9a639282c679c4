package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/wfh-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	Logger          *slog.Logger
	AllowedOrigins  []string
	LoginPerMinute  int
	SubmitPerMinute int

	// Redis backs Idempotency-Key handling; nil disables it
	Redis *redis.Client
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Report     ReportHandler
	File       FileHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, revocations middleware.RevocationChecker, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderIdempotencyKey, middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, middleware.HeaderReplayed},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.RequestID)

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	loginLimiter := middleware.PerMinute(cfg.LoginPerMinute)
	submitLimiter := middleware.PerMinute(cfg.SubmitPerMinute)
	idempotent := middleware.Idempotency(cfg.Redis)

	r.Get("/files/attendance/*", h.File.ServeAttendancePhoto)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(loginLimiter, middleware.ClientIP)).Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired(revocations))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceSubmit))
					r.Use(middleware.RateLimit(submitLimiter, middleware.EmployeeOrIP))
					r.Use(idempotent)

					r.Post("/submit", h.Attendance.Submit)
					r.Post("/clock-out/{id}", h.Attendance.ClockOut)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))

					r.Get("/my-history", h.Attendance.GetMyHistory)
					r.Get("/today", h.Attendance.GetToday)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceApprove))

					r.Put("/{id}/approve", h.Attendance.Approve)
					r.Put("/{id}/reject", h.Attendance.Reject)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))

				r.Get("/monthly-summary", h.Report.GetMonthlySummary)
				r.Get("/employee-stats", h.Report.GetEmployeeStats)
				r.Get("/department-stats", h.Report.GetDepartmentStats)
			})
		})
	})

	return r
}
