package http

import (
	"log/slog"
	"net/http"

	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/handler/http/middleware"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Shift      ShiftHandler
	User       UserHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	// Logger receives request logs. Nil disables request logging.
	Logger   *slog.Logger
	LogLevel slog.Level
}

func NewRouter(jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
		})

		// EventSource clients cannot set headers, so the stream also accepts ?jwt=.
		r.Route("/events", func(r chi.Router) {
			r.Use(jwtauth.Verify(jwtService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(jwtService))
			r.Get("/attendances", h.Attendance.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/attendances", func(r chi.Router) {
				r.Get("/eligibility", h.Attendance.Eligibility)
				r.Get("/check-location", h.Attendance.CheckLocation)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/{id}/check-out", h.Attendance.CheckOut)
				r.Get("/{id}", h.Attendance.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
					r.Get("/", h.Attendance.List)
					r.Post("/close-stale", h.Attendance.CloseStale)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceDelete)).
					Delete("/{id}", h.Attendance.Delete)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.Shift.List)
				r.Get("/my", h.Shift.MyShifts)
				r.Get("/{id}", h.Shift.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftManage))
					r.Post("/", h.Shift.Create)
					r.Put("/{id}", h.Shift.Update)
					r.Delete("/{id}", h.Shift.Delete)
					r.Put("/{id}/users", h.Shift.AssignUsers)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/count", h.Dashboard.Count)
				r.Get("/volume", h.Dashboard.Volume)
				r.Get("/summary", h.Dashboard.Summary)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportExport))
				r.Get("/attendances.xlsx", h.Report.ExportAttendance)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound(w)
	})

	return r
}
