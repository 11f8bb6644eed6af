package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/staff-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Report       ReportHandler
	Notification NotificationHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates with a short-lived query token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Post("/notifications/token", h.Notification.GetSSEToken)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.Apply)
				r.Put("/{id}", h.Leave.Update)
				r.Delete("/{id}", h.Leave.Withdraw)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", h.Leave.ListPending)
					r.Post("/{id}/decision", h.Leave.Decide)
				})
			})

			r.Route("/staff/{staffID}", func(r chi.Router) {
				r.Use(middleware.SelfOrAdmin)
				r.Get("/attendance", h.Attendance.List)
				r.Get("/attendance/summary", h.Attendance.Summary)
				r.Get("/leaves", h.Leave.ListForStaff)
				r.Get("/leave-balance", h.Leave.Balance)
			})

			// Admin only
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/attendance/monthly", h.Report.MonthlyAttendance)
				r.Get("/attendance/annual", h.Report.AnnualAttendance)
				r.Get("/attendance/top", h.Report.TopPerformers)
				r.Get("/leave/monthly", h.Report.MonthlyLeave)
				r.Get("/leave/chart", h.Report.LeaveChart)
				r.Get("/leave/prediction/{staffID}", h.Report.LeavePrediction)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	})

	return r
}
