package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftlog/shiftlog-backend-go/internal/handler/http/middleware"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	timesheetHandler TimesheetHandler,
	reportHandler ReportHandler,
	exportHandler ExportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftlog"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timesheet", func(r chi.Router) {
				r.Post("/clock-in", timesheetHandler.ClockIn)
				r.Post("/clock-out", timesheetHandler.ClockOut)
				r.Post("/break/start", timesheetHandler.StartBreak)
				r.Post("/break/end", timesheetHandler.EndBreak)

				r.Get("/status", timesheetHandler.GetStatus)
				r.Get("/weekly-summary", timesheetHandler.GetWeeklySummary)

				r.Route("/days/{date}", func(r chi.Router) {
					r.Get("/", timesheetHandler.GetDay)
					r.Put("/", timesheetHandler.ReplaceDay)
				})
				r.Get("/months/{month}", timesheetHandler.GetMonth)
			})

			r.Route("/reports/{date}", func(r chi.Router) {
				r.Get("/", reportHandler.Get)
				r.Put("/", reportHandler.Update)
			})

			r.Route("/export/{month}", func(r chi.Router) {
				r.Get("/csv", exportHandler.DownloadCSV)
				r.Post("/slack", exportHandler.PostToSlack)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Put("/admin/users/{userID}/days/{date}", timesheetHandler.ReplaceDayForUser)
			})
		})
	})
	return r
}
