package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/shiftlog/shiftlog-backend-go/internal/config"
	appHTTP "github.com/shiftlog/shiftlog-backend-go/internal/handler/http"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/cron"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/database"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/jwt"
	"github.com/shiftlog/shiftlog-backend-go/internal/pkg/slack"
	"github.com/shiftlog/shiftlog-backend-go/internal/repository/postgresql"
	exportService "github.com/shiftlog/shiftlog-backend-go/internal/service/export"
	reportService "github.com/shiftlog/shiftlog-backend-go/internal/service/report"
	timesheetService "github.com/shiftlog/shiftlog-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	timesheetRepo := postgresql.NewTimesheetRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	slackClient := slack.NewClient(cfg.Slack.WebhookURL)

	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, reportRepo, cfg.App.Location, cfg.Policy.MaxSessionsPerDay)
	reportSvc := reportService.NewReportService(reportRepo)
	exportSvc := exportService.NewExportService(timesheetSvc, slackClient, cfg.App.Location)

	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	exportHandler := appHTTP.NewExportHandler(exportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		timesheetHandler,
		reportHandler,
		exportHandler,
	)

	// Monthly Slack delivery runs only when a webhook and recipients are set.
	if cfg.Slack.WebhookURL != "" && len(cfg.Slack.ExportUserIDs) > 0 {
		scheduler := cron.NewScheduler(cfg.App.Location)
		exportJobs := cron.NewExportJobs(exportSvc, cfg.Slack.ExportUserIDs, cfg.App.Location)
		if err := scheduler.AddJob(cfg.Slack.ExportCron, "monthly-slack-export", exportJobs.PostPreviousMonth); err != nil {
			log.Fatal("Failed to schedule monthly export:", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
