package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/config"
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	appHTTP "github.com/absensi-app/attendance-backend-go/internal/handler/http"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/cron"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/database"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/jwt"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/sse"
	"github.com/absensi-app/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/absensi-app/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/absensi-app/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/absensi-app/attendance-backend-go/internal/service/dashboard"
	reportService "github.com/absensi-app/attendance-backend-go/internal/service/report"
	shiftService "github.com/absensi-app/attendance-backend-go/internal/service/shift"
	userService "github.com/absensi-app/attendance-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "absensi"),
		slog.String("env", cfg.App.Env),
	)
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(db, logger); err != nil {
			return err
		}
	}

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db, loc)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	tx := postgresql.NewTransactor(db)

	hub := sse.NewHub()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.AccessTTL())
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(userRepo)
	shiftSvc := shiftService.NewShiftService(tx, shiftRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, shiftRepo, userRepo, attendanceService.Options{
		Location:           loc,
		Window:             shift.NewWindow(cfg.Attendance.EarlyMinutes, cfg.Attendance.LateMinutes),
		CenterLatitude:     cfg.Attendance.CenterLatitude,
		CenterLongitude:    cfg.Attendance.CenterLongitude,
		RadiusKm:           cfg.Attendance.RadiusKm,
		EnforceShiftWindow: cfg.Attendance.EnforceShiftGate,
		EnforceGeofence:    cfg.Attendance.EnforceGeofence,
		Hub:                hub,
	})
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, loc)

	if err := userSvc.EnsureAdmin(ctx, cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		return err
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler, cfg.Attendance.StaleSweepEvery)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, hub),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc, loc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		LogLevel:       parseLevel(cfg.App.LogLevel),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
