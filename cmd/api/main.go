package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/config"
	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-go/internal/repository/collection"
	"github.com/cmlabs-hris/attendance-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/attendance-go/internal/repository/postgresql"
	alertService "github.com/cmlabs-hris/attendance-go/internal/service/alert"
	attendanceService "github.com/cmlabs-hris/attendance-go/internal/service/attendance"
	reportService "github.com/cmlabs-hris/attendance-go/internal/service/report"
	userService "github.com/cmlabs-hris/attendance-go/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	blobStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := blobStorage.Close(context.Background()); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	settings := attendance.Settings{
		WorkStartTime:      cfg.Attendance.WorkStartTime,
		WorkEndTime:        cfg.Attendance.WorkEndTime,
		LateThreshold:      cfg.Attendance.LateThresholdMin,
		OvertimeThreshold:  cfg.Attendance.OvertimeThresholdHr,
		ApplyLateThreshold: cfg.Attendance.ApplyLateThreshold,
		Location:           loc,
	}
	clk := clock.New(loc)

	userRepo := collection.NewUserRepository(blobStorage)
	attendanceRepo := collection.NewAttendanceRepository(blobStorage)
	alertRepo := collection.NewAlertRepository(blobStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	var notifiers []alert.Notifier
	if emailService.Enabled() {
		notifiers = append(notifiers, alertService.NewEmailNotifier(userRepo, emailService, loc))
	}

	hub := sse.NewHub[alert.Alert]()
	alertSvc := alertService.NewAlertService(alertRepo, userRepo, attendanceRepo, hub, clk, loc, alertService.Config{}, notifiers...)
	defer alertSvc.Stop()

	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, alertRepo, alertSvc, settings, clk)
	reportSvc, err := reportService.NewReportService(attendanceRepo, userRepo, clk, loc)
	if err != nil {
		return fmt.Errorf("failed to initialize report service: %w", err)
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(alertSvc, settings, clk).RegisterJobs(scheduler, cfg.Attendance.AbsenceScanInterval)
	scheduler.Start()
	defer func() {
		scheduler.Stop()
		for _, st := range scheduler.Status() {
			slog.Info("Cron job summary", "name", st.Name, "runs", st.Runs, "failures", st.Failures, "last_error", st.LastError)
		}
	}()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Logger: logger, AllowedOrigins: cfg.App.CORSAllowedOrigins},
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewUserHandler(userSvc),
		appHTTP.NewAlertHandler(alertSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open alert streams only return once their subscription ends.
	server.RegisterOnShutdown(hub.Close)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openStorage selects the blob backend named by STORAGE_TYPE.
func openStorage(ctx context.Context, cfg *config.Config) (storage.BlobStorage, error) {
	switch cfg.Storage.Type {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "local":
		s, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return s, nil
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		s := postgresql.NewBlobStorage(db)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Name)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		slog.Warn("Storage disabled, data will not be persisted")
		return storage.Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
