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

	"github.com/cmlabs-hris/staff-ledger/internal/config"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/staff-ledger/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/staff-ledger/internal/handler/http"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/clock"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/email"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/notify"
	"github.com/cmlabs-hris/staff-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/staff-ledger/internal/repository/memory"
	"github.com/cmlabs-hris/staff-ledger/internal/repository/mongodb"
	"github.com/cmlabs-hris/staff-ledger/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/staff-ledger/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/staff-ledger/internal/service/leave"
	reportService "github.com/cmlabs-hris/staff-ledger/internal/service/report"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 15 * time.Second

// repositories is the storage selected by STORAGE_DRIVER.
type repositories struct {
	attendance attendance.AttendanceRepository
	leave      leave.LeaveRequestRepository
	staff      staffStore
	close      func(ctx context.Context)
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
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

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close(context.Background())

	if cfg.Seed.StaffFile != "" {
		n, err := seedDirectory(ctx, repos.staff, cfg.Seed.StaffFile)
		if err != nil {
			return err
		}
		slog.Info("Staff directory seeded", "count", n, "file", cfg.Seed.StaffFile)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	hub := sse.NewHub()
	emailNotifier, err := email.NewNotifier(cfg.SMTP, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize email notifier: %w", err)
	}
	notifier := notify.Fanout{emailNotifier, hub}
	if cfg.App.Env == "development" {
		notifier = append(notifier, notify.Log{Logger: logger})
	}

	clk := clock.System()
	clockEngine := attendanceService.NewAttendanceService(repos.attendance, repos.staff, clk, attendanceService.Config{
		Location:     cfg.Ledger.Location,
		HalfDayHours: cfg.Ledger.HalfDayHours,
		LateAfter:    cfg.Ledger.LateAfter,
	})
	ledger := leaveService.NewLeaveService(repos.leave, repos.staff, notifier, clk)
	aggregator := reportService.NewReportService(repos.attendance, repos.leave, repos.staff)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(repos.attendance, repos.staff, notifier, clk, cfg.Ledger.Location).
		RegisterJobs(scheduler, cfg.Ledger.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, cfg.CORS.AllowedOrigins, JWTService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(clockEngine),
		Leave:        appHTTP.NewLeaveHandler(ledger),
		Report:       appHTTP.NewReportHandler(aggregator),
		Notification: appHTTP.NewNotificationHandler(hub, repos.staff, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "timezone", cfg.Ledger.Timezone)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			leave:      postgresql.NewLeaveRequestRepository(db),
			staff:      postgresql.NewStaffDirectory(db),
			close:      func(context.Context) { db.Close() },
		}, nil

	case config.DriverMongoDB:
		db, err := database.NewMongoDB(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return &repositories{
			attendance: mongodb.NewAttendanceRepository(db),
			leave:      mongodb.NewLeaveRequestRepository(db),
			staff:      mongodb.NewStaffDirectory(db),
			close: func(ctx context.Context) {
				if err := db.Close(ctx); err != nil {
					slog.Warn("Failed to close mongodb client", "error", err)
				}
			},
		}, nil

	case config.DriverMemory:
		db := memory.Open()
		slog.Warn("Using in-memory storage, records are lost on restart")
		return &repositories{
			attendance: memory.NewAttendanceRepository(db),
			leave:      memory.NewLeaveRequestRepository(db),
			staff:      memory.NewDirectory(db),
			close:      func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
