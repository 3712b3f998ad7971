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

	"github.com/go-chi/httplog/v3"
	"github.com/parlour-hq/parlour-backend-go/internal/config"
	"github.com/parlour-hq/parlour-backend-go/internal/domain/attendance"
	appHTTP "github.com/parlour-hq/parlour-backend-go/internal/handler/http"
	"github.com/parlour-hq/parlour-backend-go/internal/handler/http/response"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/cache"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/cron"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/database"
	"github.com/parlour-hq/parlour-backend-go/internal/pkg/jwt"
	"github.com/parlour-hq/parlour-backend-go/internal/repository/postgresql"
	analyticsService "github.com/parlour-hq/parlour-backend-go/internal/service/analytics"
	archiveService "github.com/parlour-hq/parlour-backend-go/internal/service/archive"
	attendanceService "github.com/parlour-hq/parlour-backend-go/internal/service/attendance"
	serviceAuth "github.com/parlour-hq/parlour-backend-go/internal/service/auth"
	employeeService "github.com/parlour-hq/parlour-backend-go/internal/service/employee"
	realtimeService "github.com/parlour-hq/parlour-backend-go/internal/service/realtime"
	salaryService "github.com/parlour-hq/parlour-backend-go/internal/service/salary"
	taskService "github.com/parlour-hq/parlour-backend-go/internal/service/task"
	userService "github.com/parlour-hq/parlour-backend-go/internal/service/user"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout     = 15 * time.Second
	startupCleanupDelay = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsDevelopment())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "parlour"),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
	response.ExposeInternalErrors(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	loc := cfg.Scheduler.Location
	tx := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	taskRepo := postgresql.NewTaskRepository(db, loc)
	previousStaffRepo := postgresql.NewPreviousStaffRepository(db)
	analyticsRepo := postgresql.NewAnalyticsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	realtimeSvc := realtimeService.NewRealtimeService(employeeRepo)

	var statsCache attendance.StatsCache
	if rdb != nil {
		statsCache = cache.NewAttendanceStatsCache(rdb, cfg.Redis.StatsCacheTTL)
	}

	authSvc := serviceAuth.NewAuthService(tx, userRepo, employeeRepo, statsCache, JWTService)
	userSvc := userService.NewUserService(tx, userRepo, employeeRepo, statsCache, realtimeSvc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, statsCache, realtimeSvc)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, employeeRepo, statsCache, realtimeSvc, loc)
	salarySvc := salaryService.NewSalaryService(tx, salaryRepo, employeeRepo, realtimeSvc, cfg.App.SalonName, loc)
	taskSvc := taskService.NewTaskService(taskRepo, employeeRepo, salaryRepo, realtimeSvc, loc)
	archiveSvc := archiveService.NewArchiveService(tx, employeeRepo, salaryRepo, userRepo, previousStaffRepo, statsCache, realtimeSvc)
	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepo, loc)

	// Scheduler
	var schedulerOpts []cron.Option
	if rdb != nil {
		schedulerOpts = append(schedulerOpts, cron.WithLocker(cache.NewLocker(rdb, "parlour:lock:"), cfg.Scheduler.JobLockTTL))
	}
	scheduler := cron.NewScheduler(loc, schedulerOpts...)
	if err := cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register attendance jobs: %w", err)
	}
	if err := cron.NewStaffJobs(archiveSvc, taskSvc, cfg.Scheduler.PrioritySweepInterval).RegisterJobs(scheduler); err != nil {
		return fmt.Errorf("register staff jobs: %w", err)
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc, archiveSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc),
		Salary:     appHTTP.NewSalaryHandler(salarySvc, employeeSvc),
		Analytics:  appHTTP.NewAnalyticsHandler(analyticsSvc),
		Realtime:   appHTTP.NewRealtimeHandler(JWTService, realtimeSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()
	scheduler.TriggerAfter(cron.JobDepartureCleanup, startupCleanupDelay)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr, "timezone", loc.String(), "redis", rdb != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		scheduler.Stop()
		if err := realtimeSvc.Close(); err != nil {
			slog.Warn("closing realtime hub", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
