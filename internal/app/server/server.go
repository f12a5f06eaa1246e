package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qrhrm/internal/domain/attendance"
	"qrhrm/internal/domain/audit"
	"qrhrm/internal/domain/auth"
	"qrhrm/internal/domain/employees"
	"qrhrm/internal/domain/leave"
	"qrhrm/internal/domain/payroll"
	"qrhrm/internal/domain/performance"
	"qrhrm/internal/domain/reports"
	"qrhrm/internal/platform/clock"
	"qrhrm/internal/platform/config"
	"qrhrm/internal/platform/crypto"
	"qrhrm/internal/platform/db"
	"qrhrm/internal/platform/email"
	"qrhrm/internal/platform/jobs"
	"qrhrm/internal/platform/metrics"
	"qrhrm/internal/transport/http/api"
	attendancehandler "qrhrm/internal/transport/http/handlers/attendance"
	audithandler "qrhrm/internal/transport/http/handlers/audit"
	authhandler "qrhrm/internal/transport/http/handlers/auth"
	employeeshandler "qrhrm/internal/transport/http/handlers/employees"
	leavehandler "qrhrm/internal/transport/http/handlers/leave"
	payrollhandler "qrhrm/internal/transport/http/handlers/payroll"
	performancehandler "qrhrm/internal/transport/http/handlers/performance"
	reportshandler "qrhrm/internal/transport/http/handlers/reports"
	"qrhrm/internal/transport/http/middleware"
)

const jobQueueSize = 256

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler
}

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New connects to the database, prepares the schema and wires every
// service behind the HTTP router. Background jobs are not started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	shiftStart, shiftEnd, err := cfg.ShiftBounds()
	if err != nil {
		return nil, err
	}
	box, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY: %w", err)
	}
	if cfg.IsProduction() && !box.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY is empty; MFA secrets are stored unsealed")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	clk := clock.System{}
	collector := metrics.New()
	jobsSvc := jobs.New(jobQueueSize, collector)
	mailer := email.New(cfg)
	auditSvc := audit.New(pool)

	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.AccessTokenTTL, cfg.PasswordResetTTL, clk)
	if box.Configured() {
		authSvc.Sealer = box
	}
	jobsSvc.Every(jobs.JobResetCleanup, cfg.ResetCleanupInterval, func(ctx context.Context) error {
		purged, err := authSvc.PurgeExpiredResets(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			slog.Info("expired password resets purged", "count", purged)
		}
		return nil
	})

	employeeSvc := employees.NewService(employees.NewStore(pool), clk, &employees.MailBadgeNotifier{
		Mailer: mailer,
		Jobs:   jobsSvc,
		From:   cfg.EmailFrom,
	})
	leaveSvc := leave.NewService(leave.NewStore(pool), &leave.MailDecisionNotifier{
		Mailer: mailer,
		Jobs:   jobsSvc,
		From:   cfg.EmailFrom,
	})
	payrollSvc := payroll.NewService(payroll.NewStore(pool))
	performanceSvc := performance.NewService(performance.NewStore(pool))

	reconciler := attendance.NewReconciler(attendance.NewStore(pool), clk, attendance.Policy{
		Cooldown:   cfg.AttendanceCooldown,
		ShiftStart: shiftStart,
		ShiftEnd:   shiftEnd,
		Location:   loc,
	}, attendance.WithObserver(collector))

	reportsSvc := &reports.Service{
		Store:      reports.NewStore(pool),
		Profiles:   employeeSvc,
		Attendance: reconciler,
		Leave:      leaveSvc,
		Payroll:    payrollSvc,
	}

	resetNotifier := &auth.MailResetNotifier{
		Mailer:      mailer,
		Jobs:        jobsSvc,
		From:        cfg.EmailFrom,
		FrontendURL: cfg.FrontendURL,
		TTL:         cfg.PasswordResetTTL,
	}

	scanLimiter := middleware.RateLimit(cfg.ScanRateLimitPerMinute, time.Minute, middleware.WithKeyFunc(middleware.ClientIPKey))

	handlers := []routeRegistrar{
		authhandler.NewHandler(authSvc, employeeSvc, resetNotifier, auditSvc, cfg.AllowSelfSignup),
		employeeshandler.NewHandler(employeeSvc, auditSvc),
		attendancehandler.NewHandler(reconciler, auditSvc, scanLimiter),
		leavehandler.NewHandler(leaveSvc, auditSvc),
		payrollhandler.NewHandler(payrollSvc, auditSvc, clk),
		performancehandler.NewHandler(performanceSvc),
		reportshandler.NewHandler(reportsSvc),
		audithandler.NewHandler(auditSvc),
	}

	return &App{
		Config:  cfg,
		DB:      pool,
		Jobs:    jobsSvc,
		Metrics: collector,
		Router:  NewRouter(cfg, pool, collector, handlers...),
	}, nil
}

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter applies the global middleware chain and mounts the API under
// /api, the probes, the metrics snapshot and the front end.
func NewRouter(cfg config.Config, ready Pinger, collector *metrics.Collector, handlers ...routeRegistrar) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ready.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.JSON(w, http.StatusOK, collector.Snapshot())
		})
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

func (a *App) Close() {
	a.Jobs.Wait()
	a.DB.Close()
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests
// and queued jobs.
func Run() error {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("QR HRM server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if err == nil || os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
