package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"sams/internal/domain/audit"
	"sams/internal/domain/auth"
	"sams/internal/domain/employees"
	"sams/internal/domain/notifications"
	"sams/internal/domain/payroll"
	"sams/internal/platform/config"
	"sams/internal/platform/db"
	"sams/internal/platform/email"
	"sams/internal/platform/metrics"
	audithandler "sams/internal/transport/http/handlers/audit"
	authhandler "sams/internal/transport/http/handlers/auth"
	employeeshandler "sams/internal/transport/http/handlers/employees"
	notificationshandler "sams/internal/transport/http/handlers/notifications"
	payrollhandler "sams/internal/transport/http/handlers/payroll"
	"sams/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects to the database, runs migrations and seeding when
// enabled, and wires every service behind a single router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
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

	app := &App{Config: cfg, DB: pool}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() http.Handler {
	employeeService := employees.NewService(employees.NewStore(a.DB))
	structureStore := payroll.NewStructureStore(a.DB)
	ledger := payroll.NewLedger(payroll.NewStore(a.DB))
	notificationService := notifications.New(notifications.NewStore(a.DB), email.New(a.Config), a.Config.EmailFrom)
	payrollService := payroll.NewService(ledger, directoryAdapter{employeeService}, structureStore, notificationService)
	auditService := audit.New(a.DB)

	var collector *metrics.Collector
	if a.Config.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(1 << 20))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(a.Config.JWTSecret))
	if collector != nil {
		router.Use(middleware.Observe(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.With(middleware.RequireAuth).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			writeMetrics(w, collector)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(auth.NewStore(a.DB), a.Config.JWTSecret).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeService).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, structureStore, auditService, collector).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: a.Config.FrontendDir, indexPath: "index.html"})
	return router
}

// Run blocks serving HTTP until the listener fails.
func (a *App) Run() error {
	slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// directoryAdapter exposes the employee service to payroll, mapping
// the employees sentinel onto the one payroll knows.
type directoryAdapter struct {
	service *employees.Service
}

func (d directoryAdapter) Exists(ctx context.Context, employeeID string) (bool, error) {
	return d.service.Exists(ctx, employeeID)
}

func (d directoryAdapter) Info(ctx context.Context, employeeID string) (payroll.EmployeeInfo, error) {
	emp, err := d.service.Get(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			return payroll.EmployeeInfo{}, payroll.ErrEmployeeNotFound
		}
		return payroll.EmployeeInfo{}, err
	}
	return payroll.EmployeeInfo{
		ID:                     emp.ID,
		Name:                   emp.DisplayName(),
		Email:                  emp.Email,
		EmploymentNumber:       employees.EmploymentNumber(emp.ID),
		IncludeSocialInsurance: emp.IncludeSocialInsurance,
	}, nil
}

func writeMetrics(w http.ResponseWriter, collector *metrics.Collector) {
	if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
		slog.Warn("metrics encode failed", "err", err)
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

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
