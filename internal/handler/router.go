package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/middleware"
	"github.com/spendlog/spendlog/internal/service"
)

// RouterConfig carries everything the route table needs.
type RouterConfig struct {
	Logger   *slog.Logger
	Views    *Views
	Metrics  metrics.Recorder
	Snapshot metrics.Snapshotter

	Auth     *service.AuthService
	Expenses *service.ExpenseService
	Budgets  *service.BudgetService
	Reports  *service.ReportService

	DB     middleware.ConnAcquirer
	DBPing HealthChecker
	Redis  HealthChecker

	Limiter            middleware.AuthLimiter
	RateLimitEnabled   bool
	RateLimitPerMinute int
	RateLimitBurst     int

	CookieName         string
	SecureCookies      bool
	IsDevelopment      bool
	MaxRequestBodySize int64
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := New(cfg.Views)
	healthHandler := NewHealthHandler(cfg.DBPing, cfg.Redis)
	metricsHandler := NewMetricsHandler(cfg.Snapshot)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Views, cfg.Logger, cfg.CookieName, cfg.SecureCookies)
	expenseHandler := NewExpenseHandler(cfg.Expenses, cfg.Views)
	budgetHandler := NewBudgetHandler(cfg.Budgets, cfg.Views)
	reportHandler := NewReportHandler(cfg.Reports, cfg.Views)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes skip the per-request connection so they report pool exhaustion.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:    cfg.Logger,
		Limiter:   cfg.Limiter,
		Enabled:   cfg.RateLimitEnabled,
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.DBConn(cfg.Logger, cfg.DB))
		r.Use(middleware.LoadPrincipal(middleware.SessionConfig{
			Logger:        cfg.Logger,
			Authenticator: cfg.Auth,
			CookieName:    cfg.CookieName,
			Secure:        cfg.SecureCookies,
		}))

		r.Get("/", h.Index)
		r.Get("/check-email", authHandler.CheckEmail)

		// Guest-only pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated)
			r.Use(middleware.RateLimitAuth(rateLimitCfg))

			r.Get("/register", authHandler.RegisterForm)
			r.Post("/register", authHandler.Register)
			r.Get("/login", authHandler.LoginForm)
			r.Post("/login", authHandler.Login)
		})

		// Logged-in pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)

			r.Get("/logout", authHandler.Logout)
			r.Get("/dashboard", reportHandler.Dashboard)
			r.Get("/add-expense", expenseHandler.AddForm)
			r.Post("/add-expense", expenseHandler.Add)
			r.Get("/set-budget", budgetHandler.SetForm)
			r.Post("/set-budget", budgetHandler.Set)
			r.Get("/reports", reportHandler.Reports)
			r.Post("/reports", reportHandler.Reports)
			r.Get("/export/{month}", reportHandler.Export)
		})

		// Registered on the root mux, wrapped with this group's middleware.
		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)
	})

	return r
}
