package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/catalog"
	"github.com/Simplici0/printdesk/internal/config"
	"github.com/Simplici0/printdesk/internal/db"
	"github.com/Simplici0/printdesk/internal/format"
	"github.com/Simplici0/printdesk/internal/logging"
	"github.com/Simplici0/printdesk/internal/migrations"
	"github.com/Simplici0/printdesk/internal/seed"
	"github.com/Simplici0/printdesk/internal/store"
)

type server struct {
	auth     *authService
	store    *store.Store
	catalog  *catalog.Cached
	format   format.Formatter
	logger   *zap.Logger
	fallback pricingDefaults
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("printdesk: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		version, err := migrations.Up(ctx, database)
		if err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
		logger.Info("migrations applied", zap.Int64("version", version))
	}

	stats, err := seed.Run(ctx, database, seed.Config{
		AdminEmail:            cfg.AdminEmail,
		AdminPassword:         cfg.AdminPassword,
		DefaultProfitMargin:   cfg.DefaultProfitMargin,
		ElectricityCostPerKWh: cfg.ElectricityCostPerKWh,
		DefaultTaxPercent:     cfg.DefaultTaxPercent,
	})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts))

	srv, err := newServer(database, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.catalog.Close()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newServer(database *sql.DB, cfg config.Config, logger *zap.Logger) (*server, error) {
	st := store.New(database)
	cached, err := catalog.NewCached(st, cfg.CatalogCacheTTL)
	if err != nil {
		return nil, err
	}

	return &server{
		auth:    newAuthService(database, cfg.SessionSecret),
		store:   st,
		catalog: cached,
		format:  format.New(cfg.Currency),
		logger:  logger,
		fallback: pricingDefaults{
			ProfitMargin:          cfg.DefaultProfitMargin,
			ElectricityCostPerKWh: cfg.ElectricityCostPerKWh,
			TaxPercent:            cfg.DefaultTaxPercent,
		},
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(s.authMiddleware)

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/filaments", s.handleFilamentList)
		r.Post("/filaments", s.handleFilamentSave)
		r.Get("/printers", s.handlePrinterList)
		r.Post("/printers", s.handlePrinterSave)
		r.Get("/work-packages", s.handleWorkPackageList)
		r.Post("/work-packages", s.handleWorkPackageSave)

		r.Get("/settings", s.handleSettingsGet)
		r.Put("/settings", s.handleSettingsUpdate)

		r.Post("/calculate", s.handleCalculate)
		r.Post("/sales/cost", s.handleSaleCost)

		r.Post("/quotations", s.handleQuotationCreate)
		r.Get("/quotations", s.handleQuotationList)
		r.Get("/quotations/{ref}", s.handleQuotationDetail)
		r.Get("/quotations/{ref}/text", s.handleQuotationText)

		r.Post("/printing-history/calculate", s.handlePrintHistoryCalculate)
		r.Post("/printing-history", s.handlePrintHistoryCreate)
		r.Get("/printing-history", s.handlePrintHistoryList)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
