package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tsmartwarehouse/internal/audit"
	"tsmartwarehouse/internal/auth"
	"tsmartwarehouse/internal/config"
	"tsmartwarehouse/internal/httpapi"
	"tsmartwarehouse/internal/metrics"
	"tsmartwarehouse/internal/payments"
	"tsmartwarehouse/internal/pricing"
	"tsmartwarehouse/internal/quote"
	"tsmartwarehouse/internal/reporting"
	"tsmartwarehouse/internal/warehouse"
	"tsmartwarehouse/pkg/logger"
	"tsmartwarehouse/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Repositories
	warehouseRepo := warehouse.NewPostgresRepo(db)
	pricingRepo := pricing.NewPostgresRepo(db)
	quoteRepo := quote.NewPostgresRepo(db)
	auditRepo := audit.NewPostgresRepo(db)

	// Services
	auditSvc := audit.NewService(auditRepo)
	pricingSvc := pricing.NewService(pricingRepo)
	quoteSvc := quote.NewService(quoteRepo)
	warehouseSvc := warehouse.NewService(warehouseRepo, auditSvc)
	reportingSvc := reporting.NewService(reporting.QuoteRepoAdapter{Quotes: quoteRepo})

	h := httpapi.Handlers{
		Auth:       authManager,
		Pricing:    pricingSvc,
		Quotes:     quoteSvc,
		Warehouses: warehouseSvc,
		Reporting:  reportingSvc,
		Metrics:    metrics.NewRecorder(),

		Redis:       rdb,
		QuoteCap:    50,
		QuoteCapTTL: 30 * time.Second,
	}

	webhook := payments.WebhookHandler{
		Verifier: payments.NewVerifier(cfg.Payments.WebhookSecret, cfg.Payments.SignatureTolerance),
		Sink:     payments.AuditSink{Audit: auditSvc},
		Metrics:  h.Metrics,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, auth.RequireAccessToken(authManager), webhook)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
