package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/config"
	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainGateway "github.com/sangkips/schoolfees-api/internal/domain/gateway"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/database"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/gateway"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/kvstore"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/repository"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/handler"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/middleware"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/routes"
	"github.com/sangkips/schoolfees-api/pkg/email"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"github.com/sangkips/schoolfees-api/pkg/printer"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.App.Debug, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg, zl)
	if err != nil {
		zl.Fatal("failed to open storage", zap.Error(err))
	}

	bus := events.NewBus(zl.Named("events"))
	clock := service.NewClock(cfg.App.Location())

	// Initialize repositories
	repoLog := zl.Named("repository")
	feeTypeRepo := repository.NewFeeTypeRepository(store, bus, repoLog)
	discountRepo := repository.NewDiscountRepository(store, bus, repoLog)
	studentRepo := repository.NewStudentRepository(store, bus, repoLog)
	collectionRepo := repository.NewCollectionRepository(store, bus, repoLog)
	attemptRepo := repository.NewPaymentAttemptRepository(store, bus, repoLog)
	settingsRepo := repository.NewSettingsRepository(store, bus, repoLog)
	idempotencyRepo := repository.NewIdempotencyRepository(store, repoLog)

	// Initialize services
	svcLog := zl.Named("service")
	resolver := service.NewFeeResolver(feeTypeRepo, discountRepo, studentRepo, clock, svcLog)
	overdue := service.NewOverdueAggregator(collectionRepo)
	collectionService := service.NewCollectionService(collectionRepo, studentRepo, resolver, overdue, clock, svcLog)
	studentService := service.NewStudentService(studentRepo, collectionRepo, svcLog)
	feeTypeService := service.NewFeeTypeService(feeTypeRepo)
	discountService := service.NewDiscountService(discountRepo, clock)
	schoolService := service.NewSchoolService(settingsRepo, entity.SchoolInfo{
		Name:     cfg.App.Name,
		Currency: cfg.App.Currency,
	})

	// Students' feesDue follows every change to the collections
	unsubscribe := studentService.Subscribe(bus)
	defer unsubscribe()

	paymentService := service.NewPaymentService(service.PaymentServiceConfig{
		Attempts:    attemptRepo,
		Collections: collectionService,
		Online:      onlineGateway(cfg, zl),
		Counter:     gateway.NewManualGateway(),
		Clock:       clock,
		AttemptTTL:  cfg.Payment.AttemptTTL,
		Currency:    cfg.App.Currency,
		Log:         svcLog,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Options{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		zl.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		thermalPrinter = printer.Discard()
	}
	printerService := service.NewPrinterService(thermalPrinter, collectionRepo, studentRepo, schoolService, clock, cfg.Printer.Width, svcLog)
	receiptMailer := service.NewReceiptMailer(printerService, receiptSender(cfg, zl), svcLog)
	dashboardService := service.NewDashboardService(collectionRepo, studentRepo, attemptRepo, clock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.App.SeedDemoData {
		if err := database.SeedDemoData(ctx, database.DemoStores{
			FeeTypes:    feeTypeRepo,
			Students:    studentRepo,
			Collections: collectionRepo,
		}, zl); err != nil {
			zl.Warn("failed to seed demo data", zap.Error(err))
		}
	}

	// Bring cached dues in line with whatever is already stored
	if n, err := studentService.SyncFeesDue(ctx); err != nil {
		zl.Warn("initial feesDue sync failed", zap.Error(err))
	} else if n > 0 {
		zl.Info("synced student dues", zap.Int("changed", n))
	}

	if cfg.Scheduler.Enabled {
		scheduler := service.NewScheduler(studentService, paymentService, idempotencyRepo, clock, zl.Named("scheduler"))
		if err := scheduler.Register(service.SchedulerSpecs{
			Reconcile:      cfg.Scheduler.ReconcileSpec,
			ExpirePayments: cfg.Scheduler.ExpirePaymentsSpec,
			IdempotencyGC:  cfg.Scheduler.IdempotencyGCSpec,
		}); err != nil {
			zl.Fatal("invalid scheduler spec", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Close()

	// Initialize handlers
	handlers := &routes.Handlers{
		Collection: handler.NewCollectionHandler(collectionService, printerService, receiptMailer),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Fee:        handler.NewFeeHandler(feeTypeService, discountService),
		Student:    handler.NewStudentHandler(studentService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Settings:   handler.NewSettingsHandler(schoolService),
		Printer:    handler.NewPrinterHandler(printerService),
		Event:      handler.NewEventHandler(bus),
		Health:     handler.NewHealthHandler(cfg.App.Name, store),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             zl.Named("http"),
		Roles:           schoolService,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server", zap.String("service", cfg.App.Name), zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore returns the key-value store selected by STORAGE_DRIVER.
func openStore(cfg *config.Config, zl *zap.Logger) (domainRepo.KVStore, error) {
	if cfg.Storage.Driver == "memory" {
		zl.Info("using in-memory storage", zap.Int("quota_bytes", cfg.Storage.MemoryQuotaBytes))
		return kvstore.NewMemoryStore(cfg.Storage.MemoryQuotaBytes), nil
	}

	dbLog := zl.Named("database")
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, dbLog)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, dbLog); err != nil {
		return nil, err
	}
	return kvstore.NewGormStore(db), nil
}

func onlineGateway(cfg *config.Config, zl *zap.Logger) domainGateway.Gateway {
	if cfg.Payment.Gateway == "midtrans" {
		return gateway.NewMidtransGateway(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransProduction, zl.Named("midtrans"))
	}
	return nil
}

// receiptSender returns nil when SMTP is not configured, which disables
// the receipt email endpoint.
func receiptSender(cfg *config.Config, zl *zap.Logger) email.Sender {
	ec := email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	}
	if !ec.Enabled() {
		zl.Info("SMTP not configured, receipt emails disabled")
		return nil
	}
	return email.NewSMTPSender(ec)
}
