package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assistantapp "github.com/ramenshop/backend/internal/application/assistant"
	catalogapp "github.com/ramenshop/backend/internal/application/catalog"
	commerceapp "github.com/ramenshop/backend/internal/application/commerce"
	contactapp "github.com/ramenshop/backend/internal/application/contact"
	identityapp "github.com/ramenshop/backend/internal/application/identity"
	inventoryapp "github.com/ramenshop/backend/internal/application/inventory"
	mediaapp "github.com/ramenshop/backend/internal/application/media"
	"github.com/ramenshop/backend/internal/application/notification"
	orderapp "github.com/ramenshop/backend/internal/application/order"
	reportapp "github.com/ramenshop/backend/internal/application/report"
	workforceapp "github.com/ramenshop/backend/internal/application/workforce"
	"github.com/ramenshop/backend/internal/infrastructure/auth"
	"github.com/ramenshop/backend/internal/infrastructure/cache"
	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/ramenshop/backend/internal/infrastructure/event"
	"github.com/ramenshop/backend/internal/infrastructure/llm"
	"github.com/ramenshop/backend/internal/infrastructure/logger"
	"github.com/ramenshop/backend/internal/infrastructure/mail"
	"github.com/ramenshop/backend/internal/infrastructure/persistence"
	"github.com/ramenshop/backend/internal/infrastructure/qrcode"
	"github.com/ramenshop/backend/internal/infrastructure/scheduler"
	"github.com/ramenshop/backend/internal/infrastructure/storage"
	"github.com/ramenshop/backend/internal/infrastructure/telemetry"
	"github.com/ramenshop/backend/internal/interfaces/http/handler"
	"github.com/ramenshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/ramenshop/backend/docs"
)

//	@title			Ramen Shop API
//	@version		1.0
//	@description	Storefront and back office for a ramen shop: catalog, checkout, orders, fridges, staff time tracking and reports.

//	@contact.name	Ramen Shop Engineering
//	@contact.email	dev@ramenshop.example.com

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to start telemetry", zap.Error(err))
	}
	if cfg.Telemetry.LogsEnabled {
		// rebuild the logger so records also ship through OTLP
		if withOTLP, err := logger.New(logCfg, tel.ZapCore(logger.ParseLevel(cfg.Log.Level))); err == nil {
			log = withOTLP
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Ramen Shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := run(ctx, cfg, tel, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry, log *zap.Logger) error {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentGorm(db.DB, cfg.Database.DBName, cfg.Telemetry.DBSlowQueryThresh, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	var cachePinger handler.Pinger
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		defer redisClient.Close()
		cachePinger = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	resultStore, closeStore := cache.NewIdempotencyStore(redisClient, log)
	defer closeStore()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	recipeRepo := persistence.NewGormRecipeRepository(db.DB)
	classRepo := persistence.NewGormClassRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	fridgeRepo := persistence.NewGormFridgeRepository(db.DB)
	itemRepo := persistence.NewGormProductionItemRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	productionLogRepo := persistence.NewGormProductionLogRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)
	entryRepo := persistence.NewGormTimeEntryRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	bus := event.NewInMemoryEventBus(log)

	// Infrastructure adapters
	jwtService := auth.NewJWTService(cfg.JWT)
	codes := qrcode.NewGenerator(cfg.App.PublicBaseURL)
	mailer, err := mail.NewMailer(cfg.Mail, log)
	if err != nil {
		return err
	}
	renderer, err := mail.NewRenderer(mail.WithCurrency(cfg.Commerce.Currency), mail.WithShopName(cfg.App.Name))
	if err != nil {
		return err
	}
	objects, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	var model assistantapp.LanguageModel
	if cfg.Assistant.Enabled() {
		gemini, err := llm.NewGemini(ctx, cfg.Assistant, log)
		if err != nil {
			return err
		}
		model = gemini
	} else {
		log.Info("Assistant disabled, no API key configured")
	}
	pricing, err := commerceapp.PricingFromConfig(cfg.Commerce)
	if err != nil {
		return err
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, employeeRepo, jwtService, blacklist, bus, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, employeeRepo, blacklist, bus, log)
	productService := catalogapp.NewProductService(productRepo, log)
	recipeService := catalogapp.NewRecipeService(recipeRepo, log)
	classService := catalogapp.NewClassService(classRepo, bookingRepo, txScope, bus, log)
	cartService := commerceapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := commerceapp.NewCheckoutService(cartRepo, productRepo, orderRepo, txScope, resultStore, bus, commerceapp.CheckoutConfig{
		Pricing:        pricing,
		Currency:       cfg.Commerce.Currency,
		PickupLead:     cfg.Commerce.PickupLeadTime,
		IdempotencyTTL: cfg.Commerce.IdempotencyTTL,
	}, log)
	orderService := orderapp.NewOrderService(orderRepo, bus, log)
	fridgeService := inventoryapp.NewFridgeService(fridgeRepo, itemRepo, stockRepo, movementRepo, txScope, codes, log)
	itemService := inventoryapp.NewProductionItemService(itemRepo, codes, log)
	productionService := inventoryapp.NewProductionService(productionLogRepo, itemRepo, fridgeRepo, txScope, bus, log)
	qrService := inventoryapp.NewQRService(fridgeRepo, itemRepo)
	statusService := inventoryapp.NewStatusService(fridgeRepo, itemRepo, stockRepo)
	shiftService := workforceapp.NewShiftService(shiftRepo, employeeRepo, bus, log)
	clockService := workforceapp.NewTimeClockService(entryRepo, employeeRepo, bus, cfg.TimeClock, log)
	entryService := workforceapp.NewTimeEntryService(entryRepo, employeeRepo, workforceapp.BreakPolicyFromConfig(cfg.TimeClock), log)
	employeeService := workforceapp.NewEmployeeService(employeeRepo, entryRepo, codes, log)
	reportService := reportapp.NewReportService(reportRepo, statusService, resultStore, log)
	contactService := contactapp.NewContactService(contactRepo, bus, log)
	mediaService := mediaapp.NewMediaService(objects, cfg.Storage.MaxImageBytes, cfg.Storage.PresignExpiry, log)
	assistantService := assistantapp.NewAssistantService(model, log)

	// Event subscribers
	notifier := notification.NewNotifier(mailer, renderer, orderRepo, userRepo, employeeRepo, notification.Config{
		BaseURL:      cfg.App.PublicBaseURL,
		AdminAddress: cfg.Mail.AdminAddress,
		ShopName:     cfg.App.Name,
	}, log)
	bus.Subscribe(event.NewIdempotentHandler("notifier", notifier, resultStore, log))
	if cfg.Telemetry.MetricsEnabled {
		shopMetrics, err := telemetry.NewShopMetrics(tel.Meter("ramenshop"))
		if err != nil {
			return err
		}
		bus.Subscribe(shopMetrics)
	}
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := bus.Stop(stopCtx); err != nil {
			log.Warn("Event bus did not drain", zap.Error(err))
		}
	}()

	// Background sweeper
	sweeper := scheduler.NewSweeper(scheduler.Config{
		Interval:   cfg.Scheduler.SweepInterval,
		JobTimeout: cfg.Scheduler.JobTimeout,
	}, log)
	if cfg.Scheduler.Enabled {
		digest := notification.NewStockDigest(statusService, mailer, renderer, cfg.Scheduler.ExpiryWindow, cfg.Scheduler.DigestRecipients, log)
		tasks := []scheduler.Task{
			digest.Task(24 * time.Hour),
			{
				Name:  "flag-stale-time-entries",
				Every: time.Hour,
				Run: func(ctx context.Context) error {
					_, err := clockService.FlagStaleEntries(ctx)
					return err
				},
			},
		}
		for _, task := range tasks {
			if err := sweeper.Register(task); err != nil {
				return err
			}
		}
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = sweeper.Stop(stopCtx)
		}()
	}

	opts := router.Options{
		Config:    cfg,
		Logger:    log,
		JWT:       jwtService,
		Blacklist: blacklist,
		Handlers: router.Handlers{
			Auth:       handler.NewAuthHandler(authService),
			User:       handler.NewUserHandler(userService),
			Product:    handler.NewProductHandler(productService),
			Recipe:     handler.NewRecipeHandler(recipeService),
			Class:      handler.NewClassHandler(classService),
			Cart:       handler.NewCartHandler(cartService, checkoutService),
			Order:      handler.NewOrderHandler(orderService),
			Fridge:     handler.NewFridgeHandler(fridgeService),
			Production: handler.NewProductionHandler(itemService, productionService, qrService),
			Shift:      handler.NewShiftHandler(shiftService),
			TimeClock:  handler.NewTimeClockHandler(clockService, entryService),
			Employee:   handler.NewEmployeeHandler(employeeService),
			Report:     handler.NewReportHandler(reportService),
			Contact:    handler.NewContactHandler(contactService),
			Upload:     handler.NewUploadHandler(mediaService),
			Assistant:  handler.NewAssistantHandler(assistantService),
			System:     handler.NewSystemHandler(cfg.App.Name, version, db, cachePinger),
		},
	}
	if cfg.Telemetry.MetricsEnabled {
		opts.Meter = tel.Meter("http")
	}
	engine, stopLimiters := router.New(opts)
	defer stopLimiters()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newObjectStorage returns S3 storage when configured and a stub that
// only builds URLs otherwise
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (mediaapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, uploads are not persisted")
		return storage.NewStubObjectStorage(cfg.Storage.PublicBaseURL), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Could not verify upload bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3, nil
}
