package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aurumid/goldpos-backend/api"
	"github.com/aurumid/goldpos-backend/api/routes"
	authsvc "github.com/aurumid/goldpos-backend/internal/auth"
	cartsvc "github.com/aurumid/goldpos-backend/internal/cart"
	checkoutsvc "github.com/aurumid/goldpos-backend/internal/checkout"
	customerssvc "github.com/aurumid/goldpos-backend/internal/customers"
	goldpricessvc "github.com/aurumid/goldpos-backend/internal/goldprices"
	inventorysvc "github.com/aurumid/goldpos-backend/internal/inventory"
	pricingsvc "github.com/aurumid/goldpos-backend/internal/pricing"
	reportssvc "github.com/aurumid/goldpos-backend/internal/reports"
	transactionssvc "github.com/aurumid/goldpos-backend/internal/transactions"
	userssvc "github.com/aurumid/goldpos-backend/internal/users"
	"github.com/aurumid/goldpos-backend/pkg/config"
	"github.com/aurumid/goldpos-backend/pkg/db"
	"github.com/aurumid/goldpos-backend/pkg/logger"
	"github.com/aurumid/goldpos-backend/pkg/migrate"
	"github.com/aurumid/goldpos-backend/pkg/outbox"
	"github.com/aurumid/goldpos-backend/pkg/redis"
)

// Terminals keep the active cart alive for a full shift.
const cartSessionTTL = 12 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	usersRepo := userssvc.NewRepository(dbClient.DB())
	goldPricesRepo := goldpricessvc.NewRepository(dbClient.DB())
	inventoryRepo := inventorysvc.NewRepository(dbClient.DB())
	customersRepo := customerssvc.NewRepository(dbClient.DB())
	transactionsRepo := transactionssvc.NewRepository(dbClient.DB())
	reportsRepo := reportssvc.NewRepository(dbClient.DB())
	outboxEmitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	usersService, err := userssvc.NewService(usersRepo, cfg.Password)
	fatalOnErr(logg, "users service", err)

	authService, err := authsvc.NewService(usersRepo, cfg.JWT, logg, time.Now)
	fatalOnErr(logg, "auth service", err)

	goldPricesService, err := goldpricessvc.NewService(goldPricesRepo, dbClient, outboxEmitter, time.Now)
	fatalOnErr(logg, "gold prices service", err)

	pricingService, err := pricingsvc.NewService(goldPricesRepo, time.Now)
	fatalOnErr(logg, "pricing service", err)

	inventoryService, err := inventorysvc.NewService(inventoryRepo, dbClient, outboxEmitter)
	fatalOnErr(logg, "inventory service", err)

	customersService, err := customerssvc.NewService(customersRepo, dbClient, outboxEmitter)
	fatalOnErr(logg, "customers service", err)

	cartSessions, err := cartsvc.NewRedisSessionStore(redisClient, cartSessionTTL)
	fatalOnErr(logg, "cart session store", err)

	cartService, err := cartsvc.NewService(cartSessions, inventoryRepo, pricingService)
	fatalOnErr(logg, "cart service", err)

	transactionsService, err := transactionssvc.NewService(transactionsRepo, dbClient, outboxEmitter, time.Now)
	fatalOnErr(logg, "transactions service", err)

	checkoutService, err := checkoutsvc.NewService(transactionsService, cartSessions, logg)
	fatalOnErr(logg, "checkout service", err)

	reportsService, err := reportssvc.NewService(reportsRepo, time.Now)
	fatalOnErr(logg, "reports service", err)

	router := routes.NewRouter(cfg, logg, dbClient, routes.Services{
		Auth:         authService,
		Users:        usersService,
		GoldPrices:   goldPricesService,
		Pricing:      pricingService,
		Inventory:    inventoryService,
		Customers:    customersService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Transactions: transactionsService,
		Reports:      reportsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server, err := api.NewServer(addr, router, logg)
	fatalOnErr(logg, "http server", err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"branch": cfg.Branch.Name,
	})
	logg.Info(runCtx, "starting api server")

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "api server stopped")
}

func fatalOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
