package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"neuronix/internal/adapter/repo"
	"neuronix/internal/chat"
	"neuronix/internal/domain"
	"neuronix/internal/entitlement"
	"neuronix/internal/gateway"
	"neuronix/internal/http/handlers"
	httpapi "neuronix/internal/http/httpapi"
	"neuronix/internal/infra"
	"neuronix/internal/infra/geoip"
	"neuronix/internal/middleware"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	accounts := repo.NewAccountRepository(dbpool)
	convs := repo.NewConversationRepository(dbpool)
	msgs := repo.NewMessageRepository(dbpool)
	usage := repo.NewUsageRepository(dbpool)
	receipts := repo.NewReceiptRepository(dbpool)

	registry, err := domain.NewRegistry(domain.DefaultModels())
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid model registry")
	}

	engine := entitlement.NewEngine(accounts)

	gw, err := gateway.NewClient(gateway.Options{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Timeout: cfg.GatewayTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid gateway configuration")
	}

	sessions := chat.NewManager(engine, gw, convs, msgs, registry, logger)

	app := &handlers.App{
		Logger:    logger,
		Accounts:  accounts,
		Convs:     convs,
		Msgs:      msgs,
		Usage:     usage,
		Receipts:  receipts,
		Engine:    engine,
		Registry:  registry,
		Sessions:  sessions,
		Gateway:   gw,
		JWTSecret: cfg.JWTSecret,
	}

	// Country tagging stays off when no GeoIP database is configured.
	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
		if closer, ok := resolver.(*geoip.Resolver); ok {
			defer closer.Close()
		}
	}

	router := httpapi.NewRouter(cfg, app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
