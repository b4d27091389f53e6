package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/joho/godotenv/autoload"

	"crm-dashboard-service/internal/cache"
	"crm-dashboard-service/internal/config"
	"crm-dashboard-service/internal/controller"
	"crm-dashboard-service/internal/db"
	"crm-dashboard-service/internal/graph"
	httpserver "crm-dashboard-service/internal/http"
	"crm-dashboard-service/internal/integration"
	"crm-dashboard-service/internal/repository"
	"crm-dashboard-service/internal/routes"
	"crm-dashboard-service/internal/service"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	statusCache := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, log)

	users := repository.NewUserRepository(pool)
	integrations := repository.NewIntegrationRepository(pool)
	insights := repository.NewInsightRepository(pool)
	leads := repository.NewLeadRepository(pool)

	redirectURL := cfg.AppBaseURL + "/api/facebook/connect/callback"
	graphClient := graph.NewClient(graph.Config{
		AppID:       cfg.FacebookAppID,
		AppSecret:   cfg.FacebookAppSecret,
		RedirectURL: redirectURL,
		Version:     cfg.GraphAPIVersion,
	})

	facebook := integration.NewFacebook(graphClient, users, integrations, insights, leads, statusCache, log)
	whatsapp := integration.NewWhatsApp(cfg.WhatsAppClientID, cfg.AppBaseURL+"/api/whatsapp/connect/callback")
	registry := integration.NewRegistry(facebook, whatsapp)

	worker := service.NewSyncWorker(facebook, cfg.SyncQueueSize, log)

	controllers := routes.Controllers{
		Auth:        controller.NewAuthController(service.NewUserService(users)),
		Integration: controller.NewIntegrationController(registry),
		Facebook:    controller.NewFacebookController(facebook, worker, cfg.AppBaseURL+"/dashboard"),
		Lead:        controller.NewLeadController(service.NewLeadService(leads)),
	}

	server := httpserver.NewServer(cfg, controllers)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}

	worker.Shutdown()
}
