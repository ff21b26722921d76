package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-pix-vip/internal/application"
	"telegram-pix-vip/internal/config"
	"telegram-pix-vip/internal/domain/model"
	"telegram-pix-vip/internal/domain/ports/adapter"
	"telegram-pix-vip/internal/domain/ports/repository"
	"telegram-pix-vip/internal/infra/adapters/document"
	payAdapters "telegram-pix-vip/internal/infra/adapters/payment"
	tele "telegram-pix-vip/internal/infra/adapters/telegram"
	"telegram-pix-vip/internal/infra/db/memory"
	pg "telegram-pix-vip/internal/infra/db/postgres"
	httpapi "telegram-pix-vip/internal/infra/http"
	"telegram-pix-vip/internal/infra/i18n"
	"telegram-pix-vip/internal/infra/logging"
	"telegram-pix-vip/internal/infra/metrics"
	red "telegram-pix-vip/internal/infra/redis"
	"telegram-pix-vip/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop PIX gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Storage ----
	// Without a database the bot still sells, it just forgets intents on
	// restart and leans on the gateway for every check.
	var payRepo repository.PaymentRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pool.Close()
		payRepo = pg.NewPaymentRepo(pool)
	} else {
		logger.Warn().Msg("database.url not set, falling back to in-memory payment store")
		payRepo = memory.NewPaymentRepo()
	}

	// ---- Redis (optional) ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set, rate limiting disabled")
	}

	// ---- Domain wiring ----
	catalog := model.DefaultPlanCatalog()

	var gateway adapter.PixGateway
	if cfg.Runtime.Dev {
		gateway = payAdapters.NewNoopPixGateway()
	} else {
		gateway, err = payAdapters.NewPixGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("pix gateway init failed")
		}
	}

	docs := document.NewCPFGenerator()
	planUC := usecase.NewPlanUseCase(catalog)
	paymentUC := usecase.NewPaymentUseCase(payRepo, catalog, gateway, docs, logger)

	tr, err := i18n.NewTranslator(i18n.LocalesFS, "pt-BR")
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}

	facade := application.NewBotFacade(planUC, paymentUC, tr, cfg.Links, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, tr, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented, falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Health / metrics server ----
	healthSrv := httpapi.NewServer(cfg.Health.Port, logger)
	go func() {
		if err := healthSrv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("health server shutdown failed")
	}
	cancel()
}
