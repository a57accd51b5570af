// Package main - точка входа для Telegram Bot приложения Purrboard.
//
// Purrboard превращает каталог пород кошек в игру: карточки пород,
// лайки "раз на пользователя" и живой рейтинг самых любимых котиков.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, внешние API
// - Interface: Telegram Bot handlers, HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/purrboard/purrboard-bot/config"

	// Application layer
	"github.com/purrboard/purrboard-bot/internal/application/command"
	"github.com/purrboard/purrboard-bot/internal/application/query"

	// Domain ports
	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"

	// Infrastructure layer
	"github.com/purrboard/purrboard-bot/internal/infrastructure/external/catapi"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/postgres"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/purrboard/purrboard-bot/internal/interface/http"
	"github.com/purrboard/purrboard-bot/internal/interface/http/handlers"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram"

	// Packages
	"github.com/purrboard/purrboard-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// .env удобен в разработке; в production переменные приходят из окружения
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Purrboard Bot",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К ХРАНИЛИЩУ
	// Production работает на PostgreSQL; в разработке без DATABASE_URL
	// используется in-memory хранилище.
	// ─────────────────────────────────────────────────────────────────────────
	var (
		breedRepo breed.Repository
		ledger    engagement.Ledger
		lbRepo    leaderboard.Repository
		dbConn    *postgres.Connection
	)

	if cfg.Database.URL != "" {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		log.Info("database connection established")

		// Миграции применяются на старте: бот и worker идемпотентно
		// сойдутся на одной схеме.
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		breedRepo = postgres.NewBreedRepository(dbConn)
		ledger = postgres.NewEngagementRepository(dbConn)
		lbRepo = postgres.NewLeaderboardRepository(dbConn)
	} else {
		log.Warn("DATABASE_URL is not set, using in-memory store")
		store := memory.NewStore()
		breedRepo = store
		ledger = store
		lbRepo = store
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var lbCache leaderboard.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			lbCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing Cat API client...")

	catConfig := catapi.DefaultClientConfig(cfg.CatAPI.BaseURL)
	catConfig.APIKey = cfg.CatAPI.APIKey
	catConfig.Timeout = cfg.CatAPI.RequestTimeout
	catConfig.RequestsPerSecond = float64(cfg.CatAPI.RequestsPerSecond)
	catConfig.Burst = cfg.CatAPI.Burst
	catConfig.Logger = log
	catConfig.Debug = cfg.App.Debug
	catClient := catapi.NewClient(catConfig)
	catProvider := catapi.NewProvider(catClient)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	addLikeCmd := command.NewAddLikeHandler(ledger, lbCache, log)
	removeLikeCmd := command.NewRemoveLikeHandler(ledger, lbCache, log)

	searchQuery := query.NewSearchBreedsHandler(breedRepo)
	leaderboardQuery := query.NewGetLeaderboardHandler(lbRepo, lbCache, cfg.Scheduler.LeaderboardCacheTTL, log)
	randomCatQuery := query.NewGetRandomCatHandler(catProvider, breedRepo, ledger, log)
	userLikesQuery := query.NewGetUserLikesHandler(ledger)
	breedLikesQuery := query.NewGetBreedLikesHandler(ledger)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. СОЗДАНИЕ TELEGRAM BOT
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing Telegram bot...")

	botConfig := telegram.DefaultBotConfig(cfg.Telegram.Token)
	if cfg.Telegram.UseWebhook {
		botConfig.Mode = "webhook"
		botConfig.WebhookURL = cfg.Telegram.WebhookURL
	}
	botConfig.Debug = cfg.App.Debug
	botConfig.Logger = log
	botConfig.GracefulShutdownTimeout = cfg.App.ShutdownTimeout

	botDeps := telegram.BotDependencies{
		AddLikeCmd:        addLikeCmd,
		RemoveLikeCmd:     removeLikeCmd,
		SearchBreedsQuery: searchQuery,
		LeaderboardQuery:  leaderboardQuery,
		RandomCatQuery:    randomCatQuery,
		UserLikesQuery:    userLikesQuery,
	}

	bot, err := telegram.NewBot(botConfig, botDeps)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. СОЗДАНИЕ HTTP SERVER (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var httpServer *httpserver.Server

	if cfg.HTTP.Enabled {
		log.Info("initializing HTTP server...")

		healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
		if dbConn != nil {
			healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
		}
		if redisCache != nil {
			healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
		}
		healthChecker.AddCheck("cat_api", func(ctx context.Context) error {
			if !catClient.IsHealthy(ctx) {
				return errors.New("cat api circuit breaker is open")
			}
			return nil
		})

		httpConfig := httpserver.DefaultConfig()
		httpConfig.Host = cfg.HTTP.Host
		httpConfig.Port = cfg.HTTP.Port
		httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
		httpConfig.EnableCORS = cfg.HTTP.EnableCORS
		httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
		httpConfig.EnableMetrics = cfg.Observability.MetricsEnabled
		httpConfig.APIKeys = cfg.HTTP.APIKeys
		httpConfig.WebhookSecret = cfg.Telegram.WebhookSecret

		httpDeps := httpserver.Dependencies{
			SearchBreedsHandler:   searchQuery,
			GetBreedLikesHandler:  breedLikesQuery,
			GetLeaderboardHandler: leaderboardQuery,
			GetUserLikesHandler:   userLikesQuery,
			Logger:                logger.Default(),
			HealthChecker:         healthChecker,
			WebhookHandler:        handlers.NewTelegramWebhookAdapter(bot.HandleUpdate),
		}

		httpServer = httpserver.NewServer(httpConfig, httpDeps)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("starting services...")

	errCh := make(chan error, 2)

	if httpServer != nil {
		go func() {
			log.Info("starting HTTP server", "address", httpServer.Address())
			if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	go func() {
		log.Info("starting Telegram bot", "mode", botConfig.Mode)
		if err := bot.Start(ctx); err != nil {
			errCh <- fmt.Errorf("telegram bot error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Purrboard Bot is running", "telegram_mode", botConfig.Mode)

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Останавливаем бота (перестаём принимать новые запросы)
	log.Info("stopping Telegram bot...")
	if err := bot.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop bot gracefully", "error", err)
		shutdownErr = err
	}

	// 2. Останавливаем HTTP сервер
	if httpServer != nil {
		log.Info("stopping HTTP server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to stop HTTP server gracefully", "error", err)
			shutdownErr = err
		}
	}

	// 3. Redis и база данных закроются через defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" || cfg.IsDevelopment() {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
