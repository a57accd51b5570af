// Package main - точка входа для фоновых процессов (Worker) Purrboard.
//
// Worker отвечает за периодические задачи:
// - Синхронизация каталога пород с Cat API
// - Пересчёт и прогрев кеша рейтинга
//
// Лайки и рейтинг живут только в локальном леджере; Worker никогда
// не трогает счётчики лайков, только зеркалит описательные данные.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/purrboard/purrboard-bot/config"

	// Infrastructure layer
	"github.com/purrboard/purrboard-bot/internal/infrastructure/external/catapi"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/postgres"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/redis"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/scheduler"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/scheduler/jobs"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
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

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required for the worker")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Purrboard Worker",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
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

	// Worker также должен иметь актуальную схему
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var leaderboardCache *redis.LeaderboardCache

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
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	breedRepo := postgres.NewBreedRepository(dbConn)
	leaderboardRepo := postgres.NewLeaderboardRepository(dbConn)

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
	// 6. РЕГИСТРАЦИЯ ЗАДАЧ И ЗАПУСК ПЛАНИРОВЩИКА
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler is disabled, worker has nothing to do")
		return nil
	}

	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	schedConfig.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedConfig)

	syncConfig := jobs.DefaultSyncBreedsConfig()
	syncConfig.Timeout = cfg.Scheduler.JobTimeout
	syncJob := jobs.NewSyncBreedsJob(catProvider, breedRepo, redisCache, log, syncConfig)

	var syncSchedule scheduler.Schedule = scheduler.NewIntervalSchedule(cfg.Scheduler.SyncBreedsInterval)
	if cfg.Scheduler.SyncBreedsCron != "" {
		syncSchedule, err = scheduler.ParseCronExpression(cfg.Scheduler.SyncBreedsCron)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_SYNC_CRON: %w", err)
		}
	}
	if err := sched.Register(syncJob, syncSchedule); err != nil {
		return fmt.Errorf("failed to register sync_breeds job: %w", err)
	}

	if leaderboardCache != nil {
		rebuildConfig := jobs.DefaultRebuildLeaderboardCacheConfig()
		rebuildConfig.TopSize = cfg.Scheduler.LeaderboardCacheTopSize
		rebuildConfig.CacheTTL = cfg.Scheduler.LeaderboardCacheTTL
		rebuildJob := jobs.NewRebuildLeaderboardCacheJob(leaderboardRepo, leaderboardCache, log, rebuildConfig)
		if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildCacheInterval)); err != nil {
			return fmt.Errorf("failed to register rebuild_leaderboard_cache job: %w", err)
		}
	} else {
		log.Info("leaderboard cache job not registered, Redis unavailable")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Первый sync сразу после старта: пустой каталог бесполезен.
	if _, err := sched.RunNow(ctx, syncJob.Name()); err != nil {
		log.Warn("initial breed sync failed", "error", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Purrboard Worker is running", "jobs", len(sched.ListJobs()))

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
	}

	log.Info("shutdown completed successfully")
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
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
