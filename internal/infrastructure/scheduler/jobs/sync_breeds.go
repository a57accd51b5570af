// Package jobs contains implementations of scheduled jobs for Purrboard Bot.
// Each job keeps derived data fresh: the breed catalog mirrors the upstream
// Cat API, and the leaderboard cache mirrors the engagement ledger.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC BREEDS JOB
// ══════════════════════════════════════════════════════════════════════════════

// SyncBreedsJob synchronizes the local breed catalog with the upstream Cat API.
// The catalog is a mirror of upstream descriptive data; like counts live only
// in the local ledger and are never touched by a sync.
type SyncBreedsJob struct {
	// Dependencies
	provider breed.Provider
	breeds   breed.Repository
	locker   *redis.Cache // nil disables distributed locking
	logger   *slog.Logger

	// Configuration
	config SyncBreedsConfig

	// State (for metrics)
	lastSyncStats atomic.Value // *BreedSyncStats
}

// SyncBreedsConfig contains configuration for the sync job.
type SyncBreedsConfig struct {
	// Timeout is the maximum duration for the entire sync operation.
	Timeout time.Duration

	// LockTTL is the TTL of the distributed job lock.
	// Must exceed the expected sync duration.
	LockTTL time.Duration
}

// DefaultSyncBreedsConfig returns sensible defaults.
func DefaultSyncBreedsConfig() SyncBreedsConfig {
	return SyncBreedsConfig{
		Timeout: 2 * time.Minute,
		LockTTL: 5 * time.Minute,
	}
}

// BreedSyncStats contains statistics from a sync run.
type BreedSyncStats struct {
	StartedAt    time.Time
	CompletedAt  time.Time
	Duration     time.Duration
	FetchedCount int
	CatalogSize  int
	Skipped      bool // another instance held the lock
}

// NewSyncBreedsJob creates a new breed catalog sync job.
func NewSyncBreedsJob(
	provider breed.Provider,
	breeds breed.Repository,
	locker *redis.Cache,
	logger *slog.Logger,
	config SyncBreedsConfig,
) *SyncBreedsJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 5 * time.Minute
	}

	return &SyncBreedsJob{
		provider: provider,
		breeds:   breeds,
		locker:   locker,
		logger:   logger,
		config:   config,
	}
}

// Name returns the job name.
func (j *SyncBreedsJob) Name() string {
	return "sync_breeds"
}

// Description returns a human-readable description.
func (j *SyncBreedsJob) Description() string {
	return "Synchronizes the breed catalog with the upstream Cat API"
}

// Run executes the sync job.
func (j *SyncBreedsJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &BreedSyncStats{StartedAt: startedAt}

	j.logger.Info("starting sync_breeds job")

	// Apply timeout
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	// Only one worker instance syncs at a time.
	if j.locker != nil {
		acquired, err := j.locker.SetNX(ctx, redis.PrefixLock+j.Name(), startedAt.Unix(), j.config.LockTTL)
		if err != nil {
			j.logger.Warn("job lock check failed, proceeding without lock", "error", err)
		} else if !acquired {
			stats.Skipped = true
			j.finalize(stats)
			j.logger.Info("sync_breeds skipped, lock held by another instance")
			return nil
		}
	}

	breeds, err := j.provider.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch breeds from upstream: %w", err)
	}
	stats.FetchedCount = len(breeds)

	if len(breeds) == 0 {
		// An empty upstream answer is more likely an outage than a real
		// catalog wipe; keep the local mirror untouched.
		j.finalize(stats)
		j.logger.Warn("upstream returned no breeds, keeping local catalog")
		return nil
	}

	if err := j.breeds.UpsertAll(ctx, breeds); err != nil {
		return fmt.Errorf("failed to upsert breeds: %w", err)
	}

	if count, err := j.breeds.Count(ctx); err == nil {
		stats.CatalogSize = count
	}

	j.finalize(stats)

	j.logger.Info("sync_breeds job completed",
		"duration", stats.Duration.String(),
		"fetched", stats.FetchedCount,
		"catalog_size", stats.CatalogSize,
	)

	return nil
}

// finalize closes out the stats and stores them for inspection.
func (j *SyncBreedsJob) finalize(stats *BreedSyncStats) {
	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastSyncStats.Store(stats)
}

// LastSyncStats returns statistics from the last sync run.
func (j *SyncBreedsJob) LastSyncStats() *BreedSyncStats {
	stats := j.lastSyncStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*BreedSyncStats)
}
