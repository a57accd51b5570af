// Package jobs contains implementations of scheduled jobs for Purrboard Bot.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD CACHE JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardCacheJob refreshes the cached top-N ahead of demand.
// The leaderboard is always computed from the ledger; this job only bounds
// the staleness window users see between cache misses.
type RebuildLeaderboardCacheJob struct {
	// Dependencies
	repo   leaderboard.Repository
	cache  leaderboard.Cache
	logger *slog.Logger

	// Configuration
	config RebuildLeaderboardCacheConfig

	// State
	lastRebuildStats atomic.Value // *CacheRebuildStats
}

// RebuildLeaderboardCacheConfig contains configuration for the rebuild job.
type RebuildLeaderboardCacheConfig struct {
	// TopSize is how many entries to precompute and cache.
	TopSize int

	// CacheTTL is the TTL for the cached top-N.
	CacheTTL time.Duration

	// Timeout is the maximum duration for the rebuild operation.
	Timeout time.Duration
}

// DefaultRebuildLeaderboardCacheConfig returns sensible defaults.
func DefaultRebuildLeaderboardCacheConfig() RebuildLeaderboardCacheConfig {
	return RebuildLeaderboardCacheConfig{
		TopSize:  10,
		CacheTTL: 5 * time.Minute,
		Timeout:  30 * time.Second,
	}
}

// CacheRebuildStats contains statistics from a rebuild run.
type CacheRebuildStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	EntryCount  int
	TopLikes    int
}

// NewRebuildLeaderboardCacheJob creates a new leaderboard cache rebuild job.
func NewRebuildLeaderboardCacheJob(
	repo leaderboard.Repository,
	cache leaderboard.Cache,
	logger *slog.Logger,
	config RebuildLeaderboardCacheConfig,
) *RebuildLeaderboardCacheJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopSize <= 0 {
		config.TopSize = 10
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}

	return &RebuildLeaderboardCacheJob{
		repo:   repo,
		cache:  cache,
		logger: logger,
		config: config,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardCacheJob) Name() string {
	return "rebuild_leaderboard_cache"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardCacheJob) Description() string {
	return "Precomputes the top-N leaderboard and refreshes the cache"
}

// Run executes the rebuild job.
func (j *RebuildLeaderboardCacheJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	stats := &CacheRebuildStats{StartedAt: startedAt}

	j.logger.Info("starting rebuild_leaderboard_cache job")

	// Apply timeout
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	entries, err := j.repo.GetTop(ctx, j.config.TopSize)
	if err != nil {
		return fmt.Errorf("failed to compute leaderboard: %w", err)
	}

	stats.EntryCount = len(entries)
	if len(entries) > 0 {
		stats.TopLikes = entries[0].Count
	}

	if len(entries) > 0 {
		if err := j.cache.SetCachedTop(ctx, j.config.TopSize, entries, j.config.CacheTTL); err != nil {
			return fmt.Errorf("failed to cache leaderboard: %w", err)
		}
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	j.lastRebuildStats.Store(stats)

	j.logger.Info("rebuild_leaderboard_cache job completed",
		"duration", stats.Duration.String(),
		"entries", stats.EntryCount,
	)

	return nil
}

// LastRebuildStats returns statistics from the last rebuild.
func (j *RebuildLeaderboardCacheJob) LastRebuildStats() *CacheRebuildStats {
	stats := j.lastRebuildStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*CacheRebuildStats)
}
