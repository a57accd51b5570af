// Package redis implements Redis caching for Purrboard Bot.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// topKey holds the cached top-N under a single key. One key is enough:
// every request is served from a prefix of the same ordered list.
const topKey = PrefixLeaderboard + "top"

// cachedEntry is the JSON wire form of a leaderboard entry.
type cachedEntry struct {
	Rank        int    `json:"rank"`
	CatID       string `json:"cat_id"`
	Count       int    `json:"count"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url,omitempty"`
}

// cachedTop is the stored payload. Size records the limit the snapshot was
// computed for, so a request for more than that is a miss rather than a
// silently truncated answer.
type cachedTop struct {
	Size        int           `json:"size"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []cachedEntry `json:"entries"`
}

// servableFor reports whether the snapshot can answer a request for limit
// entries. A snapshot computed for a smaller limit still serves when it
// holds fewer entries than its Size: the catalog was exhausted, so the
// entries are the complete ranking.
func (t cachedTop) servableFor(limit int) bool {
	if limit <= t.Size {
		return true
	}
	return len(t.Entries) < t.Size
}

// LeaderboardCache implements leaderboard.Cache on top of Cache.
// A failure to read or write never propagates as a ranking failure:
// callers treat any miss the same way and fall through to the store.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

var _ leaderboard.Cache = (*LeaderboardCache)(nil)

// GetCachedTop returns the cached top-N, or nil without error on a miss.
// A snapshot computed for fewer entries than requested counts as a miss.
func (c *LeaderboardCache) GetCachedTop(ctx context.Context, limit int) ([]*leaderboard.Entry, error) {
	if limit <= 0 {
		return []*leaderboard.Entry{}, nil
	}

	var stored cachedTop
	err := c.cache.Get(ctx, topKey, &stored)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !stored.servableFor(limit) {
		return nil, nil
	}

	n := limit
	if n > len(stored.Entries) {
		n = len(stored.Entries)
	}

	entries := make([]*leaderboard.Entry, 0, n)
	for _, ce := range stored.Entries[:n] {
		entries = append(entries, &leaderboard.Entry{
			Rank:        leaderboard.Rank(ce.Rank),
			CatID:       breed.ID(ce.CatID),
			Count:       ce.Count,
			DisplayName: ce.DisplayName,
			ImageURL:    ce.ImageURL,
		})
	}

	return entries, nil
}

// SetCachedTop stores a top-N snapshot with the given TTL. limit is the
// size the snapshot was computed for, not len(entries): the catalog may
// hold fewer breeds than were requested.
func (c *LeaderboardCache) SetCachedTop(ctx context.Context, limit int, entries []*leaderboard.Entry, ttl time.Duration) error {
	stored := cachedTop{
		Size:        limit,
		GeneratedAt: time.Now().UTC(),
		Entries:     make([]cachedEntry, 0, len(entries)),
	}

	for _, e := range entries {
		stored.Entries = append(stored.Entries, cachedEntry{
			Rank:        int(e.Rank),
			CatID:       e.CatID.String(),
			Count:       e.Count,
			DisplayName: e.DisplayName,
			ImageURL:    e.ImageURL,
		})
	}

	return c.cache.Set(ctx, topKey, stored, ttl)
}

// Invalidate drops the cached snapshot. Called best-effort after a new
// like so the fresh count becomes visible before the TTL expires.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, topKey)
}
