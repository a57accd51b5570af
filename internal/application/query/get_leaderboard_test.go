package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// fakeRankingRepo отдаёт заранее заданный топ и считает обращения.
type fakeRankingRepo struct {
	entries []*leaderboard.Entry
	err     error
	calls   int
}

func (f *fakeRankingRepo) GetTop(_ context.Context, limit int) ([]*leaderboard.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

// fakeRankingCache - управляемый кеш для проверки cache-aside пути.
type fakeRankingCache struct {
	cached   []*leaderboard.Entry
	getErr   error
	sets     int
	setLimit int
}

func (f *fakeRankingCache) GetCachedTop(context.Context, int) ([]*leaderboard.Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.cached, nil
}

func (f *fakeRankingCache) SetCachedTop(_ context.Context, limit int, entries []*leaderboard.Entry, _ time.Duration) error {
	f.cached = entries
	f.sets++
	f.setLimit = limit
	return nil
}

func (f *fakeRankingCache) Invalidate(context.Context) error {
	f.cached = nil
	return nil
}

func rankingEntries() []*leaderboard.Entry {
	return []*leaderboard.Entry{
		{Rank: 1, CatID: "beng", Count: 5, DisplayName: "Bengal"},
		{Rank: 2, CatID: "sib", Count: 3, DisplayName: "Siberian"},
	}
}

func TestGetLeaderboard_NonPositiveLimit(t *testing.T) {
	repo := &fakeRankingRepo{entries: rankingEntries()}
	h := NewGetLeaderboardHandler(repo, nil, time.Minute, nil)

	for _, limit := range []int{0, -5} {
		result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: limit})
		require.NoError(t, err)
		assert.Empty(t, result.Entries)
	}
	assert.Equal(t, 0, repo.calls, "пустой результат не должен трогать хранилище")
}

func TestGetLeaderboard_CacheHit(t *testing.T) {
	repo := &fakeRankingRepo{entries: rankingEntries()}
	cache := &fakeRankingCache{cached: rankingEntries()}
	h := NewGetLeaderboardHandler(repo, cache, time.Minute, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, 0, repo.calls)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "beng", result.Entries[0].CatID)
	assert.Equal(t, 1, result.Entries[0].Rank)
}

func TestGetLeaderboard_CacheMissComputesAndWarms(t *testing.T) {
	repo := &fakeRankingRepo{entries: rankingEntries()}
	cache := &fakeRankingCache{}
	h := NewGetLeaderboardHandler(repo, cache, time.Minute, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
	// В кеш уходит запрошенный limit, а не len(entries): каталог может
	// быть меньше запрошенного топа.
	assert.Equal(t, 10, cache.setLimit)
}

func TestGetLeaderboard_CacheErrorNotFatal(t *testing.T) {
	repo := &fakeRankingRepo{entries: rankingEntries()}
	cache := &fakeRankingCache{getErr: errors.New("redis down")}
	h := NewGetLeaderboardHandler(repo, cache, time.Minute, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, repo.calls)
	require.Len(t, result.Entries, 2)
}

func TestGetLeaderboard_NilCache(t *testing.T) {
	repo := &fakeRankingRepo{entries: rankingEntries()}
	h := NewGetLeaderboardHandler(repo, nil, time.Minute, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
}

func TestGetLeaderboard_RepoErrorPropagates(t *testing.T) {
	repoErr := errors.New("db down")
	h := NewGetLeaderboardHandler(&fakeRankingRepo{err: repoErr}, nil, time.Minute, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	assert.ErrorIs(t, err, repoErr)
}
