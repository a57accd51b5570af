package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
)

type fakeProvider struct {
	breeds []*breed.Breed
	err    error
}

func (f *fakeProvider) FetchAll(context.Context) ([]*breed.Breed, error) {
	return f.breeds, f.err
}

func (f *fakeProvider) FetchRandomCard(context.Context) (*breed.Card, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) FetchRandomCardByBreed(context.Context, breed.ID) (*breed.Card, error) {
	return nil, errors.New("not implemented")
}

type fakeTopCache struct {
	entries   []*leaderboard.Entry
	sets      int
	lastLimit int
}

func (f *fakeTopCache) GetCachedTop(context.Context, int) ([]*leaderboard.Entry, error) {
	return f.entries, nil
}

func (f *fakeTopCache) SetCachedTop(_ context.Context, limit int, entries []*leaderboard.Entry, _ time.Duration) error {
	f.entries = entries
	f.sets++
	f.lastLimit = limit
	return nil
}

func (f *fakeTopCache) Invalidate(context.Context) error {
	f.entries = nil
	return nil
}

func TestSyncBreedsJob_MirrorsCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	provider := &fakeProvider{breeds: []*breed.Breed{
		{ID: "beng", Name: "Bengal"},
		{ID: "sib", Name: "Siberian"},
	}}

	job := NewSyncBreedsJob(provider, store, nil, nil, DefaultSyncBreedsConfig())
	require.NoError(t, job.Run(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stats := job.LastSyncStats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.FetchedCount)
	assert.Equal(t, 2, stats.CatalogSize)
	assert.False(t, stats.Skipped)
}

func TestSyncBreedsJob_PreservesLikeCounts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(ctx, &breed.Breed{ID: "beng", Name: "Bengal"}))
	_, err := store.AddLike(ctx, "beng", engagement.UserID(1))
	require.NoError(t, err)

	provider := &fakeProvider{breeds: []*breed.Breed{
		{ID: "beng", Name: "Bengal", Description: "updated upstream"},
	}}
	job := NewSyncBreedsJob(provider, store, nil, nil, DefaultSyncBreedsConfig())
	require.NoError(t, job.Run(ctx))

	count, err := store.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "зеркалирование каталога не трогает лайки")

	b, err := store.GetByID(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, "updated upstream", b.Description)
}

func TestSyncBreedsJob_EmptyUpstreamKeepsMirror(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(ctx, &breed.Breed{ID: "beng", Name: "Bengal"}))

	job := NewSyncBreedsJob(&fakeProvider{}, store, nil, nil, DefaultSyncBreedsConfig())
	require.NoError(t, job.Run(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "пустой ответ провайдера не стирает локальное зеркало")
}

func TestSyncBreedsJob_UpstreamError(t *testing.T) {
	job := NewSyncBreedsJob(&fakeProvider{err: errors.New("timeout")}, memory.NewStore(), nil, nil, DefaultSyncBreedsConfig())
	assert.Error(t, job.Run(context.Background()))
}

func TestRebuildLeaderboardCacheJob(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(ctx, &breed.Breed{ID: "beng", Name: "Bengal"}))
	require.NoError(t, store.Upsert(ctx, &breed.Breed{ID: "sib", Name: "Siberian"}))
	for i := int64(1); i <= 3; i++ {
		_, err := store.AddLike(ctx, "beng", engagement.UserID(i))
		require.NoError(t, err)
	}

	cache := &fakeTopCache{}
	job := NewRebuildLeaderboardCacheJob(store, cache, nil, DefaultRebuildLeaderboardCacheConfig())
	require.NoError(t, job.Run(ctx))

	assert.Equal(t, 1, cache.sets)
	require.Len(t, cache.entries, 2)
	assert.Equal(t, breed.ID("beng"), cache.entries[0].CatID)
	assert.Equal(t, 10, cache.lastLimit, "снапшот сохраняется под запрошенный размер, не под len(entries)")

	stats := job.LastRebuildStats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.EntryCount)
	assert.Equal(t, 3, stats.TopLikes)
}

func TestRebuildLeaderboardCacheJob_EmptyLedger(t *testing.T) {
	cache := &fakeTopCache{}
	job := NewRebuildLeaderboardCacheJob(memory.NewStore(), cache, nil, DefaultRebuildLeaderboardCacheConfig())
	require.NoError(t, job.Run(context.Background()))

	// Пустой рейтинг не кешируется: промах дешевле пустого значения.
	assert.Equal(t, 0, cache.sets)
}
