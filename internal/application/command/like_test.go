package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
)

// fakeCache считает инвалидации, чтение/запись - no-op.
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) GetCachedTop(context.Context, int) ([]*leaderboard.Entry, error) {
	return nil, nil
}

func (f *fakeCache) SetCachedTop(context.Context, int, []*leaderboard.Entry, time.Duration) error {
	return nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}

func seedLedger(t *testing.T, breeds ...*breed.Breed) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	for _, b := range breeds {
		require.NoError(t, s.Upsert(context.Background(), b))
	}
	return s
}

func TestAddLike_CreatesEdgeAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := seedLedger(t, &breed.Breed{ID: "beng", Name: "Bengal"})
	cache := &fakeCache{}
	h := NewAddLikeHandler(store, cache, nil)

	result, err := h.Handle(ctx, AddLikeCommand{CatID: "beng", UserID: 100})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, cache.invalidations)

	// Повторный лайк - нормальный результат, кеш не трогаем.
	result, err = h.Handle(ctx, AddLikeCommand{CatID: "beng", UserID: 100})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.True(t, result.IsDuplicate())
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, cache.invalidations)
}

func TestAddLike_NilCache(t *testing.T) {
	store := seedLedger(t, &breed.Breed{ID: "beng", Name: "Bengal"})
	h := NewAddLikeHandler(store, nil, nil)

	result, err := h.Handle(context.Background(), AddLikeCommand{CatID: "beng", UserID: 1})
	require.NoError(t, err)
	assert.True(t, result.Created)
}

func TestAddLike_ValidatesInput(t *testing.T) {
	h := NewAddLikeHandler(memory.NewStore(), nil, nil)

	_, err := h.Handle(context.Background(), AddLikeCommand{CatID: "", UserID: 1})
	assert.ErrorIs(t, err, breed.ErrInvalidID)

	_, err = h.Handle(context.Background(), AddLikeCommand{CatID: "beng", UserID: 0})
	assert.ErrorIs(t, err, engagement.ErrInvalidUserID)
}

func TestAddLike_UnknownBreed(t *testing.T) {
	h := NewAddLikeHandler(memory.NewStore(), nil, nil)

	_, err := h.Handle(context.Background(), AddLikeCommand{CatID: "ghost", UserID: 1})
	assert.ErrorIs(t, err, breed.ErrBreedNotFound)
}

func TestRemoveLike_Toggle(t *testing.T) {
	ctx := context.Background()
	store := seedLedger(t, &breed.Breed{ID: "beng", Name: "Bengal"})
	cache := &fakeCache{}

	addH := NewAddLikeHandler(store, cache, nil)
	removeH := NewRemoveLikeHandler(store, cache, nil)

	_, err := addH.Handle(ctx, AddLikeCommand{CatID: "beng", UserID: 7})
	require.NoError(t, err)

	result, err := removeH.Handle(ctx, RemoveLikeCommand{CatID: "beng", UserID: 7})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 2, cache.invalidations)

	// Снимать нечего - no-op без инвалидации.
	result, err = removeH.Handle(ctx, RemoveLikeCommand{CatID: "beng", UserID: 7})
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, 2, cache.invalidations)

	// Лайк после снятия - снова новое ребро.
	added, err := addH.Handle(ctx, AddLikeCommand{CatID: "beng", UserID: 7})
	require.NoError(t, err)
	assert.True(t, added.Created)
	assert.Equal(t, 1, added.Count)
}
