package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
)

// fakeProvider отдаёт одну и ту же карточку на любой запрос.
type fakeProvider struct {
	card *breed.Card
	err  error
}

func (f *fakeProvider) FetchAll(context.Context) ([]*breed.Breed, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*breed.Breed{f.card.Breed}, nil
}

func (f *fakeProvider) FetchRandomCard(context.Context) (*breed.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.card, nil
}

func (f *fakeProvider) FetchRandomCardByBreed(context.Context, breed.ID) (*breed.Card, error) {
	return f.FetchRandomCard(context.Background())
}

func bengalCard() *breed.Card {
	return &breed.Card{
		ImageID:  "img1",
		ImageURL: "https://cdn.example/img1.jpg",
		Breed:    &breed.Breed{ID: "beng", Name: "Bengal", Origin: "United States"},
	}
}

func TestGetRandomCat_PersistsBreedBeforeShowing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	h := NewGetRandomCatHandler(&fakeProvider{card: bengalCard()}, store, store, nil)

	result, err := h.Handle(ctx, GetRandomCatQuery{UserID: 100})
	require.NoError(t, err)
	assert.Equal(t, "beng", result.Breed.ID)
	assert.False(t, result.Liked)

	// Порода уже в каталоге: лайк по кнопке сработает сразу.
	stored, err := store.GetByID(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, "Bengal", stored.Name)
}

func TestGetRandomCat_ReportsLikedStateAndCount(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	h := NewGetRandomCatHandler(&fakeProvider{card: bengalCard()}, store, store, nil)

	_, err := h.Handle(ctx, GetRandomCatQuery{UserID: 100})
	require.NoError(t, err)

	_, err = store.AddLike(ctx, "beng", 100)
	require.NoError(t, err)

	result, err := h.Handle(ctx, GetRandomCatQuery{UserID: 100})
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Breed.LikeCount)

	// Другой зритель видит счётчик, но не чужой лайк.
	other, err := h.Handle(ctx, GetRandomCatQuery{UserID: 200})
	require.NoError(t, err)
	assert.False(t, other.Liked)
	assert.Equal(t, 1, other.Breed.LikeCount)
}

func TestGetRandomCat_ImageFallback(t *testing.T) {
	store := memory.NewStore()
	h := NewGetRandomCatHandler(&fakeProvider{card: bengalCard()}, store, store, nil)

	result, err := h.Handle(context.Background(), GetRandomCatQuery{UserID: 1})
	require.NoError(t, err)
	// У породы нет своего изображения - берём изображение карточки.
	assert.Equal(t, "https://cdn.example/img1.jpg", result.Breed.ImageURL)
	assert.Equal(t, "https://cdn.example/img1.jpg", result.ImageURL)
}

func TestGetRandomCat_ProviderErrorPropagates(t *testing.T) {
	providerErr := errors.New("upstream timeout")
	store := memory.NewStore()
	h := NewGetRandomCatHandler(&fakeProvider{err: providerErr}, store, store, nil)

	_, err := h.Handle(context.Background(), GetRandomCatQuery{UserID: 1})
	assert.ErrorIs(t, err, providerErr)
}
