package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

func TestGetBreedLikes(t *testing.T) {
	ctx := context.Background()
	store := seedCatalog(t, &breed.Breed{ID: "beng", Name: "Bengal"})
	for i := int64(1); i <= 2; i++ {
		_, err := store.AddLike(ctx, "beng", engagement.UserID(i))
		require.NoError(t, err)
	}
	h := NewGetBreedLikesHandler(store)

	result, err := h.Handle(ctx, GetBreedLikesQuery{CatID: "beng"})
	require.NoError(t, err)
	assert.Equal(t, "beng", result.CatID)
	assert.Equal(t, 2, result.Likes)
}

func TestGetBreedLikes_ValidatesInput(t *testing.T) {
	h := NewGetBreedLikesHandler(seedCatalog(t))

	_, err := h.Handle(context.Background(), GetBreedLikesQuery{CatID: "  "})
	assert.ErrorIs(t, err, breed.ErrInvalidID)
}

func TestGetBreedLikes_UnknownBreed(t *testing.T) {
	h := NewGetBreedLikesHandler(seedCatalog(t))

	_, err := h.Handle(context.Background(), GetBreedLikesQuery{CatID: "nope"})
	assert.ErrorIs(t, err, breed.ErrBreedNotFound)
}
