package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

func TestGetUserLikes_InvalidUser(t *testing.T) {
	h := NewGetUserLikesHandler(seedCatalog(t))

	_, err := h.Handle(context.Background(), GetUserLikesQuery{UserID: 0})
	assert.ErrorIs(t, err, engagement.ErrInvalidUserID)
}

func TestGetUserLikes_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := seedCatalog(t,
		&breed.Breed{ID: "a", Name: "Abyssinian"},
		&breed.Breed{ID: "b", Name: "Bengal"},
	)
	for _, id := range []breed.ID{"a", "b"} {
		_, err := store.AddLike(ctx, id, 9)
		require.NoError(t, err)
	}
	h := NewGetUserLikesHandler(store)

	result, err := h.Handle(ctx, GetUserLikesQuery{UserID: 9})
	require.NoError(t, err)
	require.Len(t, result.Likes, 2)
	assert.Equal(t, "b", result.Likes[0].CatID)
	assert.Equal(t, "Bengal", result.Likes[0].BreedName)
	assert.Equal(t, "a", result.Likes[1].CatID)

	empty, err := h.Handle(ctx, GetUserLikesQuery{UserID: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Likes)
}
