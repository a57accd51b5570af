package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
)

func seedCatalog(t *testing.T, breeds ...*breed.Breed) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	for _, b := range breeds {
		require.NoError(t, s.Upsert(context.Background(), b))
	}
	return s
}

func TestSearchBreeds_ExactOrigin(t *testing.T) {
	store := seedCatalog(t,
		&breed.Breed{ID: "mau", Name: "Egyptian Mau", Origin: "Egypt"},
		&breed.Breed{ID: "sib", Name: "Siberian", Origin: "Russia"},
	)
	h := NewSearchBreedsHandler(store)

	result, err := h.Handle(context.Background(), SearchBreedsQuery{Feature: "origin", Value: "Egypt"})
	require.NoError(t, err)
	require.Len(t, result.Breeds, 1)
	assert.Equal(t, "mau", result.Breeds[0].ID)
	assert.Equal(t, "origin", result.Feature)
	assert.Equal(t, "Egypt", result.Value)
}

func TestSearchBreeds_RangePostFilterNarrows(t *testing.T) {
	// Хранилище отдаёт все строки, диапазон сужается пост-фильтром.
	store := seedCatalog(t,
		&breed.Breed{ID: "a", Name: "A", LifeSpan: "12 - 15"},
		&breed.Breed{ID: "b", Name: "B", LifeSpan: "8 - 10"},
		&breed.Breed{ID: "c", Name: "C", LifeSpan: "шумные данные"},
	)
	h := NewSearchBreedsHandler(store)

	result, err := h.Handle(context.Background(), SearchBreedsQuery{Feature: "life_span", Value: "14"})
	require.NoError(t, err)
	require.Len(t, result.Breeds, 1)
	assert.Equal(t, "a", result.Breeds[0].ID)
}

func TestSearchBreeds_RangeTolerance(t *testing.T) {
	store := seedCatalog(t, &breed.Breed{ID: "a", Name: "A", LifeSpan: "12 - 15"})
	h := NewSearchBreedsHandler(store)

	// Допуск 5%: нижняя граница 12*0.95 = 11.4.
	result, err := h.Handle(context.Background(), SearchBreedsQuery{Feature: "life_span", Value: "11.5"})
	require.NoError(t, err)
	assert.Len(t, result.Breeds, 1)

	result, err = h.Handle(context.Background(), SearchBreedsQuery{Feature: "life_span", Value: "11"})
	require.NoError(t, err)
	assert.Empty(t, result.Breeds)
}

func TestSearchBreeds_NonNumericRangeValue(t *testing.T) {
	store := seedCatalog(t, &breed.Breed{ID: "a", Name: "A", LifeSpan: "12 - 15"})
	h := NewSearchBreedsHandler(store)

	result, err := h.Handle(context.Background(), SearchBreedsQuery{Feature: "life_span", Value: "долго"})
	require.NoError(t, err)
	assert.Empty(t, result.Breeds)
}

func TestSearchBreeds_UnknownFeatureSilentlyEmpty(t *testing.T) {
	store := seedCatalog(t, &breed.Breed{ID: "mau", Name: "Egyptian Mau", Origin: "Egypt"})
	h := NewSearchBreedsHandler(store)

	result, err := h.Handle(context.Background(), SearchBreedsQuery{Feature: "eye_color", Value: "green"})
	require.NoError(t, err)
	assert.Empty(t, result.Breeds)
}

func TestSearchBreeds_OrderedByLikes(t *testing.T) {
	ctx := context.Background()
	store := seedCatalog(t,
		&breed.Breed{ID: "a", Name: "A", Origin: "Egypt"},
		&breed.Breed{ID: "b", Name: "B", Origin: "Egypt"},
	)
	for i := int64(1); i <= 3; i++ {
		_, err := store.AddLike(ctx, "b", engagement.UserID(i))
		require.NoError(t, err)
	}
	h := NewSearchBreedsHandler(store)

	result, err := h.Handle(ctx, SearchBreedsQuery{Feature: "origin", Value: "Egypt"})
	require.NoError(t, err)
	require.Len(t, result.Breeds, 2)
	assert.Equal(t, "b", result.Breeds[0].ID)
	assert.Equal(t, 3, result.Breeds[0].LikeCount)
}
