package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

func TestBuildRanking_TieBreakByIDAscending(t *testing.T) {
	breeds := []*breed.Breed{
		{ID: "D", Name: "Devon Rex", LikeCount: 1},
		{ID: "B", Name: "Bengal", LikeCount: 5},
		{ID: "C", Name: "Chartreux", LikeCount: 3},
		{ID: "A", Name: "Abyssinian", LikeCount: 5},
	}

	top := BuildRanking(breeds).Top(3)

	require.Len(t, top, 3)
	// Равные счётчики A и B: порядок по идентификатору по возрастанию.
	assert.Equal(t, breed.ID("A"), top[0].CatID)
	assert.Equal(t, Rank(1), top[0].Rank)
	assert.Equal(t, breed.ID("B"), top[1].CatID)
	assert.Equal(t, Rank(2), top[1].Rank)
	assert.Equal(t, breed.ID("C"), top[2].CatID)
	assert.Equal(t, Rank(3), top[2].Rank)
}

func TestRanking_TopNonPositiveLimit(t *testing.T) {
	r := BuildRanking([]*breed.Breed{{ID: "a", Name: "A", LikeCount: 2}})

	assert.Empty(t, r.Top(0))
	assert.Empty(t, r.Top(-1))
}

func TestRanking_TopLimitBeyondSize(t *testing.T) {
	r := BuildRanking([]*breed.Breed{
		{ID: "a", Name: "A", LikeCount: 2},
		{ID: "b", Name: "B", LikeCount: 1},
	})

	top := r.Top(10)
	require.Len(t, top, 2)
	assert.Equal(t, breed.ID("a"), top[0].CatID)
}

func TestBuildRanking_Deterministic(t *testing.T) {
	breeds := []*breed.Breed{
		{ID: "x", Name: "X", LikeCount: 4},
		{ID: "y", Name: "Y", LikeCount: 4},
		{ID: "z", Name: "Z", LikeCount: 4},
	}

	first := BuildRanking(breeds).All()
	second := BuildRanking(breeds).All()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].CatID, second[i].CatID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestNewEntry_Validation(t *testing.T) {
	_, err := NewEntry(0, "a", 1, "A")
	assert.ErrorIs(t, err, ErrInvalidRank)

	_, err = NewEntry(1, "", 1, "A")
	assert.ErrorIs(t, err, breed.ErrInvalidID)

	_, err = NewEntry(1, "a", -1, "A")
	assert.ErrorIs(t, err, ErrNegativeCount)

	e, err := NewEntry(1, "a", 0, "A")
	require.NoError(t, err)
	assert.Equal(t, Rank(1), e.Rank)
}
