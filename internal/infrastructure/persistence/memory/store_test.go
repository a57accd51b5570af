package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

func seedStore(t *testing.T, breeds ...*breed.Breed) *Store {
	t.Helper()
	s := NewStore()
	for _, b := range breeds {
		require.NoError(t, s.Upsert(context.Background(), b))
	}
	return s
}

func TestAddLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "beng", Name: "Bengal"})

	created, err := s.AddLike(ctx, "beng", 100)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.AddLike(ctx, "beng", 100)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := s.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddLike_ConcurrentSamePair(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "beng", Name: "Bengal"})

	const n = 50
	results := make(chan bool, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.AddLike(ctx, "beng", 42)
			assert.NoError(t, err)
			results <- created
		}()
	}
	wg.Wait()
	close(results)

	trueCount := 0
	for created := range results {
		if created {
			trueCount++
		}
	}
	assert.Equal(t, 1, trueCount, "ровно один вызов должен создать ребро")

	count, err := s.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddLike_ConcurrentDistinctUsers(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "beng", Name: "Bengal"})

	const n = 50
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			created, err := s.AddLike(ctx, "beng", engagement.UserID(userID))
			assert.NoError(t, err)
			assert.True(t, created)
		}(int64(i))
	}
	wg.Wait()

	// Нет потерянных обновлений: итог равен количеству уникальных рёбер.
	count, err := s.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestRemoveLike_ThenRelike(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "beng", Name: "Bengal"})

	created, err := s.AddLike(ctx, "beng", 7)
	require.NoError(t, err)
	require.True(t, created)

	removed, err := s.RemoveLike(ctx, "beng", 7)
	require.NoError(t, err)
	assert.True(t, removed)

	count, err := s.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Снятого лайка нет - повторное снятие no-op.
	removed, err = s.RemoveLike(ctx, "beng", 7)
	require.NoError(t, err)
	assert.False(t, removed)

	// Лайк после снятия - новое ребро.
	created, err = s.AddLike(ctx, "beng", 7)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestAddLike_UnknownBreed(t *testing.T) {
	s := NewStore()

	_, err := s.AddLike(context.Background(), "ghost", 1)
	assert.ErrorIs(t, err, breed.ErrBreedNotFound)
}

func TestGetUserLikes_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t,
		&breed.Breed{ID: "a", Name: "Abyssinian"},
		&breed.Breed{ID: "b", Name: "Bengal"},
		&breed.Breed{ID: "c", Name: "Chartreux"},
	)

	for _, id := range []breed.ID{"a", "b", "c"} {
		_, err := s.AddLike(ctx, id, 9)
		require.NoError(t, err)
	}

	history, err := s.GetUserLikes(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, breed.ID("c"), history[0].CatID)
	assert.Equal(t, breed.ID("b"), history[1].CatID)
	assert.Equal(t, breed.ID("a"), history[2].CatID)
	assert.Equal(t, "Chartreux", history[0].BreedName)

	other, err := s.GetUserLikes(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSearch_ExactOrigin(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t,
		&breed.Breed{ID: "mau", Name: "Egyptian Mau", Origin: "Egypt"},
		&breed.Breed{ID: "sib", Name: "Siberian", Origin: "Russia"},
	)

	rows, err := s.Search(ctx, breed.NewAttributeQuery(breed.FeatureOrigin, "Egypt"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, breed.ID("mau"), rows[0].ID)
}

func TestSearch_UnknownFeatureIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "mau", Name: "Egyptian Mau", Origin: "Egypt"})

	rows, err := s.Search(ctx, breed.NewAttributeQuery("unknown_feature", "whatever"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearch_SubstringTemperament(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t,
		&breed.Breed{ID: "beng", Name: "Bengal", Temperament: "Active, Friendly"},
		&breed.Breed{ID: "per", Name: "Persian", Temperament: "Calm, Quiet"},
	)

	rows, err := s.Search(ctx, breed.NewAttributeQuery(breed.FeatureTemperament, "Friend"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, breed.ID("beng"), rows[0].ID)

	rows, err = s.Search(ctx, breed.NewAttributeQuery(breed.FeatureTemperament, "zzz"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearch_RangeFetchesAllOrderedByCount(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t,
		&breed.Breed{ID: "a", Name: "A", LifeSpan: "12 - 15"},
		&breed.Breed{ID: "b", Name: "B", LifeSpan: "10 - 12"},
	)
	for i := int64(1); i <= 3; i++ {
		_, err := s.AddLike(ctx, "b", engagement.UserID(i))
		require.NoError(t, err)
	}

	rows, err := s.Search(ctx, breed.NewAttributeQuery(breed.FeatureLifeSpan, "14"))
	require.NoError(t, err)
	require.Len(t, rows, 2, "store-side стадия возвращает все строки")
	assert.Equal(t, breed.ID("b"), rows[0].ID, "упорядочено по лайкам по убыванию")
}

func TestGetTop(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t,
		&breed.Breed{ID: "A", Name: "Abyssinian"},
		&breed.Breed{ID: "B", Name: "Bengal"},
		&breed.Breed{ID: "C", Name: "Chartreux"},
		&breed.Breed{ID: "D", Name: "Devon Rex"},
	)

	like := func(catID breed.ID, users ...int64) {
		for _, u := range users {
			_, err := s.AddLike(ctx, catID, engagement.UserID(u))
			require.NoError(t, err)
		}
	}
	like("A", 1, 2, 3, 4, 5)
	like("B", 6, 7, 8, 9, 10)
	like("C", 11, 12, 13)
	like("D", 14)

	top, err := s.GetTop(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	// Ничья A и B (по 5): идентификатор по возрастанию.
	assert.Equal(t, breed.ID("A"), top[0].CatID)
	assert.Equal(t, breed.ID("B"), top[1].CatID)
	assert.Equal(t, breed.ID("C"), top[2].CatID)

	empty, err := s.GetTop(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	empty, err = s.GetTop(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsert_PreservesLikeCount(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, &breed.Breed{ID: "beng", Name: "Bengal"})

	_, err := s.AddLike(ctx, "beng", 1)
	require.NoError(t, err)

	// Повторная загрузка каталога не трогает счётчик.
	require.NoError(t, s.Upsert(ctx, &breed.Breed{ID: "beng", Name: "Bengal", Description: "updated"}))

	count, err := s.GetLikes(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	b, err := s.GetByID(ctx, "beng")
	require.NoError(t, err)
	assert.Equal(t, "updated", b.Description)
}

func TestCount(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Upsert(context.Background(), &breed.Breed{
			ID:   breed.ID(fmt.Sprintf("b%d", i)),
			Name: fmt.Sprintf("Breed %d", i),
		}))
	}

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
