package callback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/application/command"
	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

func newHandlers(t *testing.T) (*LikeHandler, *UnlikeHandler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(context.Background(), &breed.Breed{ID: "beng", Name: "Bengal"}))

	keyboards := presenter.NewKeyboardBuilder()
	like := NewLikeHandler(command.NewAddLikeHandler(store, nil, nil), keyboards)
	unlike := NewUnlikeHandler(command.NewRemoveLikeHandler(store, nil, nil), keyboards)
	return like, unlike, store
}

func TestLikeCallback_FlipsButtonToUnlike(t *testing.T) {
	like, _, _ := newHandlers(t)

	resp, err := like.Handle(context.Background(), LikeRequest{
		TelegramID:   100,
		CallbackData: "like:beng",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	require.NotNil(t, resp.UpdatedKeyboard)
	assert.Equal(t, "unlike:beng", resp.UpdatedKeyboard.Rows[0][0].CallbackData)
	assert.Equal(t, "💖 1", resp.UpdatedKeyboard.Rows[0][0].Text)
}

func TestLikeCallback_DuplicateIsFriendly(t *testing.T) {
	like, _, _ := newHandlers(t)
	ctx := context.Background()

	_, err := like.Handle(ctx, LikeRequest{TelegramID: 100, CallbackData: "like:beng"})
	require.NoError(t, err)

	resp, err := like.Handle(ctx, LikeRequest{TelegramID: 100, CallbackData: "like:beng"})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Contains(t, resp.AnswerText, "уже")
}

func TestUnlikeCallback_FlipsButtonBack(t *testing.T) {
	like, unlike, _ := newHandlers(t)
	ctx := context.Background()

	_, err := like.Handle(ctx, LikeRequest{TelegramID: 100, CallbackData: "like:beng"})
	require.NoError(t, err)

	resp, err := unlike.Handle(ctx, UnlikeRequest{
		TelegramID:   100,
		CallbackData: "unlike:beng",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	require.NotNil(t, resp.UpdatedKeyboard)
	assert.Equal(t, "like:beng", resp.UpdatedKeyboard.Rows[0][0].CallbackData)
	assert.Equal(t, "❤ 0", resp.UpdatedKeyboard.Rows[0][0].Text)
}

func TestUnlikeCallback_NothingToRemove(t *testing.T) {
	_, unlike, _ := newHandlers(t)

	resp, err := unlike.Handle(context.Background(), UnlikeRequest{
		TelegramID:   100,
		CallbackData: "unlike:beng",
	})
	require.NoError(t, err)
	assert.False(t, resp.IsError, "снятие несуществующего лайка - не ошибка")
}

func TestLikeCallback_UnknownBreed(t *testing.T) {
	like, _, _ := newHandlers(t)

	resp, err := like.Handle(context.Background(), LikeRequest{
		TelegramID:   100,
		CallbackData: "like:ghost",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.True(t, resp.ShowAlert)
}

func TestLikeCallback_MalformedData(t *testing.T) {
	like, unlike, _ := newHandlers(t)

	for _, data := range []string{"like:", "top:refresh", ""} {
		resp, err := like.Handle(context.Background(), LikeRequest{TelegramID: 1, CallbackData: data})
		require.NoError(t, err)
		assert.True(t, resp.IsError, "data=%q", data)
	}

	resp, err := unlike.Handle(context.Background(), UnlikeRequest{TelegramID: 1, CallbackData: "unlike:"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}
