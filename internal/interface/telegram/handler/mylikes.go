// Package handler contains Telegram command handlers.
package handler

import (
	"context"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// MY LIKES HANDLER
// Handles /mylikes command - shows the breeds the user liked, newest first.
// ══════════════════════════════════════════════════════════════════════════════

// MyLikesHandler handles the /mylikes command.
type MyLikesHandler struct {
	userLikesQuery *query.GetUserLikesHandler
	cards          *presenter.BreedCardPresenter
}

// NewMyLikesHandler creates a new MyLikesHandler with dependencies.
func NewMyLikesHandler(
	userLikesQuery *query.GetUserLikesHandler,
	cards *presenter.BreedCardPresenter,
) *MyLikesHandler {
	return &MyLikesHandler{
		userLikesQuery: userLikesQuery,
		cards:          cards,
	}
}

// MyLikesRequest contains the parsed /mylikes command data.
type MyLikesRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID for sending responses.
	ChatID int64
}

// MyLikesResponse contains the response to send back.
type MyLikesResponse struct {
	Text      string
	Keyboard  *presenter.InlineKeyboard
	ParseMode string
	IsError   bool
}

// Handle processes the /mylikes command.
func (h *MyLikesHandler) Handle(ctx context.Context, req MyLikesRequest) (*MyLikesResponse, error) {
	result, err := h.userLikesQuery.Handle(ctx, query.GetUserLikesQuery{
		UserID: req.TelegramID,
	})
	if err != nil {
		return &MyLikesResponse{
			Text:      "❌ Не удалось загрузить твои лайки. Попробуй позже.",
			ParseMode: "HTML",
			IsError:   true,
		}, nil
	}

	view := h.cards.FormatMyLikes(result)

	return &MyLikesResponse{
		Text:      view.Text,
		Keyboard:  view.Keyboard,
		ParseMode: view.ParseMode,
	}, nil
}
