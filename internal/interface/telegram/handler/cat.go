// Package handler contains Telegram command handlers.
package handler

import (
	"context"
	"errors"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// CAT HANDLER
// Handles /cat command - shows a random cat card with breed info.
// The card carries a like button, so the feed doubles as a voting booth.
// ══════════════════════════════════════════════════════════════════════════════

// CatHandler handles the /cat command.
type CatHandler struct {
	randomCatQuery *query.GetRandomCatHandler
	cards          *presenter.BreedCardPresenter
}

// NewCatHandler creates a new CatHandler with dependencies.
func NewCatHandler(
	randomCatQuery *query.GetRandomCatHandler,
	cards *presenter.BreedCardPresenter,
) *CatHandler {
	return &CatHandler{
		randomCatQuery: randomCatQuery,
		cards:          cards,
	}
}

// CatRequest contains the parsed /cat command data.
type CatRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID for sending responses.
	ChatID int64
}

// CatResponse contains the response to send back.
type CatResponse struct {
	// Text is the caption or message text (HTML formatted).
	Text string

	// PhotoURL is the cat photo to attach (empty = text only).
	PhotoURL string

	// Keyboard is the inline keyboard to attach.
	Keyboard *presenter.InlineKeyboard

	// ParseMode is the parse mode (HTML).
	ParseMode string

	// IsError indicates if this is an error response.
	IsError bool
}

// Handle processes the /cat command.
func (h *CatHandler) Handle(ctx context.Context, req CatRequest) (*CatResponse, error) {
	result, err := h.randomCatQuery.Handle(ctx, query.GetRandomCatQuery{
		UserID: req.TelegramID,
	})
	if err != nil {
		if errors.Is(err, shared.ErrUpstreamUnavailable) || errors.Is(err, shared.ErrRateLimited) {
			view := h.cards.FormatUpstreamError()
			return &CatResponse{
				Text:      view.Text,
				Keyboard:  view.Keyboard,
				ParseMode: view.ParseMode,
				IsError:   true,
			}, nil
		}
		return nil, err
	}

	view := h.cards.FormatBreedCard(&result.Breed, result.ImageURL, result.Liked)

	return &CatResponse{
		Text:      view.Text,
		PhotoURL:  view.PhotoURL,
		Keyboard:  view.Keyboard,
		ParseMode: view.ParseMode,
	}, nil
}
