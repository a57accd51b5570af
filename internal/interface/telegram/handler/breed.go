// Package handler contains Telegram command handlers.
package handler

import (
	"context"
	"strings"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// BREED HANDLER
// Handles /breed command - attribute search over the breed catalog.
// Accepts "feature=value" pairs or a bare term (treated as origin).
// Unknown features are not an error: the search just comes back empty.
// ══════════════════════════════════════════════════════════════════════════════

// defaultSearchFeature is used when the user types a bare term.
const defaultSearchFeature = "origin"

// BreedHandler handles the /breed command.
type BreedHandler struct {
	searchQuery *query.SearchBreedsHandler
	cards       *presenter.BreedCardPresenter
}

// NewBreedHandler creates a new BreedHandler with dependencies.
func NewBreedHandler(
	searchQuery *query.SearchBreedsHandler,
	cards *presenter.BreedCardPresenter,
) *BreedHandler {
	return &BreedHandler{
		searchQuery: searchQuery,
		cards:       cards,
	}
}

// BreedRequest contains the parsed /breed command data.
type BreedRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID for sending responses.
	ChatID int64

	// Args is the raw command argument string.
	Args string
}

// BreedResponse contains the response to send back.
type BreedResponse struct {
	Text      string
	Keyboard  *presenter.InlineKeyboard
	ParseMode string
	IsError   bool
}

// Handle processes the /breed command.
func (h *BreedHandler) Handle(ctx context.Context, req BreedRequest) (*BreedResponse, error) {
	args := strings.TrimSpace(req.Args)
	if args == "" {
		return &BreedResponse{
			Text: `🔍 <b>Поиск пород</b>

Укажи, что искать:
• <code>/breed Japan</code> - по стране
• <code>/breed temperament=playful</code> - по характеру
• <code>/breed life_span=14</code> - по сроку жизни`,
			ParseMode: "HTML",
		}, nil
	}

	feature, value := parseSearchArgs(args)

	result, err := h.searchQuery.Handle(ctx, query.SearchBreedsQuery{
		Feature: feature,
		Value:   value,
	})
	if err != nil {
		return &BreedResponse{
			Text:      "❌ Не удалось выполнить поиск. Попробуй позже.",
			ParseMode: "HTML",
			IsError:   true,
		}, nil
	}

	view := h.cards.FormatSearchResults(result, args)

	return &BreedResponse{
		Text:      view.Text,
		Keyboard:  view.Keyboard,
		ParseMode: view.ParseMode,
	}, nil
}

// parseSearchArgs splits "feature=value" into a pair; a bare term
// searches by origin.
func parseSearchArgs(args string) (feature, value string) {
	if key, val, ok := strings.Cut(args, "="); ok {
		return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(val)
	}
	return defaultSearchFeature, args
}
