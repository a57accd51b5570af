// Package handler contains Telegram command handlers.
package handler

import (
	"context"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOP HANDLER
// Handles /top command - shows the breed popularity leaderboard.
// Philosophy: the leaderboard is the community's shop window.
// ══════════════════════════════════════════════════════════════════════════════

// TopHandler handles the /top command.
type TopHandler struct {
	leaderboardQuery *query.GetLeaderboardHandler
	leaderboards     *presenter.LeaderboardPresenter
}

// NewTopHandler creates a new TopHandler with dependencies.
func NewTopHandler(
	leaderboardQuery *query.GetLeaderboardHandler,
	leaderboards *presenter.LeaderboardPresenter,
) *TopHandler {
	return &TopHandler{
		leaderboardQuery: leaderboardQuery,
		leaderboards:     leaderboards,
	}
}

// TopRequest contains the parsed /top command data.
type TopRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID for sending responses.
	ChatID int64

	// MessageID is the original message ID (for editing on refresh).
	MessageID int

	// Limit is the number of entries to show.
	Limit int

	// IsRefresh indicates a refresh request (from callback).
	IsRefresh bool
}

// TopResponse contains the response to send back.
type TopResponse struct {
	Text      string
	Keyboard  *presenter.InlineKeyboard
	ParseMode string
	IsError   bool
}

// Handle processes the /top command.
func (h *TopHandler) Handle(ctx context.Context, req TopRequest) (*TopResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = query.DefaultLeaderboardLimit
	}

	result, err := h.leaderboardQuery.Handle(ctx, query.GetLeaderboardQuery{
		Limit: limit,
	})
	if err != nil {
		view := h.leaderboards.FormatErrorState()
		return &TopResponse{
			Text:      view.Text,
			Keyboard:  view.Keyboard,
			ParseMode: view.ParseMode,
			IsError:   true,
		}, nil
	}

	view := h.leaderboards.FormatLeaderboard(result)

	return &TopResponse{
		Text:      view.Text,
		Keyboard:  view.Keyboard,
		ParseMode: view.ParseMode,
	}, nil
}
