// Package callback contains inline button callback handlers.
package callback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/purrboard/purrboard-bot/internal/application/command"
	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIKE CALLBACK HANDLER
// Handles the ❤ button click under a breed card.
// A like is recorded at most once per (user, breed): a repeat click is a
// friendly toast, never an error. The card keyboard is refreshed in place
// with the new count so the user sees their vote land.
// ══════════════════════════════════════════════════════════════════════════════

// LikeHandler handles the like button callback.
type LikeHandler struct {
	addLikeCmd *command.AddLikeHandler
	keyboards  *presenter.KeyboardBuilder
}

// NewLikeHandler creates a new LikeHandler with dependencies.
func NewLikeHandler(
	addLikeCmd *command.AddLikeHandler,
	keyboards *presenter.KeyboardBuilder,
) *LikeHandler {
	return &LikeHandler{
		addLikeCmd: addLikeCmd,
		keyboards:  keyboards,
	}
}

// LikeRequest contains the parsed callback data.
type LikeRequest struct {
	// TelegramID is the user's Telegram ID who clicked the button.
	TelegramID int64

	// CallbackData is the raw callback payload ("like:<catID>").
	CallbackData string

	// CallbackQueryID is the callback query ID for answering.
	CallbackQueryID string

	// ChatID is the chat ID of the card message.
	ChatID int64

	// MessageID is the card message ID for editing the keyboard.
	MessageID int

	// WikipediaURL preserves the card's Wikipedia row on keyboard refresh.
	WikipediaURL string
}

// LikeResponse contains the response data.
type LikeResponse struct {
	// AnswerText is the text to show in the callback answer toast.
	AnswerText string

	// ShowAlert determines if the answer should be shown as an alert.
	ShowAlert bool

	// UpdatedKeyboard is the refreshed card keyboard (nil = keep as is).
	UpdatedKeyboard *presenter.InlineKeyboard

	// IsError indicates if this is an error response.
	IsError bool
}

// Handle processes the like callback.
func (h *LikeHandler) Handle(ctx context.Context, req LikeRequest) (*LikeResponse, error) {
	catID, ok := parseCatID(req.CallbackData, presenter.CallbackPrefixLike)
	if !ok {
		return &LikeResponse{
			AnswerText: "❌ Не получилось разобрать кнопку",
			IsError:    true,
		}, nil
	}

	result, err := h.addLikeCmd.Handle(ctx, command.AddLikeCommand{
		CatID:  catID,
		UserID: req.TelegramID,
	})
	if err != nil {
		if errors.Is(err, breed.ErrBreedNotFound) {
			return &LikeResponse{
				AnswerText: "😿 Эта порода пропала из каталога",
				ShowAlert:  true,
				IsError:    true,
			}, nil
		}
		return &LikeResponse{
			AnswerText: "⚠️ Не получилось сохранить лайк, попробуй ещё раз",
			IsError:    true,
		}, nil
	}

	answer := fmt.Sprintf("❤ Лайк засчитан! Всего: %d", result.Count)
	if result.IsDuplicate() {
		answer = "💖 Ты уже лайкал этого котика"
	}

	return &LikeResponse{
		AnswerText:      answer,
		UpdatedKeyboard: h.keyboards.BreedCardKeyboard(catID, result.Count, true, req.WikipediaURL),
	}, nil
}

// parseCatID extracts the breed ID from "<prefix><catID>" callback data.
func parseCatID(data, prefix string) (string, bool) {
	id, ok := strings.CutPrefix(data, prefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
