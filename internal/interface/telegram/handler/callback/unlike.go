package callback

import (
	"context"
	"fmt"

	"github.com/purrboard/purrboard-bot/internal/application/command"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNLIKE CALLBACK HANDLER
// Handles the 💖 button click on an already liked breed card.
// Removing a like that was never recorded (or was removed from another
// device) is a friendly toast, never an error. The card keyboard flips
// back to the unliked state with the fresh count.
// ══════════════════════════════════════════════════════════════════════════════

// UnlikeHandler handles the unlike button callback.
type UnlikeHandler struct {
	removeLikeCmd *command.RemoveLikeHandler
	keyboards     *presenter.KeyboardBuilder
}

// NewUnlikeHandler creates a new UnlikeHandler with dependencies.
func NewUnlikeHandler(
	removeLikeCmd *command.RemoveLikeHandler,
	keyboards *presenter.KeyboardBuilder,
) *UnlikeHandler {
	return &UnlikeHandler{
		removeLikeCmd: removeLikeCmd,
		keyboards:     keyboards,
	}
}

// UnlikeRequest contains the parsed callback data.
type UnlikeRequest struct {
	// TelegramID is the user's Telegram ID who clicked the button.
	TelegramID int64

	// CallbackData is the raw callback payload ("unlike:<catID>").
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

// UnlikeResponse contains the response data.
type UnlikeResponse struct {
	// AnswerText is the text to show in the callback answer toast.
	AnswerText string

	// ShowAlert determines if the answer should be shown as an alert.
	ShowAlert bool

	// UpdatedKeyboard is the refreshed card keyboard (nil = keep as is).
	UpdatedKeyboard *presenter.InlineKeyboard

	// IsError indicates if this is an error response.
	IsError bool
}

// Handle processes the unlike callback.
func (h *UnlikeHandler) Handle(ctx context.Context, req UnlikeRequest) (*UnlikeResponse, error) {
	catID, ok := parseCatID(req.CallbackData, presenter.CallbackPrefixUnlike)
	if !ok {
		return &UnlikeResponse{
			AnswerText: "❌ Не получилось разобрать кнопку",
			IsError:    true,
		}, nil
	}

	result, err := h.removeLikeCmd.Handle(ctx, command.RemoveLikeCommand{
		CatID:  catID,
		UserID: req.TelegramID,
	})
	if err != nil {
		return &UnlikeResponse{
			AnswerText: "⚠️ Не получилось убрать лайк, попробуй ещё раз",
			IsError:    true,
		}, nil
	}

	answer := fmt.Sprintf("💔 Лайк снят. Всего: %d", result.Count)
	if !result.Removed {
		answer = "🤷 Лайка и не было"
	}

	return &UnlikeResponse{
		AnswerText:      answer,
		UpdatedKeyboard: h.keyboards.BreedCardKeyboard(catID, result.Count, false, req.WikipediaURL),
	}, nil
}
