// Package handler contains Telegram command handlers.
package handler

import (
	"context"

	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// START HANDLER
// Handles /start command - greets the user and explains what the bot does.
// Philosophy: the first cat should be one tap away.
// ══════════════════════════════════════════════════════════════════════════════

// StartHandler handles the /start command.
type StartHandler struct{}

// NewStartHandler creates a new StartHandler.
func NewStartHandler() *StartHandler {
	return &StartHandler{}
}

// StartRequest contains the parsed /start command data.
type StartRequest struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID for sending responses.
	ChatID int64

	// FirstName is the user's first name for the greeting.
	FirstName string
}

// StartResponse contains the response to send back.
type StartResponse struct {
	Text      string
	Keyboard  *presenter.InlineKeyboard
	ParseMode string
}

// Handle processes the /start command.
func (h *StartHandler) Handle(ctx context.Context, req StartRequest) (*StartResponse, error) {
	text := `👋 <b>Привет! Это Purrboard</b>

Бот про котиков и их породы.

🎯 <b>Что я умею:</b>
• 🐱 /cat - показать случайного котика
• 🔍 /breed - найти породу по признаку
• 🏆 /top - рейтинг самых любимых пород
• 💖 /mylikes - твои любимые породы

Жми ❤ под карточкой - так порода поднимается в рейтинге!`

	keyboard := presenter.NewInlineKeyboard().
		AddRow(
			presenter.CallbackButton("🐱 Показать котика", presenter.CallbackPrefixCat+"next"),
			presenter.CallbackButton("🏆 Рейтинг", presenter.CallbackPrefixTop+"refresh"),
		)

	return &StartResponse{
		Text:      text,
		Keyboard:  keyboard,
		ParseMode: "HTML",
	}, nil
}
