// Package handler contains Telegram command handlers.
package handler

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// HELP HANDLER
// Handles /help command - shows available commands with examples.
// ══════════════════════════════════════════════════════════════════════════════

// HelpHandler handles the /help command.
type HelpHandler struct{}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// HelpResponse contains the response to send back.
type HelpResponse struct {
	Text      string
	ParseMode string
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(ctx context.Context) (*HelpResponse, error) {
	text := `📖 <b>Команды Purrboard</b>

🐱 /cat - случайный котик с карточкой породы

🔍 /breed - поиск пород по признаку:
• <code>/breed Japan</code> - по стране происхождения
• <code>/breed temperament=playful</code> - по характеру
• <code>/breed life_span=14</code> - по сроку жизни

🏆 /top - рейтинг пород по лайкам
💖 /mylikes - породы, которые ты лайкнул

❤ Лайк под карточкой можно поставить только один раз -
повторное нажатие ничего не испортит.`

	return &HelpResponse{
		Text:      text,
		ParseMode: "HTML",
	}, nil
}
