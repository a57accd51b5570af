// Package presenter formats data for Telegram display.
package presenter

import (
	"fmt"
	"strings"

	"github.com/purrboard/purrboard-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD PRESENTER
// Форматирует рейтинг пород для красивого отображения в Telegram.
// Философия: топ - это витрина сообщества, самые любимые котики на виду.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardPresenter форматирует данные рейтинга для Telegram.
type LeaderboardPresenter struct {
	keyboardBuilder *KeyboardBuilder
}

// NewLeaderboardPresenter создаёт новый презентер рейтинга.
func NewLeaderboardPresenter() *LeaderboardPresenter {
	return &LeaderboardPresenter{
		keyboardBuilder: NewKeyboardBuilder(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// MAIN LEADERBOARD VIEW
// ─────────────────────────────────────────────────────────────────────────────

// LeaderboardView содержит отформатированные данные для отображения.
type LeaderboardView struct {
	// Text - основной текст сообщения (с HTML-разметкой).
	Text string

	// Keyboard - inline-клавиатура.
	Keyboard *InlineKeyboard

	// ParseMode - режим парсинга ("HTML").
	ParseMode string
}

// FormatLeaderboard форматирует полный рейтинг пород.
func (p *LeaderboardPresenter) FormatLeaderboard(result *query.GetLeaderboardResult) *LeaderboardView {
	if len(result.Entries) == 0 {
		return p.FormatEmptyLeaderboard()
	}

	var sb strings.Builder

	sb.WriteString("🏆 <b>Самые любимые породы</b>\n\n")

	for _, entry := range result.Entries {
		sb.WriteString(p.formatEntry(&entry))
		sb.WriteString("\n")
	}

	sb.WriteString("\n─────────────────────\n")
	sb.WriteString(fmt.Sprintf("👁 Обновлено: %s", result.GeneratedAt.Format("15:04")))

	return &LeaderboardView{
		Text:      sb.String(),
		Keyboard:  p.keyboardBuilder.LeaderboardKeyboard(),
		ParseMode: "HTML",
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ENTRY FORMATTING
// ─────────────────────────────────────────────────────────────────────────────

// formatEntry форматирует одну запись рейтинга.
func (p *LeaderboardPresenter) formatEntry(entry *query.LeaderboardEntryDTO) string {
	var sb strings.Builder

	sb.WriteString(p.formatRank(entry.Rank))
	sb.WriteString(" ")

	sb.WriteString(fmt.Sprintf("<b>%s</b>", p.escapeHTML(entry.DisplayName)))

	sb.WriteString(fmt.Sprintf(" • ❤ <code>%d</code>", entry.Count))

	return sb.String()
}

// formatRank форматирует позицию с соответствующим эмодзи.
func (p *LeaderboardPresenter) formatRank(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// escapeHTML экранирует HTML-символы для безопасного отображения.
func (p *LeaderboardPresenter) escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// EMPTY STATES
// ─────────────────────────────────────────────────────────────────────────────

// FormatEmptyLeaderboard форматирует пустой рейтинг.
func (p *LeaderboardPresenter) FormatEmptyLeaderboard() *LeaderboardView {
	text := `🏆 <b>Самые любимые породы</b>

📭 <i>Пока здесь пусто...</i>

Рейтинг заполнится, когда кто-нибудь лайкнет первого котика!

💡 Введи /cat и нажми ❤`

	return &LeaderboardView{
		Text:      text,
		Keyboard:  p.keyboardBuilder.LeaderboardKeyboard(),
		ParseMode: "HTML",
	}
}

// FormatErrorState форматирует состояние ошибки.
func (p *LeaderboardPresenter) FormatErrorState() *LeaderboardView {
	text := `⚠️ <b>Что-то пошло не так</b>

Не удалось загрузить рейтинг.
Попробуй ещё раз через несколько секунд.`

	return &LeaderboardView{
		Text:      text,
		Keyboard:  p.keyboardBuilder.LeaderboardKeyboard(),
		ParseMode: "HTML",
	}
}
