// Package presenter formats data for Telegram display.
package presenter

import (
	"fmt"
	"strings"

	"github.com/purrboard/purrboard-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// BREED CARD PRESENTER
// Форматирует карточку породы для красивого отображения в Telegram.
// Показывает: название, происхождение, темперамент, вес, срок жизни, лайки.
// Философия: карточка - это "визитка" породы в сообществе.
// ══════════════════════════════════════════════════════════════════════════════

// maxDescriptionLength ограничивает описание, чтобы подпись к фото
// не упиралась в лимит Telegram (1024 символа на caption).
const maxDescriptionLength = 400

// BreedCardPresenter форматирует данные карточки породы для Telegram.
type BreedCardPresenter struct {
	keyboardBuilder *KeyboardBuilder
}

// NewBreedCardPresenter создаёт новый презентер карточки породы.
func NewBreedCardPresenter() *BreedCardPresenter {
	return &BreedCardPresenter{
		keyboardBuilder: NewKeyboardBuilder(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// MAIN CARD VIEW
// ─────────────────────────────────────────────────────────────────────────────

// BreedCardView содержит отформатированные данные карточки породы.
type BreedCardView struct {
	// Text - подпись к фото или текст сообщения (с HTML-разметкой).
	Text string

	// PhotoURL - ссылка на фото (пустая строка = отправить текстом).
	PhotoURL string

	// Keyboard - inline-клавиатура.
	Keyboard *InlineKeyboard

	// ParseMode - режим парсинга ("HTML").
	ParseMode string
}

// FormatBreedCard форматирует полную карточку породы (команды /cat и /breed).
func (p *BreedCardPresenter) FormatBreedCard(dto *query.BreedDTO, imageURL string, liked bool) *BreedCardView {
	var sb strings.Builder

	// Заголовок с названием
	sb.WriteString(fmt.Sprintf("🐱 <b>%s</b>", p.escapeHTML(dto.Name)))
	if dto.Origin != "" {
		sb.WriteString(fmt.Sprintf(" • %s", p.escapeHTML(dto.Origin)))
	}
	sb.WriteString("\n\n")

	// Характеристики
	sb.WriteString(p.formatTraits(dto))

	// Описание (обрезанное)
	if dto.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("<i>%s</i>", p.escapeHTML(p.truncate(dto.Description))))
	}

	// Лайки
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("❤ Лайков: <b>%d</b>", dto.LikeCount))

	photoURL := imageURL
	if photoURL == "" {
		photoURL = dto.ImageURL
	}

	keyboard := p.keyboardBuilder.BreedCardKeyboard(dto.ID, dto.LikeCount, liked, dto.WikipediaURL)

	return &BreedCardView{
		Text:      sb.String(),
		PhotoURL:  photoURL,
		Keyboard:  keyboard,
		ParseMode: "HTML",
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TRAITS SECTION
// ─────────────────────────────────────────────────────────────────────────────

// formatTraits форматирует блок характеристик породы.
func (p *BreedCardPresenter) formatTraits(dto *query.BreedDTO) string {
	var sb strings.Builder

	if dto.Temperament != "" {
		sb.WriteString(fmt.Sprintf("😺 Характер: %s\n", p.escapeHTML(dto.Temperament)))
	}
	if dto.LifeSpan != "" {
		sb.WriteString(fmt.Sprintf("⏳ Живут: %s лет\n", p.escapeHTML(dto.LifeSpan)))
	}
	if dto.WeightMetric != "" {
		sb.WriteString(fmt.Sprintf("⚖️ Вес: %s кг", p.escapeHTML(dto.WeightMetric)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ─────────────────────────────────────────────────────────────────────────────
// SEARCH RESULTS VIEW
// ─────────────────────────────────────────────────────────────────────────────

// SearchResultsView содержит отформатированный список найденных пород.
type SearchResultsView struct {
	Text      string
	Keyboard  *InlineKeyboard
	ParseMode string
}

// FormatSearchResults форматирует результаты поиска (команда /breed).
func (p *BreedCardPresenter) FormatSearchResults(result *query.SearchBreedsResult, searchTerm string) *SearchResultsView {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🔍 <b>Поиск:</b> %s\n\n", p.escapeHTML(searchTerm)))

	if len(result.Breeds) == 0 {
		sb.WriteString("📭 <i>Ничего не нашлось.</i>\n")
		sb.WriteString("\n💡 Попробуй другое слово, например: /breed Russia")
	} else {
		for i, b := range result.Breeds {
			sb.WriteString(p.formatSearchEntry(i+1, &b))
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("\nНайдено: <b>%d</b>", len(result.Breeds)))
	}

	return &SearchResultsView{
		Text:      sb.String(),
		Keyboard:  nil,
		ParseMode: "HTML",
	}
}

// formatSearchEntry форматирует одну строку результата поиска.
func (p *BreedCardPresenter) formatSearchEntry(position int, dto *query.BreedDTO) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d. <b>%s</b>", position, p.escapeHTML(dto.Name)))

	if dto.Origin != "" {
		sb.WriteString(fmt.Sprintf(" • %s", p.escapeHTML(dto.Origin)))
	}

	if dto.LikeCount > 0 {
		sb.WriteString(fmt.Sprintf(" • ❤ %d", dto.LikeCount))
	}

	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// MY LIKES VIEW
// ─────────────────────────────────────────────────────────────────────────────

// MyLikesView содержит отформатированный список лайкнутых пород.
type MyLikesView struct {
	Text      string
	Keyboard  *InlineKeyboard
	ParseMode string
}

// FormatMyLikes форматирует список пород, лайкнутых пользователем.
func (p *BreedCardPresenter) FormatMyLikes(result *query.GetUserLikesResult) *MyLikesView {
	var sb strings.Builder

	sb.WriteString("💖 <b>Твои любимые породы</b>\n\n")

	if len(result.Likes) == 0 {
		sb.WriteString("📭 <i>Пока пусто.</i>\n")
		sb.WriteString("\n💡 Введи /cat и нажми ❤ под понравившимся котиком!")
	} else {
		for i, like := range result.Likes {
			sb.WriteString(fmt.Sprintf("%d. <b>%s</b> • %s\n",
				i+1,
				p.escapeHTML(like.BreedName),
				like.LikedAt.Format("02.01.2006"),
			))
		}
	}

	return &MyLikesView{
		Text:      sb.String(),
		Keyboard:  nil,
		ParseMode: "HTML",
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UTILITY FUNCTIONS
// ─────────────────────────────────────────────────────────────────────────────

// truncate обрезает описание до maxDescriptionLength по границе слова.
func (p *BreedCardPresenter) truncate(s string) string {
	if len(s) <= maxDescriptionLength {
		return s
	}

	cut := s[:maxDescriptionLength]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + "…"
}

// escapeHTML экранирует HTML-символы.
func (p *BreedCardPresenter) escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// ERROR STATES
// ─────────────────────────────────────────────────────────────────────────────

// FormatNotFound форматирует сообщение "порода не найдена".
func (p *BreedCardPresenter) FormatNotFound() *BreedCardView {
	text := `❌ <b>Порода не найдена</b>

Проверь написание или попробуй поискать по стране:

<i>Пример: /breed origin=Japan</i>`

	return &BreedCardView{
		Text:      text,
		Keyboard:  nil,
		ParseMode: "HTML",
	}
}

// FormatUpstreamError форматирует ошибку внешнего источника котиков.
func (p *BreedCardPresenter) FormatUpstreamError() *BreedCardView {
	text := `😿 <b>Котики временно недоступны</b>

Источник картинок не отвечает.
Попробуй ещё раз через несколько секунд.`

	keyboard := NewInlineKeyboard().
		AddRow(
			CallbackButton("🔄 Попробовать снова", CallbackPrefixCat+"next"),
		)

	return &BreedCardView{
		Text:      text,
		Keyboard:  keyboard,
		ParseMode: "HTML",
	}
}
