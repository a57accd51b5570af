// Package presenter formats data for Telegram display.
// Presenters handle the conversion from domain objects to user-friendly
// Telegram messages, keyboards, and other UI elements.
package presenter

import (
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// INLINE KEYBOARD TYPES
// These types represent Telegram inline keyboards in a library-agnostic way.
// The actual Telegram bot implementation will convert these to the library's format.
// ══════════════════════════════════════════════════════════════════════════════

// InlineKeyboard represents an inline keyboard.
type InlineKeyboard struct {
	Rows [][]InlineButton
}

// InlineButton represents a single inline button.
type InlineButton struct {
	// Text is the button text.
	Text string

	// CallbackData is the callback data (for callback buttons).
	CallbackData string

	// URL is the URL to open (for URL buttons).
	URL string
}

// NewInlineKeyboard creates a new empty inline keyboard.
func NewInlineKeyboard() *InlineKeyboard {
	return &InlineKeyboard{
		Rows: make([][]InlineButton, 0),
	}
}

// AddRow adds a row of buttons.
func (k *InlineKeyboard) AddRow(buttons ...InlineButton) *InlineKeyboard {
	k.Rows = append(k.Rows, buttons)
	return k
}

// CallbackButton creates a callback button.
func CallbackButton(text, callbackData string) InlineButton {
	return InlineButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL button.
func URLButton(text, url string) InlineButton {
	return InlineButton{
		Text: text,
		URL:  url,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CALLBACK DATA
// ══════════════════════════════════════════════════════════════════════════════

// Callback data prefixes routed by the bot.
const (
	// CallbackPrefixLike marks a like button: "like:<catID>".
	CallbackPrefixLike = "like:"

	// CallbackPrefixUnlike marks an unlike button: "unlike:<catID>".
	CallbackPrefixUnlike = "unlike:"

	// CallbackPrefixTop marks a leaderboard refresh: "top:refresh".
	CallbackPrefixTop = "top:"

	// CallbackPrefixCat marks a "show another cat" request: "cat:next".
	CallbackPrefixCat = "cat:"
)

// LikeCallbackData builds the callback payload for a like button.
func LikeCallbackData(catID string) string {
	return CallbackPrefixLike + catID
}

// UnlikeCallbackData builds the callback payload for an unlike button.
func UnlikeCallbackData(catID string) string {
	return CallbackPrefixUnlike + catID
}

// ══════════════════════════════════════════════════════════════════════════════
// KEYBOARD BUILDER
// Builds keyboards for different use cases.
// ══════════════════════════════════════════════════════════════════════════════

// KeyboardBuilder builds inline keyboards for various handlers.
type KeyboardBuilder struct{}

// NewKeyboardBuilder creates a new KeyboardBuilder.
func NewKeyboardBuilder() *KeyboardBuilder {
	return &KeyboardBuilder{}
}

// BreedCardKeyboard builds the keyboard under a breed card.
// The like button toggles: an unliked card offers a like, a liked card
// offers to take the like back.
func (b *KeyboardBuilder) BreedCardKeyboard(catID string, likeCount int, liked bool, wikipediaURL string) *InlineKeyboard {
	kb := NewInlineKeyboard()

	likeText := fmt.Sprintf("❤ %d", likeCount)
	likeData := LikeCallbackData(catID)
	if liked {
		likeText = fmt.Sprintf("💖 %d", likeCount)
		likeData = UnlikeCallbackData(catID)
	}

	kb.AddRow(
		CallbackButton(likeText, likeData),
		CallbackButton("🐱 Ещё котика", CallbackPrefixCat+"next"),
	)

	if wikipediaURL != "" {
		kb.AddRow(URLButton("📖 Wikipedia", wikipediaURL))
	}

	return kb
}

// LeaderboardKeyboard builds the keyboard under the leaderboard view.
func (b *KeyboardBuilder) LeaderboardKeyboard() *InlineKeyboard {
	return NewInlineKeyboard().AddRow(
		CallbackButton("🔄 Обновить", CallbackPrefixTop+"refresh"),
	)
}
