package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreedCardKeyboard_Toggle(t *testing.T) {
	b := NewKeyboardBuilder()

	kb := b.BreedCardKeyboard("beng", 3, false, "")
	require.Len(t, kb.Rows, 1)
	assert.Equal(t, "❤ 3", kb.Rows[0][0].Text)
	assert.Equal(t, "like:beng", kb.Rows[0][0].CallbackData)

	kb = b.BreedCardKeyboard("beng", 4, true, "")
	assert.Equal(t, "💖 4", kb.Rows[0][0].Text)
	assert.Equal(t, "unlike:beng", kb.Rows[0][0].CallbackData)
}

func TestBreedCardKeyboard_WikipediaRow(t *testing.T) {
	b := NewKeyboardBuilder()

	kb := b.BreedCardKeyboard("beng", 0, false, "https://en.wikipedia.org/wiki/Bengal_cat")
	require.Len(t, kb.Rows, 2)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Bengal_cat", kb.Rows[1][0].URL)
	assert.Empty(t, kb.Rows[1][0].CallbackData)
}

func TestLeaderboardKeyboard(t *testing.T) {
	kb := NewKeyboardBuilder().LeaderboardKeyboard()
	require.Len(t, kb.Rows, 1)
	assert.Equal(t, "top:refresh", kb.Rows[0][0].CallbackData)
}
