// Package leaderboard содержит доменную модель рейтинга пород Purrboard Bot.
// Рейтинг - производное представление: он всегда вычисляется из текущего
// состояния каталога и не имеет собственного жизненного цикла.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию породы в рейтинге. Начинается с 1.
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну запись рейтинга.
type Entry struct {
	// Rank - позиция в рейтинге.
	Rank Rank

	// CatID - идентификатор породы.
	CatID breed.ID

	// Count - количество лайков на момент расчёта.
	Count int

	// DisplayName - отображаемое имя породы.
	DisplayName string

	// ImageURL - изображение породы.
	ImageURL string
}

// NewEntry создаёт запись рейтинга с валидацией.
func NewEntry(rank Rank, catID breed.ID, count int, displayName string) (*Entry, error) {
	if !rank.IsValid() {
		return nil, ErrInvalidRank
	}
	if !catID.IsValid() {
		return nil, breed.ErrInvalidID
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}

	return &Entry{
		Rank:        rank,
		CatID:       catID,
		Count:       count,
		DisplayName: displayName,
	}, nil
}

// String возвращает строковое представление для логирования.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{Rank: %d, CatID: %s, Count: %d}", e.Rank, e.CatID, e.Count)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Ranking представляет полный отсортированный рейтинг пород.
// Порядок детерминирован и воспроизводим: первичный ключ - количество
// лайков по убыванию, вторичный - идентификатор породы по возрастанию.
type Ranking struct {
	entries []*Entry
}

// BuildRanking строит рейтинг из текущего состояния каталога.
func BuildRanking(breeds []*breed.Breed) *Ranking {
	entries := make([]*Entry, 0, len(breeds))
	for _, b := range breeds {
		entries = append(entries, &Entry{
			CatID:       b.ID,
			Count:       b.LikeCount,
			DisplayName: b.Name,
			ImageURL:    b.ImageURL,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].CatID < entries[j].CatID
	})

	for i, e := range entries {
		e.Rank = Rank(i + 1)
	}

	return &Ranking{entries: entries}
}

// Top возвращает топ-N записей. limit <= 0 - пустой срез, не ошибка.
func (r *Ranking) Top(limit int) []*Entry {
	if limit <= 0 {
		return []*Entry{}
	}
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	result := make([]*Entry, limit)
	copy(result, r.entries[:limit])
	return result
}

// Count возвращает общее количество записей.
func (r *Ranking) Count() int {
	return len(r.entries)
}

// All возвращает все записи в порядке рейтинга.
func (r *Ranking) All() []*Entry {
	result := make([]*Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidRank - невалидный ранг (должен быть положительным).
	ErrInvalidRank = errors.New("invalid rank: must be positive")

	// ErrNegativeCount - счётчик лайков не может быть отрицательным.
	ErrNegativeCount = errors.New("invalid count: must be non-negative")
)
