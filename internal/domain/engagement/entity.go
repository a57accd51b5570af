// Package engagement содержит доменную модель лайков Purrboard Bot.
// Центральный инвариант: пользователь может иметь не более одного активного
// лайка на породу. Уникальность пары (userID, catID) обеспечивается
// атомарной условной записью хранилища, а не проверкой перед записью.
package engagement

import (
	"errors"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIKE EDGE
// ══════════════════════════════════════════════════════════════════════════════

// UserID представляет идентификатор пользователя (Telegram ID).
type UserID int64

// IsValid проверяет, что идентификатор положительный.
func (id UserID) IsValid() bool {
	return id > 0
}

// Like представляет факт лайка - уникальное ребро (userID, catID).
// Создаётся при первом успешном лайке; повторный лайк той же пары - no-op.
// Удаление ребра допустимо; лайк после удаления - новое ребро.
type Like struct {
	// ID - внутренний идентификатор записи.
	ID string

	// UserID - пользователь, поставивший лайк.
	UserID UserID

	// CatID - порода, которой поставлен лайк.
	CatID breed.ID

	// CreatedAt - время создания ребра.
	CreatedAt time.Time
}

// NewLike создаёт новое ребро лайка с валидацией.
func NewLike(id string, userID UserID, catID breed.ID) (*Like, error) {
	if id == "" {
		return nil, ErrInvalidLikeID
	}
	if !userID.IsValid() {
		return nil, ErrInvalidUserID
	}
	if !catID.IsValid() {
		return nil, breed.ErrInvalidID
	}

	return &Like{
		ID:        id,
		UserID:    userID,
		CatID:     catID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// HistoryEntry представляет запись истории лайков пользователя
// для отображения (лайк, обогащённый данными породы).
type HistoryEntry struct {
	// CatID - идентификатор породы.
	CatID breed.ID

	// BreedName - имя породы на момент чтения.
	BreedName string

	// ImageURL - изображение породы.
	ImageURL string

	// LikedAt - время лайка.
	LikedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidLikeID - пустой идентификатор записи.
	ErrInvalidLikeID = errors.New("invalid like id: cannot be empty")

	// ErrInvalidUserID - невалидный идентификатор пользователя.
	ErrInvalidUserID = errors.New("invalid user id: must be positive")
)
