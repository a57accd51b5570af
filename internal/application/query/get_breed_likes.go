// Package query contains read operations following CQRS pattern.
package query

import (
	"context"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BREED LIKES QUERY
// Текущее количество лайков породы. Читается из леджера на момент вызова;
// HTTP-зеркало счётчика, который Telegram показывает на карточке.
// ══════════════════════════════════════════════════════════════════════════════

// GetBreedLikesQuery содержит параметры запроса счётчика лайков.
type GetBreedLikesQuery struct {
	// CatID - идентификатор породы.
	CatID string
}

// Validate проверяет корректность параметров.
func (q GetBreedLikesQuery) Validate() error {
	if !breed.ID(q.CatID).IsValid() {
		return breed.ErrInvalidID
	}
	return nil
}

// GetBreedLikesResult содержит счётчик лайков породы.
type GetBreedLikesResult struct {
	CatID       string    `json:"cat_id"`
	Likes       int       `json:"likes"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GetBreedLikesHandler обрабатывает запрос счётчика лайков.
type GetBreedLikesHandler struct {
	ledger engagement.Ledger
}

// NewGetBreedLikesHandler создаёт обработчик счётчика лайков.
func NewGetBreedLikesHandler(ledger engagement.Ledger) *GetBreedLikesHandler {
	return &GetBreedLikesHandler{ledger: ledger}
}

// Handle возвращает текущее количество лайков породы.
// Возвращает breed.ErrBreedNotFound, если порода не найдена в каталоге.
func (h *GetBreedLikesHandler) Handle(ctx context.Context, q GetBreedLikesQuery) (*GetBreedLikesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	count, err := h.ledger.GetLikes(ctx, breed.ID(q.CatID))
	if err != nil {
		return nil, err
	}

	return &GetBreedLikesResult{
		CatID:       q.CatID,
		Likes:       count,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
