// Package query contains read operations following CQRS pattern.
package query

import (
	"context"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER LIKES QUERY
// История лайков пользователя для персонального представления,
// от новых к старым. Читается из леджера на момент вызова.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserLikesQuery содержит параметры запроса истории.
type GetUserLikesQuery struct {
	// UserID - идентификатор пользователя.
	UserID int64
}

// Validate проверяет корректность параметров.
func (q GetUserLikesQuery) Validate() error {
	if !engagement.UserID(q.UserID).IsValid() {
		return engagement.ErrInvalidUserID
	}
	return nil
}

// UserLikeDTO - DTO записи истории лайков.
type UserLikeDTO struct {
	CatID     string    `json:"cat_id"`
	BreedName string    `json:"breed_name"`
	ImageURL  string    `json:"image_url,omitempty"`
	LikedAt   time.Time `json:"liked_at"`
}

// GetUserLikesResult содержит историю лайков пользователя.
type GetUserLikesResult struct {
	Likes       []UserLikeDTO `json:"likes"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// GetUserLikesHandler обрабатывает запрос истории лайков.
type GetUserLikesHandler struct {
	ledger engagement.Ledger
}

// NewGetUserLikesHandler создаёт обработчик истории лайков.
func NewGetUserLikesHandler(ledger engagement.Ledger) *GetUserLikesHandler {
	return &GetUserLikesHandler{ledger: ledger}
}

// Handle возвращает историю лайков, от новых к старым.
func (h *GetUserLikesHandler) Handle(ctx context.Context, q GetUserLikesQuery) (*GetUserLikesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	history, err := h.ledger.GetUserLikes(ctx, engagement.UserID(q.UserID))
	if err != nil {
		return nil, err
	}

	dtos := make([]UserLikeDTO, 0, len(history))
	for _, entry := range history {
		dtos = append(dtos, UserLikeDTO{
			CatID:     entry.CatID.String(),
			BreedName: entry.BreedName,
			ImageURL:  entry.ImageURL,
			LikedAt:   entry.LikedAt,
		})
	}

	return &GetUserLikesResult{
		Likes:       dtos,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
