// Package query contains read operations following CQRS pattern.
package query

import (
	"context"
	"log/slog"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANDOM CAT QUERY
// Случайная карточка породы от внешнего провайдера. Увиденная порода
// сохраняется в каталог, чтобы лайк можно было привязать сразу;
// загрузка никогда не трогает счётчик лайков существующей записи.
// ══════════════════════════════════════════════════════════════════════════════

// GetRandomCatQuery содержит параметры запроса карточки.
type GetRandomCatQuery struct {
	// UserID - идентификатор зрителя (для состояния кнопки лайка).
	UserID int64
}

// RandomCatResult содержит карточку для отображения.
type RandomCatResult struct {
	Breed    BreedDTO `json:"breed"`
	ImageURL string   `json:"image_url"`

	// Liked - зритель уже лайкал эту породу.
	Liked bool `json:"liked"`
}

// GetRandomCatHandler обрабатывает запрос случайной карточки.
type GetRandomCatHandler struct {
	provider breed.Provider
	breeds   breed.Repository
	ledger   engagement.Ledger
	logger   *slog.Logger
}

// NewGetRandomCatHandler создаёт обработчик случайной карточки.
func NewGetRandomCatHandler(
	provider breed.Provider,
	breeds breed.Repository,
	ledger engagement.Ledger,
	logger *slog.Logger,
) *GetRandomCatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetRandomCatHandler{
		provider: provider,
		breeds:   breeds,
		ledger:   ledger,
		logger:   logger,
	}
}

// Handle возвращает случайную карточку породы.
func (h *GetRandomCatHandler) Handle(ctx context.Context, q GetRandomCatQuery) (*RandomCatResult, error) {
	card, err := h.provider.FetchRandomCard(ctx)
	if err != nil {
		return nil, err
	}

	// Порода попадает в каталог до показа: кнопка лайка должна работать
	// сразу. Сбой сохранения не фатален для показа карточки.
	if err := h.breeds.Upsert(ctx, card.Breed); err != nil {
		h.logger.Warn("failed to persist breed from card",
			"breed_id", card.Breed.ID.String(), "error", err)
	}

	dto := toBreedDTO(card.Breed)
	if stored, err := h.breeds.GetByID(ctx, card.Breed.ID); err == nil {
		dto.LikeCount = stored.LikeCount
	}

	liked := false
	userID := engagement.UserID(q.UserID)
	if userID.IsValid() {
		if has, err := h.ledger.HasLike(ctx, card.Breed.ID, userID); err == nil {
			liked = has
		}
	}

	result := &RandomCatResult{
		Breed:    dto,
		ImageURL: card.ImageURL,
		Liked:    liked,
	}
	if result.Breed.ImageURL == "" {
		result.Breed.ImageURL = card.ImageURL
	}

	return result, nil
}
