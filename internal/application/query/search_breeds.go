// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH BREEDS QUERY
// Поиск пород по одному атрибуту: селектор выбирает стратегию по имени
// атрибута, хранилище выполняет свою стадию, пост-фильтр сужает результат.
// Порядок по количеству лайков по убыванию сохраняется на всех стадиях.
// ══════════════════════════════════════════════════════════════════════════════

// SearchBreedsQuery содержит параметры поиска.
type SearchBreedsQuery struct {
	// Feature - имя атрибута (temperament, origin, life_span, ...).
	// Неизвестные имена не являются ошибкой: они дают пустой результат.
	Feature string

	// Value - искомое значение.
	Value string
}

// BreedDTO - DTO породы для транспортного слоя.
type BreedDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Origin         string `json:"origin,omitempty"`
	Temperament    string `json:"temperament,omitempty"`
	LifeSpan       string `json:"life_span,omitempty"`
	WeightMetric   string `json:"weight_metric,omitempty"`
	WeightImperial string `json:"weight_imperial,omitempty"`
	Description    string `json:"description,omitempty"`
	WikipediaURL   string `json:"wikipedia_url,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	LikeCount      int    `json:"like_count"`
}

// SearchBreedsResult содержит результат поиска.
type SearchBreedsResult struct {
	// Breeds - найденные породы, упорядоченные по лайкам по убыванию.
	Breeds []BreedDTO `json:"breeds"`

	// Feature / Value - эхо параметров запроса.
	Feature string `json:"feature"`
	Value   string `json:"value"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// SearchBreedsHandler обрабатывает запрос поиска пород.
type SearchBreedsHandler struct {
	breeds breed.Repository
}

// NewSearchBreedsHandler создаёт обработчик поиска.
func NewSearchBreedsHandler(breeds breed.Repository) *SearchBreedsHandler {
	return &SearchBreedsHandler{breeds: breeds}
}

// Handle выполняет поиск. Пустой результат - не ошибка; ошибка хранилища
// пробрасывается вызывающему как транзиентный сбой.
func (h *SearchBreedsHandler) Handle(ctx context.Context, q SearchBreedsQuery) (*SearchBreedsResult, error) {
	attrQuery := breed.NewAttributeQuery(q.Feature, q.Value)

	rows, err := h.breeds.Search(ctx, attrQuery)
	if err != nil {
		return nil, err
	}

	filtered := attrQuery.Filter(rows)

	dtos := make([]BreedDTO, 0, len(filtered))
	for _, b := range filtered {
		dtos = append(dtos, toBreedDTO(b))
	}

	return &SearchBreedsResult{
		Breeds:      dtos,
		Feature:     q.Feature,
		Value:       q.Value,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// toBreedDTO преобразует сущность в DTO.
func toBreedDTO(b *breed.Breed) BreedDTO {
	return BreedDTO{
		ID:             b.ID.String(),
		Name:           b.Name,
		Origin:         b.Origin,
		Temperament:    string(b.Temperament),
		LifeSpan:       b.LifeSpan,
		WeightMetric:   b.WeightMetric,
		WeightImperial: b.WeightImperial,
		Description:    b.Description,
		WikipediaURL:   b.WikipediaURL,
		ImageURL:       b.ImageURL,
		LikeCount:      b.LikeCount,
	}
}
