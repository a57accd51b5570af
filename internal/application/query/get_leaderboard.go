// Package query contains read operations following CQRS pattern.
package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Возвращает топ-N пород по количеству лайков. Рейтинг - представление:
// вычисляется из текущего состояния на момент вызова, с опциональным
// кешем с ограниченным TTL (несвежесть допустима, корректность - нет).
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLeaderboardLimit - количество записей по умолчанию.
const DefaultLeaderboardLimit = 10

// GetLeaderboardQuery содержит параметры запроса рейтинга.
type GetLeaderboardQuery struct {
	// Limit - количество записей. Значение <= 0 даёт пустой результат.
	Limit int
}

// LeaderboardEntryDTO - DTO записи рейтинга.
type LeaderboardEntryDTO struct {
	Rank        int    `json:"rank"`
	CatID       string `json:"cat_id"`
	Count       int    `json:"count"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url,omitempty"`
}

// GetLeaderboardResult содержит результат запроса рейтинга.
type GetLeaderboardResult struct {
	Entries     []LeaderboardEntryDTO `json:"entries"`
	GeneratedAt time.Time             `json:"generated_at"`

	// FromCache - признак, что результат отдан из кеша.
	FromCache bool `json:"-"`
}

// GetLeaderboardHandler обрабатывает запрос рейтинга.
type GetLeaderboardHandler struct {
	repo     leaderboard.Repository
	cache    leaderboard.Cache // nil - без кеширования
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewGetLeaderboardHandler создаёт обработчик запроса рейтинга.
func NewGetLeaderboardHandler(
	repo leaderboard.Repository,
	cache leaderboard.Cache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLeaderboardHandler{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Handle возвращает топ-N. limit <= 0 - пустой результат без ошибки.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if q.Limit <= 0 {
		return &GetLeaderboardResult{
			Entries:     []LeaderboardEntryDTO{},
			GeneratedAt: time.Now().UTC(),
		}, nil
	}

	// Cache-aside: промах или ошибка кеша не фатальны.
	if h.cache != nil {
		cached, err := h.cache.GetCachedTop(ctx, q.Limit)
		if err != nil {
			h.logger.Warn("leaderboard cache read failed", "error", err)
		} else if cached != nil {
			return &GetLeaderboardResult{
				Entries:     toEntryDTOs(cached),
				GeneratedAt: time.Now().UTC(),
				FromCache:   true,
			}, nil
		}
	}

	entries, err := h.repo.GetTop(ctx, q.Limit)
	if err != nil {
		return nil, err
	}

	if h.cache != nil && len(entries) > 0 {
		if err := h.cache.SetCachedTop(ctx, q.Limit, entries, h.cacheTTL); err != nil {
			h.logger.Warn("leaderboard cache write failed", "error", err)
		}
	}

	return &GetLeaderboardResult{
		Entries:     toEntryDTOs(entries),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// toEntryDTOs преобразует записи рейтинга в DTO.
func toEntryDTOs(entries []*leaderboard.Entry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, LeaderboardEntryDTO{
			Rank:        int(e.Rank),
			CatID:       e.CatID.String(),
			Count:       e.Count,
			DisplayName: e.DisplayName,
			ImageURL:    e.ImageURL,
		})
	}
	return dtos
}
