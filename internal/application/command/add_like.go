// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"log/slog"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD LIKE COMMAND
// Идемпотентный лайк: создание ребра (userID, catID) и инкремент счётчика -
// одна атомарная операция хранилища. Повторный лайк - нормальный false,
// не ошибка. При сбое хранилища вызывающий обязан перечитать состояние
// перед повтором, чтобы не досчитать лайк дважды.
// ══════════════════════════════════════════════════════════════════════════════

// AddLikeCommand содержит данные команды лайка.
type AddLikeCommand struct {
	// CatID - идентификатор породы.
	CatID string

	// UserID - идентификатор пользователя (Telegram ID).
	UserID int64
}

// Validate проверяет корректность команды.
func (c AddLikeCommand) Validate() error {
	if !breed.ID(c.CatID).IsValid() {
		return breed.ErrInvalidID
	}
	if !engagement.UserID(c.UserID).IsValid() {
		return engagement.ErrInvalidUserID
	}
	return nil
}

// AddLikeResult содержит результат команды.
type AddLikeResult struct {
	// Created - true, если создано новое ребро (первый лайк пары).
	Created bool

	// Count - количество лайков породы после выполнения команды.
	Count int
}

// AddLikeHandler обрабатывает команду лайка.
type AddLikeHandler struct {
	ledger engagement.Ledger
	cache  leaderboard.Cache // nil - без кеша
	logger *slog.Logger
}

// NewAddLikeHandler создаёт обработчик команды лайка.
func NewAddLikeHandler(ledger engagement.Ledger, cache leaderboard.Cache, logger *slog.Logger) *AddLikeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddLikeHandler{
		ledger: ledger,
		cache:  cache,
		logger: logger,
	}
}

// Handle выполняет команду лайка.
func (h *AddLikeHandler) Handle(ctx context.Context, cmd AddLikeCommand) (*AddLikeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	catID := breed.ID(cmd.CatID)
	userID := engagement.UserID(cmd.UserID)

	created, err := h.ledger.AddLike(ctx, catID, userID)
	if err != nil {
		return nil, err
	}

	count, err := h.ledger.GetLikes(ctx, catID)
	if err != nil {
		// Ребро уже закоммичено; счётчик для отображения не критичен.
		h.logger.Warn("like recorded but count read failed",
			"cat_id", cmd.CatID, "user_id", cmd.UserID, "error", err)
		count = 0
	}

	// Кеш рейтинга несёт ограниченную несвежесть; сбрасываем best-effort,
	// чтобы свежий лайк стал виден раньше TTL.
	if created && h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Warn("leaderboard cache invalidation failed", "error", err)
		}
	}

	return &AddLikeResult{
		Created: created,
		Count:   count,
	}, nil
}

// IsDuplicate проверяет, был ли результат повторным лайком.
func (r *AddLikeResult) IsDuplicate() bool {
	return r != nil && !r.Created
}
