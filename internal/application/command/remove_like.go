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
// REMOVE LIKE COMMAND
// Снятие лайка: удаление ребра и декремент счётчика в одной транзакции.
// Повторный лайк после снятия создаёт новое ребро.
// ══════════════════════════════════════════════════════════════════════════════

// RemoveLikeCommand содержит данные команды снятия лайка.
type RemoveLikeCommand struct {
	// CatID - идентификатор породы.
	CatID string

	// UserID - идентификатор пользователя.
	UserID int64
}

// Validate проверяет корректность команды.
func (c RemoveLikeCommand) Validate() error {
	if !breed.ID(c.CatID).IsValid() {
		return breed.ErrInvalidID
	}
	if !engagement.UserID(c.UserID).IsValid() {
		return engagement.ErrInvalidUserID
	}
	return nil
}

// RemoveLikeResult содержит результат команды.
type RemoveLikeResult struct {
	// Removed - true, если ребро существовало и было удалено.
	Removed bool

	// Count - количество лайков породы после выполнения команды.
	Count int
}

// RemoveLikeHandler обрабатывает команду снятия лайка.
type RemoveLikeHandler struct {
	ledger engagement.Ledger
	cache  leaderboard.Cache
	logger *slog.Logger
}

// NewRemoveLikeHandler создаёт обработчик снятия лайка.
func NewRemoveLikeHandler(ledger engagement.Ledger, cache leaderboard.Cache, logger *slog.Logger) *RemoveLikeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoveLikeHandler{
		ledger: ledger,
		cache:  cache,
		logger: logger,
	}
}

// Handle выполняет команду снятия лайка.
func (h *RemoveLikeHandler) Handle(ctx context.Context, cmd RemoveLikeCommand) (*RemoveLikeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	catID := breed.ID(cmd.CatID)
	userID := engagement.UserID(cmd.UserID)

	removed, err := h.ledger.RemoveLike(ctx, catID, userID)
	if err != nil {
		return nil, err
	}

	count, err := h.ledger.GetLikes(ctx, catID)
	if err != nil {
		h.logger.Warn("like removed but count read failed",
			"cat_id", cmd.CatID, "user_id", cmd.UserID, "error", err)
		count = 0
	}

	if removed && h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Warn("leaderboard cache invalidation failed", "error", err)
		}
	}

	return &RemoveLikeResult{
		Removed: removed,
		Count:   count,
	}, nil
}
