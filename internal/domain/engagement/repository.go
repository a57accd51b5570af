// Package engagement содержит доменную модель лайков Purrboard Bot.
package engagement

import (
	"context"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

// Ledger определяет контракт леджера лайков.
// Реализация находится в infrastructure слое (PostgreSQL, in-memory).
//
// Идемпотентность: проверка существования и создание ребра - одна
// атомарная операция хранилища. Два конкурентных AddLike одной пары
// дают ровно одно созданное ребро и ровно один true.
type Ledger interface {
	// AddLike создаёт ребро (userID, catID), если его ещё нет.
	// Возвращает true, если ребро создано (счётчик увеличен),
	// false - если уже существовало (no-op, счётчик не изменён).
	// При недоступности хранилища возвращает ошибку с признаком
	// shared.ErrStoreUnavailable; вызывающий не должен предполагать,
	// был лайк записан или нет.
	AddLike(ctx context.Context, catID breed.ID, userID UserID) (bool, error)

	// RemoveLike удаляет ребро, если оно есть. Возвращает true, если
	// ребро удалено (счётчик уменьшен), false - если ребра не было.
	RemoveLike(ctx context.Context, catID breed.ID, userID UserID) (bool, error)

	// GetLikes возвращает текущее количество лайков породы (>= 0),
	// согласованное с последним закоммиченным AddLike.
	GetLikes(ctx context.Context, catID breed.ID) (int, error)

	// GetUserLikes возвращает историю лайков пользователя,
	// упорядоченную от новых к старым.
	GetUserLikes(ctx context.Context, userID UserID) ([]*HistoryEntry, error)

	// HasLike проверяет наличие ребра (для отображения состояния кнопки).
	HasLike(ctx context.Context, catID breed.ID, userID UserID) (bool, error)
}
