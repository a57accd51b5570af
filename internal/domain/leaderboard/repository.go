// Package leaderboard содержит доменную модель рейтинга пород Purrboard Bot.
package leaderboard

import (
	"context"
	"time"
)

// Repository определяет контракт чтения рейтинга из хранилища.
// Рейтинг всегда вычисляется из текущего состояния каталога на момент
// вызова; read-skew относительно конкурентных лайков допустим.
type Repository interface {
	// GetTop возвращает топ-N пород, упорядоченных по количеству лайков
	// по убыванию (tie-break: ID по возрастанию). limit <= 0 - пустой
	// срез, не ошибка.
	GetTop(ctx context.Context, limit int) ([]*Entry, error)
}

// Cache определяет контракт кеширования топ-N.
// Кеш необязателен для корректности: это явное окно ограниченной
// несвежести поверх Repository, не самостоятельное состояние.
type Cache interface {
	// GetCachedTop возвращает закешированный топ-N.
	// Возвращает nil без ошибки, если кеш пуст или устарел.
	GetCachedTop(ctx context.Context, limit int) ([]*Entry, error)

	// SetCachedTop сохраняет топ-N в кеш с TTL. limit - размер, для
	// которого срез вычислялся; он может превышать len(entries), если
	// каталог меньше запрошенного.
	SetCachedTop(ctx context.Context, limit int, entries []*Entry, ttl time.Duration) error

	// Invalidate сбрасывает кеш.
	Invalidate(ctx context.Context) error
}
