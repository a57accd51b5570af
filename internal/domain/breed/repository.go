// Package breed содержит доменную модель каталога пород Purrboard Bot.
package breed

import (
	"context"
)

// Repository определяет контракт хранилища каталога пород.
// Реализация находится в infrastructure слое (PostgreSQL, in-memory).
type Repository interface {
	// Search выполняет store-side стадию запроса по атрибуту.
	// Для QueryExact и QuerySubstring хранилище фильтрует само;
	// для QueryRange возвращает все строки. Результат всегда упорядочен
	// по количеству лайков по убыванию (tie-break: ID по возрастанию).
	// Неизвестный атрибут - пустой результат, не ошибка.
	Search(ctx context.Context, query AttributeQuery) ([]*Breed, error)

	// GetByID возвращает породу по идентификатору.
	// Возвращает ErrBreedNotFound, если порода не найдена.
	GetByID(ctx context.Context, id ID) (*Breed, error)

	// ListAll возвращает весь каталог, упорядоченный по количеству лайков.
	ListAll(ctx context.Context) ([]*Breed, error)

	// Upsert создаёт или обновляет породу (путь загрузки данных).
	// Никогда не трогает LikeCount существующей записи.
	Upsert(ctx context.Context, b *Breed) error

	// UpsertAll загружает пакет пород (периодический sync каталога).
	// Семантика каждой записи - как у Upsert.
	UpsertAll(ctx context.Context, breeds []*Breed) error

	// Count возвращает количество пород в каталоге.
	Count(ctx context.Context) (int, error)
}
