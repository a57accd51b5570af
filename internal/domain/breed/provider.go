// Package breed содержит доменную модель каталога пород Purrboard Bot.
package breed

import (
	"context"
)

// Card - случайная карточка: изображение и порода, изображённая на нём.
type Card struct {
	// ImageID - идентификатор изображения у провайдера.
	ImageID string

	// ImageURL - ссылка на изображение.
	ImageURL string

	// Breed - порода на изображении.
	Breed *Breed
}

// Provider определяет контракт внешнего источника каталога (Cat API).
// Реализация находится в infrastructure слое.
type Provider interface {
	// FetchAll возвращает весь каталог пород провайдера.
	FetchAll(ctx context.Context) ([]*Breed, error)

	// FetchRandomCard возвращает случайную карточку с данными породы.
	FetchRandomCard(ctx context.Context) (*Card, error)

	// FetchRandomCardByBreed возвращает случайную карточку заданной породы.
	FetchRandomCardByBreed(ctx context.Context, id ID) (*Card, error)
}
