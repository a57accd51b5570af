// Package breed содержит доменную модель каталога пород Purrboard Bot.
// Порода - это карточка с описательными атрибутами и денормализованным
// счётчиком лайков. Каталог наполняется из внешнего Cat API, а счётчик
// меняется только через engagement-леджер.
package breed

import (
	"errors"
	"strings"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID представляет стабильный идентификатор породы (совпадает с ID у Cat API).
type ID string

// IsValid проверяет, что идентификатор не пустой.
func (id ID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// String возвращает строковое представление.
func (id ID) String() string {
	return string(id)
}

// Temperament представляет свободный список тегов темперамента,
// сериализованный как строка через запятую ("Active, Friendly, Playful").
type Temperament string

// Tags разбивает темперамент на отдельные теги.
func (t Temperament) Tags() []string {
	if t == "" {
		return nil
	}
	parts := strings.Split(string(t), ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Contains проверяет наличие подстроки без учёта регистра.
func (t Temperament) Contains(sub string) bool {
	return strings.Contains(strings.ToLower(string(t)), strings.ToLower(sub))
}

// ══════════════════════════════════════════════════════════════════════════════
// BREED ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Breed представляет породу в каталоге.
// Все поля кроме LikeCount принадлежат пути загрузки данных (sync из Cat API).
// LikeCount меняется только engagement-леджером, транзакционно с созданием лайка.
type Breed struct {
	// ID - стабильный идентификатор породы.
	ID ID

	// Name - отображаемое имя породы.
	Name string

	// Origin - страна происхождения.
	Origin string

	// Temperament - список тегов темперамента через запятую.
	Temperament Temperament

	// LifeSpan - продолжительность жизни в формате "min - max" (годы).
	LifeSpan string

	// WeightMetric - диапазон веса "min - max" в килограммах.
	WeightMetric string

	// WeightImperial - диапазон веса "min - max" в фунтах.
	WeightImperial string

	// Description - описание породы.
	Description string

	// WikipediaURL - внешняя ссылка на статью о породе.
	WikipediaURL string

	// ImageURL - ссылка на изображение породы.
	ImageURL string

	// LikeCount - денормализованный кеш количества лайков (всегда >= 0).
	LikeCount int

	// CreatedAt / UpdatedAt - времена загрузки и обновления записи.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBreed создаёт новую породу с валидацией обязательных полей.
func NewBreed(id ID, name string) (*Breed, error) {
	if !id.IsValid() {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	now := time.Now().UTC()
	return &Breed{
		ID:        id,
		Name:      name,
		LikeCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate проверяет инварианты сущности.
func (b *Breed) Validate() error {
	if !b.ID.IsValid() {
		return ErrInvalidID
	}
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.LikeCount < 0 {
		return ErrNegativeLikeCount
	}
	return nil
}

// Clone создаёт копию породы.
func (b *Breed) Clone() *Breed {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidID - невалидный идентификатор породы.
	ErrInvalidID = errors.New("invalid breed id: cannot be empty")

	// ErrEmptyName - пустое имя породы.
	ErrEmptyName = errors.New("invalid breed name: cannot be empty")

	// ErrNegativeLikeCount - счётчик лайков не может быть отрицательным.
	ErrNegativeLikeCount = errors.New("invalid like count: must be non-negative")

	// ErrBreedNotFound - порода не найдена. Несёт вид shared.ErrNotFound:
	// инфраструктура отличает постоянное "не найдено" от транзиентных
	// сбоев хранилища и не заворачивает его в ErrStoreUnavailable.
	ErrBreedNotFound = shared.NewDomainError("breed", "Find", shared.ErrNotFound, "breed not found")
)
