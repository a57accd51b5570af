// Package catapi implements the Cat API client.
package catapi

import (
	"strings"
	"time"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTO -> DOMAIN MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts upstream payloads into domain entities.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToBreed converts a BreedDTO into a catalog breed.
// A payload without a usable id or name is malformed upstream data.
func (m *Mapper) ToBreed(dto BreedDTO) (*breed.Breed, error) {
	id := breed.ID(strings.TrimSpace(dto.ID))
	name := strings.TrimSpace(dto.Name)

	if !id.IsValid() || name == "" {
		return nil, shared.WrapError("catapi", "ToBreed",
			shared.ErrInvalidFormat, "breed payload missing id or name", nil)
	}

	now := time.Now().UTC()
	b := &breed.Breed{
		ID:             id,
		Name:           name,
		Origin:         dto.Origin,
		Temperament:    breed.Temperament(dto.Temperament),
		LifeSpan:       dto.LifeSpan,
		WeightMetric:   dto.Weight.Metric,
		WeightImperial: dto.Weight.Imperial,
		Description:    dto.Description,
		WikipediaURL:   dto.WikipediaURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if dto.Image != nil {
		b.ImageURL = dto.Image.URL
	}

	return b, nil
}

// ToBreeds converts a list of BreedDTOs, skipping malformed records.
// Catalog sync must not fail wholesale because one upstream row is broken;
// the count of skipped rows is reported for logging.
func (m *Mapper) ToBreeds(dtos []BreedDTO) ([]*breed.Breed, int) {
	breeds := make([]*breed.Breed, 0, len(dtos))
	skipped := 0

	for _, dto := range dtos {
		b, err := m.ToBreed(dto)
		if err != nil {
			skipped++
			continue
		}
		breeds = append(breeds, b)
	}

	return breeds, skipped
}

// BreedCard is a random image paired with its breed, the payload behind
// the "show me a cat" flow.
type BreedCard struct {
	ImageID  string
	ImageURL string
	Breed    *breed.Breed
}

// ToBreedCard converts an ImageDTO carrying breed data into a BreedCard.
func (m *Mapper) ToBreedCard(dto ImageDTO) (*BreedCard, error) {
	if dto.URL == "" || len(dto.Breeds) == 0 {
		return nil, shared.WrapError("catapi", "ToBreedCard",
			shared.ErrInvalidFormat, "image payload missing url or breed", nil)
	}

	b, err := m.ToBreed(dto.Breeds[0])
	if err != nil {
		return nil, err
	}
	if b.ImageURL == "" {
		b.ImageURL = dto.URL
	}

	return &BreedCard{
		ImageID:  dto.ID,
		ImageURL: dto.URL,
		Breed:    b,
	}, nil
}
