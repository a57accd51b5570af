// Package catapi implements the Cat API client.
package catapi

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// WeightDTO is the weight block of a breed payload.
type WeightDTO struct {
	Imperial string `json:"imperial"`
	Metric   string `json:"metric"`
}

// ImageRefDTO is the optional embedded image of a breed payload.
type ImageRefDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// BreedDTO is the upstream breed representation.
// Only the fields the catalog consumes are declared; the upstream sends more.
type BreedDTO struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Origin           string       `json:"origin"`
	Temperament      string       `json:"temperament"`
	LifeSpan         string       `json:"life_span"`
	Weight           WeightDTO    `json:"weight"`
	Description      string       `json:"description"`
	WikipediaURL     string       `json:"wikipedia_url"`
	ReferenceImageID string       `json:"reference_image_id"`
	Image            *ImageRefDTO `json:"image,omitempty"`
}

// ImageDTO is the upstream image representation, optionally carrying the
// breeds depicted on it.
type ImageDTO struct {
	ID     string     `json:"id"`
	URL    string     `json:"url"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Breeds []BreedDTO `json:"breeds"`
}

// APIErrorDTO is the upstream error payload.
type APIErrorDTO struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Error implements the error interface.
func (e *APIErrorDTO) Error() string {
	return fmt.Sprintf("cat api error: status %d: %s", e.Status, e.Message)
}
