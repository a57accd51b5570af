package catapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

func TestBreedDTO_Parsing(t *testing.T) {
	jsonData := `{
    "id": "beng",
    "name": "Bengal",
    "origin": "United States",
    "temperament": "Alert, Agile, Energetic, Demanding, Intelligent",
    "life_span": "12 - 15",
    "weight": {"imperial": "6 - 12", "metric": "3 - 7"},
    "description": "Bengals are a lot of fun to live with.",
    "wikipedia_url": "https://en.wikipedia.org/wiki/Bengal_(cat)",
    "reference_image_id": "O3btzLlsO",
    "image": {"id": "O3btzLlsO", "url": "https://cdn2.thecatapi.com/images/O3btzLlsO.png"}
}`

	var dto BreedDTO
	err := json.Unmarshal([]byte(jsonData), &dto)
	assert.NoError(t, err)

	assert.Equal(t, "beng", dto.ID)
	assert.Equal(t, "Bengal", dto.Name)
	assert.Equal(t, "United States", dto.Origin)
	assert.Equal(t, "12 - 15", dto.LifeSpan)
	assert.Equal(t, "3 - 7", dto.Weight.Metric)
	require.NotNil(t, dto.Image)
	assert.Equal(t, "https://cdn2.thecatapi.com/images/O3btzLlsO.png", dto.Image.URL)
}

func TestMapper_ToBreed(t *testing.T) {
	mapper := NewMapper()

	b, err := mapper.ToBreed(BreedDTO{
		ID:          "sibe",
		Name:        "Siberian",
		Origin:      "Russia",
		Temperament: "Curious, Intelligent, Loyal",
		LifeSpan:    "12 - 15",
		Weight:      WeightDTO{Metric: "4 - 9", Imperial: "8 - 16"},
		Image:       &ImageRefDTO{URL: "https://example.com/sibe.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, breed.ID("sibe"), b.ID)
	assert.Equal(t, "Siberian", b.Name)
	assert.Equal(t, breed.Temperament("Curious, Intelligent, Loyal"), b.Temperament)
	assert.Equal(t, "4 - 9", b.WeightMetric)
	assert.Equal(t, "https://example.com/sibe.jpg", b.ImageURL)
	assert.Equal(t, 0, b.LikeCount)
}

func TestMapper_ToBreeds_SkipsMalformed(t *testing.T) {
	mapper := NewMapper()

	breeds, skipped := mapper.ToBreeds([]BreedDTO{
		{ID: "beng", Name: "Bengal"},
		{ID: "", Name: "Nameless"},
		{ID: "ghost", Name: "  "},
	})

	assert.Len(t, breeds, 1)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, breed.ID("beng"), breeds[0].ID)
}

func TestClient_ListBreeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/breeds", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "abys", "name": "Abyssinian", "origin": "Egypt"},
			{"id": "beng", "name": "Bengal", "origin": "United States"}
		]`))
	}))
	defer server.Close()

	cfg := DefaultClientConfig(server.URL)
	cfg.APIKey = "test-key"
	client := NewClient(cfg)

	breeds, err := client.ListBreeds(context.Background())
	require.NoError(t, err)
	require.Len(t, breeds, 2)
	assert.Equal(t, breed.ID("abys"), breeds[0].ID)
	assert.Equal(t, "Bengal", breeds[1].Name)
}

func TestClient_GetRandomWithBreed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/search", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("has_breeds"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": "img1",
			"url": "https://example.com/img1.jpg",
			"breeds": [{"id": "beng", "name": "Bengal"}]
		}]`))
	}))
	defer server.Close()

	client := NewClient(DefaultClientConfig(server.URL))

	card, err := client.GetRandomWithBreed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "img1", card.ImageID)
	assert.Equal(t, "https://example.com/img1.jpg", card.ImageURL)
	assert.Equal(t, breed.ID("beng"), card.Breed.ID)
	// Карточка наследует URL изображения, если у породы нет своего.
	assert.Equal(t, "https://example.com/img1.jpg", card.Breed.ImageURL)
}

func TestClient_GetRandomWithBreed_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(DefaultClientConfig(server.URL))

	_, err := client.GetRandomWithBreed(context.Background())
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestClient_ServerErrorIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultClientConfig(server.URL)
	client := NewClient(cfg)

	_, err := client.ListBreeds(context.Background())
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "not found", "status": 404}`))
	}))
	defer server.Close()

	client := NewClient(DefaultClientConfig(server.URL))

	_, err := client.GetImageByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
