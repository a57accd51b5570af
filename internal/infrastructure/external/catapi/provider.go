// Package catapi implements the Cat API client.
package catapi

import (
	"context"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
)

// Provider adapts Client to the breed.Provider port.
type Provider struct {
	client *Client
}

// NewProvider creates a breed.Provider backed by the Cat API client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

var _ breed.Provider = (*Provider)(nil)

// FetchAll returns the provider's full breed catalog.
func (p *Provider) FetchAll(ctx context.Context) ([]*breed.Breed, error) {
	return p.client.ListBreeds(ctx)
}

// FetchRandomCard returns a random breed-tagged image card.
func (p *Provider) FetchRandomCard(ctx context.Context) (*breed.Card, error) {
	card, err := p.client.GetRandomWithBreed(ctx)
	if err != nil {
		return nil, err
	}
	return toCard(card), nil
}

// FetchRandomCardByBreed returns a random card of a specific breed.
func (p *Provider) FetchRandomCardByBreed(ctx context.Context, id breed.ID) (*breed.Card, error) {
	card, err := p.client.GetRandomByBreed(ctx, id.String())
	if err != nil {
		return nil, err
	}
	return toCard(card), nil
}

func toCard(card *BreedCard) *breed.Card {
	return &breed.Card{
		ImageID:  card.ImageID,
		ImageURL: card.ImageURL,
		Breed:    card.Breed,
	}
}
