package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/wardrobe/internal/domain"
)

func (c *Client) ListOutfits(ctx context.Context) ([]domain.Outfit, error) {
	var outfits []domain.Outfit
	if err := c.doJSON(ctx, http.MethodGet, "/outfits", nil, &outfits); err != nil {
		return nil, err
	}
	return outfits, nil
}

func (c *Client) GetOutfit(ctx context.Context, id int64) (*domain.Outfit, error) {
	var outfit domain.Outfit
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/outfits/%d", id), nil, &outfit); err != nil {
		return nil, err
	}
	return &outfit, nil
}

func (c *Client) CreateOutfit(ctx context.Context, outfit domain.Outfit) (*domain.Outfit, error) {
	var created domain.Outfit
	if err := c.doJSON(ctx, http.MethodPost, "/outfits", outfit, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateOutfit(ctx context.Context, outfit domain.Outfit) (*domain.Outfit, error) {
	var updated domain.Outfit
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/outfits/%d", outfit.ID), outfit, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteOutfit(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/outfits/%d", id), nil, nil)
}

// === Occasions ===

func (c *Client) ListOccasions(ctx context.Context) ([]domain.Occasion, error) {
	var occasions []domain.Occasion
	if err := c.doJSON(ctx, http.MethodGet, "/occasions", nil, &occasions); err != nil {
		return nil, err
	}
	return occasions, nil
}

func (c *Client) CreateOccasion(ctx context.Context, occasion domain.Occasion) (*domain.Occasion, error) {
	var created domain.Occasion
	if err := c.doJSON(ctx, http.MethodPost, "/occasions", occasion, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteOccasion(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/occasions/%d", id), nil, nil)
}

// === Recommendations ===

// GenerateRecommendation asks the remote service for an outfit suggestion.
// The server can take a while; callers should pass a generous deadline.
func (c *Client) GenerateRecommendation(ctx context.Context, req domain.RecommendationRequest) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	if err := c.doJSON(ctx, http.MethodPost, "/recommendations", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
