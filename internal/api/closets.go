package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/wardrobe/internal/domain"
)

func (c *Client) ListClosets(ctx context.Context) ([]domain.Closet, error) {
	var closets []domain.Closet
	if err := c.doJSON(ctx, http.MethodGet, "/closets", nil, &closets); err != nil {
		return nil, err
	}
	return closets, nil
}

func (c *Client) GetCloset(ctx context.Context, id int64) (*domain.Closet, error) {
	var closet domain.Closet
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/closets/%d", id), nil, &closet); err != nil {
		return nil, err
	}
	return &closet, nil
}

func (c *Client) CreateCloset(ctx context.Context, closet domain.Closet) (*domain.Closet, error) {
	var created domain.Closet
	if err := c.doJSON(ctx, http.MethodPost, "/closets", closet, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCloset(ctx context.Context, closet domain.Closet) (*domain.Closet, error) {
	var updated domain.Closet
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/closets/%d", closet.ID), closet, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCloset(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/closets/%d", id), nil, nil)
}

// === Items ===

// ListItems returns the items of one closet
func (c *Client) ListItems(ctx context.Context, closetID int64) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/closets/%d/items", closetID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/items/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	var created domain.Item
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/closets/%d/items", item.ClosetID), item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	var updated domain.Item
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/items/%d", item.ID), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}
