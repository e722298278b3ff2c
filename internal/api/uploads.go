package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type uploadResponse struct {
	URL string `json:"image"`
}

// UploadItemImage replaces the image of an item and returns its URL
func (c *Client) UploadItemImage(ctx context.Context, itemID int64, filename string, img io.Reader) (string, error) {
	return c.upload(ctx, fmt.Sprintf("/items/%d/image", itemID), filename, img)
}

// UploadOutfitImage replaces the composited preview of an outfit.
// The backend keeps the same URL for the new content.
func (c *Client) UploadOutfitImage(ctx context.Context, outfitID int64, filename string, img io.Reader) (string, error) {
	return c.upload(ctx, fmt.Sprintf("/outfits/%d/image", outfitID), filename, img)
}

func (c *Client) upload(ctx context.Context, path, filename string, img io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, img); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.URL, nil
}
