package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/wardrobe/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. It does not attach the
// token; the session store owns that.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response has no token")
	}
	return resp.Token, nil
}

// GetAuthenticatedUser returns the profile of the token's owner
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*domain.User, error) {
	if c.Token() == "" {
		return nil, domain.ErrNotAuthenticated
	}
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMasterData returns the reference taxonomy
func (c *Client) GetMasterData(ctx context.Context) (*domain.MasterData, error) {
	var md domain.MasterData
	if err := c.doJSON(ctx, http.MethodGet, "/master-data", nil, &md); err != nil {
		return nil, err
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return &md, nil
}
