package api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LoginFlow prompts for username and password on the terminal and
// exchanges them for a token
type LoginFlow struct {
	client *Client
	logger *slog.Logger

	in           io.Reader
	out          io.Writer
	readPassword func() ([]byte, error)
}

// NewLoginFlow creates a login flow reading from stdin
func NewLoginFlow(client *Client, logger *slog.Logger) *LoginFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginFlow{
		client: client,
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
		readPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
}

// Run executes the flow and returns the issued token
func (f *LoginFlow) Run(ctx context.Context) (string, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Wardrobe Login")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━")

	reader := bufio.NewReader(f.in)
	fmt.Fprint(f.out, "Username: ")
	username, err := reader.ReadString('\n')
	if err != nil && username == "" {
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username cannot be empty")
	}

	// Hidden input
	fmt.Fprint(f.out, "Password: ")
	password, err := f.readPassword()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Authenticating...")
	token, err := f.client.Login(ctx, username, string(password))
	if err != nil {
		f.logger.Error("login failed", "username", username, "error", err)
		return "", err
	}

	fmt.Fprintln(f.out, "Authentication successful!")
	return token, nil
}
