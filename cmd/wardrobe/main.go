package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/wardrobe/internal/api"
	"github.com/mmcdole/wardrobe/internal/config"
	"github.com/mmcdole/wardrobe/internal/kvstore"
	"github.com/mmcdole/wardrobe/internal/log"
	"github.com/mmcdole/wardrobe/internal/outfit"
	"github.com/mmcdole/wardrobe/internal/search"
	"github.com/mmcdole/wardrobe/internal/session"
	"github.com/mmcdole/wardrobe/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	configPath  string
	forceLogin  bool
	logout      bool
	ephemeral   bool
	outfitID    int64
	outfitImage string
}

func main() {
	var showVersion bool
	var opts options
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "path to config file")
	flag.BoolVar(&opts.forceLogin, "login", false, "prompt for credentials even when a session is saved")
	flag.BoolVar(&opts.logout, "logout", false, "clear the saved session and exit")
	flag.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the session in memory only")
	flag.Int64Var(&opts.outfitID, "outfit", 0, "outfit id for -outfit-image")
	flag.StringVar(&opts.outfitImage, "outfit-image", "", "upload this file as the outfit preview and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("wardrobe %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting wardrobe", "version", Version, "api", cfg.API.URL)

	storagePath := cfg.Storage.Path
	if opts.ephemeral {
		storagePath = ""
	}
	kv, err := kvstore.Open(storagePath)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	defer kv.Close()

	if keys, err := kv.Keys(context.Background()); err != nil {
		logger.Warn("failed to list session storage keys", "error", err)
	} else {
		logger.Debug("session storage opened", "path", storagePath, "keys", keys)
	}

	client := api.NewClient(cfg.API.URL, logger,
		api.WithTimeout(cfg.API.Timeout),
		api.WithMaxRetries(cfg.API.MaxRetries),
	)

	store := session.New(kv, client, logger)
	defer store.Close()

	ctx := context.Background()
	refresh := store.Start(ctx)

	if opts.logout {
		store.Logout()
		if err := store.Wait(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	}

	if opts.forceLogin || store.Token() == "" {
		token, err := api.NewLoginFlow(client, logger).Run(ctx)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		if r := store.SetToken(token); r != nil {
			refresh = r
		}
	}

	if opts.outfitImage != "" {
		return uploadOutfitImage(ctx, opts, client, store, logger)
	}

	model := tui.NewModel(store, search.NewService(store, logger), cfg.ThemeName, logger)
	defer model.Close()
	model = model.Track(refresh, "Signing in...")

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// uploadOutfitImage replaces an outfit preview and prints the refreshed URL
func uploadOutfitImage(ctx context.Context, opts options, client *api.Client, store *session.Store, logger *slog.Logger) error {
	if opts.outfitID <= 0 {
		return errors.New("-outfit-image requires -outfit")
	}

	f, err := os.Open(opts.outfitImage)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	svc := outfit.NewService(client, store, logger)
	imageURL, err := svc.UploadImage(ctx, opts.outfitID, filepath.Base(opts.outfitImage), f)
	if err != nil {
		return err
	}

	fmt.Println(svc.ImageURL(imageURL))
	return nil
}
