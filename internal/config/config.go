package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the remote backend settings
type APIConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// StorageConfig holds the local session store location.
// An empty path keeps the session in memory only.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig maps the dark-mode preference to a theme name
type UIConfig struct {
	LightTheme string `mapstructure:"light_theme"`
	DarkTheme  string `mapstructure:"dark_theme"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const defaultAPIURL = "http://localhost:8000/api"

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:        defaultAPIURL,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "session.db"),
		},
		UI: UIConfig{
			LightTheme: "light",
			DarkTheme:  "midnight",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "wardrobe.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "wardrobe")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "wardrobe")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "wardrobe")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "wardrobe")
	}
}

// Load reads configuration from file and WARDROBE_* environment variables.
// An empty path searches the default config directory and the working directory.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (WARDROBE_API_URL, ...)
	v.SetEnvPrefix("WARDROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.url", cfg.API.URL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("ui.light_theme", cfg.UI.LightTheme)
	v.SetDefault("ui.dark_theme", cfg.UI.DarkTheme)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be > 0")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api max_retries must be >= 0")
	}
	return nil
}

// ThemeName returns the configured theme for the given preference
func (c *Config) ThemeName(isDark bool) string {
	if isDark {
		return c.UI.DarkTheme
	}
	return c.UI.LightTheme
}
