// Package config loads and normalises the UI server configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr       = "127.0.0.1"
	defaultPort       = ":4173"
	defaultName       = "Pricing Protocol"
	defaultLogs       = "data/logs"
	defaultSessions   = "data/sessions.json"
	defaultViewTTL    = 30 * 60
	defaultSweep      = 60
	defaultCapacity   = 10000
	defaultWhitepaper = "https://github.com/alangindi/pricingcoin/blob/main/_Informal%20PricingProtocol%20White%20Paper.pdf"
)

// Source kinds understood by the server.
const (
	SourcePlaceholder = "placeholder"
	SourceJSON        = "json"
	SourcePostgres    = "postgres"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Port string `json:"port" yaml:"port"`
}

// AppConfig points at optional on-disk overrides for templates and assets.
// Empty values use the copies embedded in the binary.
type AppConfig struct {
	Name      string `json:"name" yaml:"name"`
	Templates string `json:"templates" yaml:"templates"`
	Assets    string `json:"assets" yaml:"assets"`
	Logs      string `json:"logs" yaml:"logs"`
}

// SourceConfig selects where session records come from.
type SourceConfig struct {
	Kind        string `json:"kind" yaml:"kind"`
	File        string `json:"file" yaml:"file"`
	DatabaseURL string `json:"database_url" yaml:"database_url"`
}

// SecurityConfig holds the keys for view tokens and CSRF protection.
type SecurityConfig struct {
	ViewTokenKey  string `json:"view_token_key" yaml:"view_token_key"`
	CSRFKey       string `json:"csrf_key" yaml:"csrf_key"`
	SecureCookies bool   `json:"secure_cookies" yaml:"secure_cookies"`
}

// ViewsConfig bounds the in-memory page-instance store.
type ViewsConfig struct {
	TTLSeconds   int `json:"ttl_seconds" yaml:"ttl_seconds"`
	SweepSeconds int `json:"sweep_seconds" yaml:"sweep_seconds"`
	Capacity     int `json:"capacity" yaml:"capacity"`
}

// SocialLink is an external profile linked from the landing page.
type SocialLink struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// LandingConfig captures landing-page copy and links.
type LandingConfig struct {
	Tagline       string       `json:"tagline" yaml:"tagline"`
	WhitepaperURL string       `json:"whitepaper_url" yaml:"whitepaper_url"`
	DiscordURL    string       `json:"discord_url" yaml:"discord_url"`
	Social        []SocialLink `json:"social" yaml:"social"`
}

// Config is the combined runtime configuration.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	App      AppConfig      `json:"app" yaml:"app"`
	Source   SourceConfig   `json:"source" yaml:"source"`
	Security SecurityConfig `json:"security" yaml:"security"`
	Views    ViewsConfig    `json:"views" yaml:"views"`
	Landing  LandingConfig  `json:"landing" yaml:"landing"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads the config at path (JSON, or YAML for .yaml/.yml files), applies
// defaults and then environment overrides. A missing file is not an error.
// A .env file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config: %w", err)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
	}
	if cfg.App.Name == "" {
		cfg.App.Name = defaultName
	}
	if cfg.App.Logs == "" {
		cfg.App.Logs = defaultLogs
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourcePlaceholder
	}
	if cfg.Source.Kind == SourceJSON && cfg.Source.File == "" {
		cfg.Source.File = defaultSessions
	}
	if cfg.Views.TTLSeconds <= 0 {
		cfg.Views.TTLSeconds = defaultViewTTL
	}
	if cfg.Views.SweepSeconds <= 0 {
		cfg.Views.SweepSeconds = defaultSweep
	}
	if cfg.Views.Capacity <= 0 {
		cfg.Views.Capacity = defaultCapacity
	}
	if cfg.Landing.Tagline == "" {
		cfg.Landing.Tagline = "Pricing Protocol is coming soon!"
	}
	if cfg.Landing.WhitepaperURL == "" {
		cfg.Landing.WhitepaperURL = defaultWhitepaper
	}
	if cfg.Landing.DiscordURL == "" {
		cfg.Landing.DiscordURL = "https://discord.gg/dSVWkcqCxS"
	}
	if len(cfg.Landing.Social) == 0 {
		cfg.Landing.Social = []SocialLink{
			{Name: "Twitter", URL: "https://twitter.com/PricingProtocol"},
			{Name: "GitHub", URL: "https://github.com/alangindi/pricingcoin"},
			{Name: "Discord", URL: cfg.Landing.DiscordURL},
		}
	}
}

// applyEnv lets PRICING_* variables override file values.
func applyEnv(cfg *Config) error {
	if v := envValue("PRICING_LISTEN"); v != "" {
		if err := cfg.SetListen(v); err != nil {
			return fmt.Errorf("PRICING_LISTEN: %w", err)
		}
	}
	if v := envValue("PRICING_SOURCE"); v != "" {
		cfg.Source.Kind = strings.ToLower(v)
	}
	if v := envValue("PRICING_SESSIONS_FILE"); v != "" {
		cfg.Source.File = v
	}
	if v := envValue("PRICING_DATABASE_URL"); v != "" {
		cfg.Source.DatabaseURL = v
	}
	if v := envValue("PRICING_VIEW_TOKEN_KEY"); v != "" {
		cfg.Security.ViewTokenKey = v
	}
	if v := envValue("PRICING_CSRF_KEY"); v != "" {
		cfg.Security.CSRFKey = v
	}
	if v := envValue("PRICING_SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PRICING_SECURE_COOKIES: %w", err)
		}
		cfg.Security.SecureCookies = secure
	}
	if v := envValue("PRICING_LOG_DIR"); v != "" {
		cfg.App.Logs = v
	}
	if cfg.Source.Kind == SourceJSON && cfg.Source.File == "" {
		cfg.Source.File = defaultSessions
	}
	return nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate checks the combinations Load cannot default.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourcePlaceholder, SourceJSON:
	case SourcePostgres:
		if strings.TrimSpace(c.Source.DatabaseURL) == "" {
			return errors.New("config: source.database_url is required for the postgres source")
		}
	default:
		return fmt.Errorf("config: unknown source kind %q", c.Source.Kind)
	}
	if key := c.Security.CSRFKey; key != "" && len(key) != 32 {
		return fmt.Errorf("config: csrf_key must be exactly 32 bytes, got %d", len(key))
	}
	if key := c.Security.ViewTokenKey; key != "" && len(key) < 32 {
		return fmt.Errorf("config: view_token_key must be at least 32 bytes, got %d", len(key))
	}
	return nil
}

// Listen returns the host:port the server binds to.
func (c Config) Listen() string {
	return net.JoinHostPort(strings.Trim(c.Server.Addr, "[]"), strings.TrimPrefix(c.Server.Port, ":"))
}

// SetListen replaces the bind address with listen, which must be host:port.
// The host may be empty or a bracketed IPv6 literal.
func (c *Config) SetListen(listen string) error {
	host, port, err := net.SplitHostPort(strings.TrimSpace(listen))
	if err != nil {
		return fmt.Errorf("listen address must be host:port, got %q", listen)
	}
	if port == "" {
		return fmt.Errorf("listen address %q has no port", listen)
	}
	c.Server.Addr = host
	c.Server.Port = ":" + port
	return nil
}

// ViewTTL returns the idle lifetime of a page instance.
func (c Config) ViewTTL() time.Duration {
	return time.Duration(c.Views.TTLSeconds) * time.Second
}

// SweepInterval returns how often expired page instances are removed.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.Views.SweepSeconds) * time.Second
}
