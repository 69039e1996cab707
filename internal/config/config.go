// Package config loads and validates the scraper configuration from YAML,
// applying .env and environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FetchMode selects how a site's page content is retrieved.
type FetchMode string

const (
	ModeStatic  FetchMode = "static"  // plain HTTP GET
	ModeDynamic FetchMode = "dynamic" // headless-browser render
	ModeFeed    FetchMode = "feed"    // RSS/Atom job feed
)

// Site is one scrape target. The list is loaded once at startup and never
// mutated during a run.
type Site struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	Mode      FetchMode `yaml:"mode"`
	Extractor string    `yaml:"extractor"`
	Active    bool      `yaml:"active"`
}

// Ledger configures where seen-posting ids are persisted.
type Ledger struct {
	Backend       string `yaml:"backend"` // "json" or "sqlite"
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"` // 0 keeps entries forever
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type Config struct {
	Sites    []Site   `yaml:"sites"`
	Ledger   Ledger   `yaml:"ledger"`
	Telegram Telegram `yaml:"telegram"`
	LogLevel string   `yaml:"log_level"`
	// ResultsDir, when set, receives a JSON summary of each run.
	ResultsDir string `yaml:"results_dir"`
	// FetchTimeoutSeconds bounds each page fetch or render.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// Load reads the YAML config at path and applies env overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "json"
	}
	if c.Ledger.Path == "" {
		switch c.Ledger.Backend {
		case "sqlite":
			c.Ledger.Path = ".cache/seen_postings.db"
		default:
			c.Ledger.Path = ".cache/seen_postings.json"
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = 30
	}
	for i := range c.Sites {
		if c.Sites[i].Mode == "" {
			c.Sites[i].Mode = ModeStatic
		}
	}
}

func (c *Config) validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("config: no sites defined")
	}
	names := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		if s.Name == "" {
			return fmt.Errorf("config: site with empty name")
		}
		if names[s.Name] {
			return fmt.Errorf("config: duplicate site name %q", s.Name)
		}
		names[s.Name] = true
		if s.URL == "" {
			return fmt.Errorf("config: site %q has no url", s.Name)
		}
		switch s.Mode {
		case ModeStatic, ModeDynamic, ModeFeed:
		default:
			return fmt.Errorf("config: site %q has unknown mode %q", s.Name, s.Mode)
		}
		if s.Extractor == "" {
			return fmt.Errorf("config: site %q has no extractor", s.Name)
		}
	}
	switch c.Ledger.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("config: unknown ledger backend %q", c.Ledger.Backend)
	}
	if c.Ledger.RetentionDays < 0 {
		return fmt.Errorf("config: retention_days must not be negative")
	}
	// Telegram is optional, but token and chat id come as a pair.
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("config: telegram token set without chat_id")
	}
	return nil
}

// ActiveSites returns the sites flagged active, in config order.
func (c *Config) ActiveSites() []Site {
	var active []Site
	for _, s := range c.Sites {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}
