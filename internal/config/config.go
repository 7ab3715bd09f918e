// Package config loads heroforge settings from a YAML file, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/meur/heroforge/internal/grid"
	"github.com/meur/heroforge/internal/herodoc"
	"github.com/meur/heroforge/internal/models"
	"github.com/meur/heroforge/internal/patch"
	"github.com/meur/heroforge/internal/ratings"
	"github.com/meur/heroforge/internal/relic"
	"github.com/meur/heroforge/internal/scan"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and it exists
const DefaultFile = "heroforge.yaml"

// Config is the full heroforge configuration
type Config struct {
	HeroesDir   string            `yaml:"heroes_dir"`
	Pattern     string            `yaml:"pattern"`
	DBPath      string            `yaml:"db_path"` // Empty disables run history
	ImagePrefix string            `yaml:"image_prefix"`
	Server      ServerConfig      `yaml:"server"`
	Scan        ScanConfig        `yaml:"scan"`
	Relics      RelicConfig       `yaml:"relics"`
	Ratings     RatingsConfig     `yaml:"ratings"`
	Sheets      grid.SheetsConfig `yaml:"sheets"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
}

// ScanConfig configures the placeholder scanner. Patterns replace the
// defaults when set, ExtraPatterns extend them.
type ScanConfig struct {
	Patterns        []string `yaml:"patterns"`
	ExtraPatterns   []string `yaml:"extra_patterns"`
	CheckDuplicates *bool    `yaml:"check_duplicates"`
	MinLength       int      `yaml:"min_length"`
}

// RelicConfig adds or overrides relic guide entries
type RelicConfig struct {
	Levels map[string]int `yaml:"levels"`
}

// RatingsConfig configures rating columns and defaults
type RatingsConfig struct {
	NameColumn   string   `yaml:"name_column"`
	Keys         []string `yaml:"keys"`
	OdysseyValue string   `yaml:"odyssey_default"`
	CSVPath      string   `yaml:"csv_path"` // Selects the CSV grid over Google Sheets
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HeroesDir:   "src/data/heroes",
		Pattern:     herodoc.DefaultPattern,
		DBPath:      ".heroforge/history.db",
		ImagePrefix: patch.DefaultImagePrefix,
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Ratings: RatingsConfig{
			NameColumn:   ratings.DefaultNameColumn,
			Keys:         append([]string(nil), models.RatingKeys...),
			OdysseyValue: patch.Odyssey.Value,
		},
		Sheets: grid.SheetsConfig{
			SheetName:       "Ratings",
			CredentialsFile: "google_credentials.json",
			TokenFile:       "token.json",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path loads DefaultFile when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HEROFORGE_HEROES_DIR"); v != "" {
		c.HeroesDir = v
	}
	if v, ok := os.LookupEnv("HEROFORGE_DB_PATH"); ok {
		c.DBPath = v
	}
	if v := os.Getenv("HEROFORGE_SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

// ScannerConfig builds the scanner configuration
func (c *Config) ScannerConfig() scan.Config {
	cfg := scan.DefaultConfig()
	if len(c.Scan.Patterns) > 0 {
		cfg.Patterns = append([]string(nil), c.Scan.Patterns...)
	}
	cfg.Patterns = append(cfg.Patterns, c.Scan.ExtraPatterns...)
	if c.Scan.CheckDuplicates != nil {
		cfg.CheckDuplicates = *c.Scan.CheckDuplicates
	}
	cfg.MinLength = c.Scan.MinLength
	return cfg
}

// RelicTable builds the guide table with configured overrides
func (c *Config) RelicTable() *relic.Table {
	return relic.NewTable(relic.Guide, c.Relics.Levels)
}

// OdysseyRule returns the odyssey rating default rule
func (c *Config) OdysseyRule() patch.RatingDefault {
	rule := patch.Odyssey
	if c.Ratings.OdysseyValue != "" {
		rule.Value = c.Ratings.OdysseyValue
	}
	return rule
}
