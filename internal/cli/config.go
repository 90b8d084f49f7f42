package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mhelland/seqheat/pkg/cache"
	"github.com/mhelland/seqheat/pkg/database"
	"github.com/mhelland/seqheat/pkg/errors"
)

// Config holds user configuration loaded from the TOML config file.
type Config struct {
	// GUI is the default front-end variant: cli, tui, or web.
	GUI string `toml:"gui"`
	// Colormap is the default colormap name.
	Colormap string `toml:"colormap"`
	// FeatureField is the default feature metadata field for y labels.
	FeatureField string `toml:"feature_field"`
	// Databases are the annotation databases attached by default.
	Databases []string `toml:"databases"`
	// CacheTTLMinutes bounds how long annotation lookups are cached.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`
	// Redis, when present, replaces the file-based lookup cache.
	Redis *cache.RedisConfig `toml:"redis"`
	// Mongo declares MongoDB annotation backends by registry name.
	Mongo map[string]MongoSection `toml:"mongo"`
}

// MongoSection declares one MongoDB annotation backend.
type MongoSection struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	ReadOnly   bool   `toml:"read_only"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		GUI:             "cli",
		CacheTTLMinutes: 60,
		Databases:       []string{"memory"},
	}
}

// LoadConfig reads the TOML config at path, or the default location when
// path is empty. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return DefaultConfig(), nil
		}
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeParse, err, "reading config %s", path)
	}
	return cfg, nil
}

// configPath returns the config file location using XDG standard
// (~/.config/seqheat/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheTTL returns the annotation cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RegisterDatabases makes the configured MongoDB backends available to
// database.Open, each wrapped in the lookup cache.
func (c Config) RegisterDatabases(lookupCache cache.Cache) {
	ttl := c.CacheTTL()
	for name, section := range c.Mongo {
		name, section := name, section
		database.Register(name, func(ctx context.Context) (database.Database, error) {
			db, err := database.NewMongo(ctx, name, database.MongoConfig{
				URI:        section.URI,
				Database:   section.Database,
				Collection: section.Collection,
				ReadOnly:   section.ReadOnly,
			})
			if err != nil {
				return nil, err
			}
			return database.NewCached(db, lookupCache, ttl), nil
		})
	}
}
