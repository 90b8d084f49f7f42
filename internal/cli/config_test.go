package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GUI != "cli" {
		t.Errorf("default gui = %q, want cli", cfg.GUI)
	}
	if len(cfg.Databases) != 1 || cfg.Databases[0] != "memory" {
		t.Errorf("default databases = %v", cfg.Databases)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
gui = "web"
colormap = "inferno"
feature_field = "taxonomy"
databases = ["memory", "dbbact"]
cache_ttl_minutes = 5

[redis]
addr = "localhost:6379"

[mongo.dbbact]
uri = "mongodb://localhost:27017"
collection = "annotations"
read_only = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GUI != "web" || cfg.Colormap != "inferno" || cfg.FeatureField != "taxonomy" {
		t.Errorf("parsed config = %+v", cfg)
	}
	if cfg.Redis == nil || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis section = %+v", cfg.Redis)
	}
	section, ok := cfg.Mongo["dbbact"]
	if !ok || !section.ReadOnly || section.URI != "mongodb://localhost:27017" {
		t.Errorf("mongo section = %+v", cfg.Mongo)
	}
	if got := cfg.CacheTTL(); got != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", got)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("gui = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error for malformed config")
	}
}

func TestCacheTTLDefault(t *testing.T) {
	cfg := Config{}
	if got := cfg.CacheTTL(); got != time.Hour {
		t.Errorf("CacheTTL with zero minutes = %v, want 1h", got)
	}
}
