package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/config"
)

func TestDefault_Valid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARKETBUILD_CONFIG", "")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "dist" || cfg.Build.HashLength != 12 || cfg.Cache.MaxAge != 168*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Icon.Timeout != 5*time.Second || cfg.Icon.Saturation != 1.75 {
		t.Errorf("icon defaults = %+v", cfg.Icon)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketbuild.yml")
	content := `
output:
  dir: public
cache:
  max_age: 1h
build:
  keyword_mode: extracted
  concurrency: 3
icon:
  timeout: 2s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "public" {
		t.Errorf("output.dir = %q", cfg.Output.Dir)
	}
	if cfg.Cache.MaxAge != time.Hour {
		t.Errorf("cache.max_age = %v", cfg.Cache.MaxAge)
	}
	if cfg.Build.KeywordMode != "extracted" || cfg.Build.Concurrency != 3 {
		t.Errorf("build = %+v", cfg.Build)
	}
	if cfg.Icon.Timeout != 2*time.Second {
		t.Errorf("icon.timeout = %v", cfg.Icon.Timeout)
	}
	if cfg.Source.ItemsDir != "data" {
		t.Errorf("unset key lost its default: %q", cfg.Source.ItemsDir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MARKETBUILD_CONFIG", "")
	t.Setenv("MARKETBUILD_OUTPUT_DIR", "site")
	t.Setenv("MARKETBUILD_BUILD_HASH_LENGTH", "16")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "site" || cfg.Build.HashLength != 16 {
		t.Errorf("output.dir = %q, hash_length = %d", cfg.Output.Dir, cfg.Build.HashLength)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "marketbuild.yml")
	cfg := config.Default()
	cfg.Output.Dir = "out"
	cfg.Cache.MaxAge = 90 * time.Minute

	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "max_age: 1h30m0s") {
		t.Errorf("durations should be written as strings:\n%s", data)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Output.Dir != "out" || got.Cache.MaxAge != 90*time.Minute {
		t.Errorf("round trip = %+v", got)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"hash length", func(c *config.Config) { c.Build.HashLength = 2 }, "hash_length"},
		{"concurrency", func(c *config.Config) { c.Build.Concurrency = 0 }, "concurrency"},
		{"keyword mode", func(c *config.Config) { c.Build.KeywordMode = "magic" }, "keyword_mode"},
		{"backend", func(c *config.Config) { c.History.Backend = "svn" }, "history.backend"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"max age", func(c *config.Config) { c.Cache.MaxAge = 0 }, "max_age"},
		{"components", func(c *config.Config) { c.Icon.ComponentsX = 10 }, "components"},
		{"output", func(c *config.Config) { c.Output.Dir = "" }, "output.dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("MARKETBUILD_CONFIG", "/etc/mb.yml")
	if p, explicit := config.Resolve("custom.yml"); p != "custom.yml" || !explicit {
		t.Errorf("Resolve(custom.yml) = %q, %v", p, explicit)
	}
	if p, explicit := config.Resolve(""); p != "/etc/mb.yml" || !explicit {
		t.Errorf("Resolve(env) = %q, %v", p, explicit)
	}
	t.Setenv("MARKETBUILD_CONFIG", "")
	if p, explicit := config.Resolve(""); p != config.DefaultPath || explicit {
		t.Errorf("Resolve(default) = %q, %v", p, explicit)
	}
}
