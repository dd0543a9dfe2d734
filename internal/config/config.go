package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no other is given.
const DefaultPath = "marketbuild.yml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			ItemsDir:       "data",
			CollectionsDir: filepath.Join("data", "collections"),
			RepoDir:        ".",
		},
		Output: OutputConfig{Dir: "dist"},
		Cache: CacheConfig{
			Dir:    filepath.Join(".cache", "marketbuild"),
			MaxAge: 7 * 24 * time.Hour,
		},
		Build: BuildConfig{
			Concurrency: 10,
			HashLength:  12,
			RecentCount: 10,
			KeywordMode: "curated",
		},
		Icon: IconConfig{
			Timeout:     5 * time.Second,
			Saturation:  1.75,
			ThumbSize:   32,
			ComponentsX: 4,
			ComponentsY: 4,
			MaxBytes:    10 << 20,
		},
		History: HistoryConfig{Backend: "git"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("source.items_dir", d.Source.ItemsDir)
	v.SetDefault("source.collections_dir", d.Source.CollectionsDir)
	v.SetDefault("source.repo_dir", d.Source.RepoDir)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.max_age", d.Cache.MaxAge)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("build.concurrency", d.Build.Concurrency)
	v.SetDefault("build.hash_length", d.Build.HashLength)
	v.SetDefault("build.recent_count", d.Build.RecentCount)
	v.SetDefault("build.keyword_mode", d.Build.KeywordMode)
	v.SetDefault("build.enrich_photos", d.Build.EnrichPhotos)
	v.SetDefault("icon.timeout", d.Icon.Timeout)
	v.SetDefault("icon.saturation", d.Icon.Saturation)
	v.SetDefault("icon.thumb_size", d.Icon.ThumbSize)
	v.SetDefault("icon.components_x", d.Icon.ComponentsX)
	v.SetDefault("icon.components_y", d.Icon.ComponentsY)
	v.SetDefault("icon.max_bytes", d.Icon.MaxBytes)
	v.SetDefault("history.backend", d.History.Backend)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Resolve picks the config file path: the explicit path, then
// $MARKETBUILD_CONFIG, then DefaultPath. explicit reports whether the
// file was asked for by name.
func Resolve(path string) (resolved string, explicit bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv("MARKETBUILD_CONFIG"); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads the config from path (see Resolve) and the environment. A
// missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MARKETBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, explicit := Resolve(path)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
		if !missing || explicit {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Source.ItemsDir = util.ExpandHome(cfg.Source.ItemsDir)
	cfg.Source.CollectionsDir = util.ExpandHome(cfg.Source.CollectionsDir)
	cfg.Source.RepoDir = util.ExpandHome(cfg.Source.RepoDir)
	cfg.Output.Dir = util.ExpandHome(cfg.Output.Dir)
	cfg.Cache.Dir = util.ExpandHome(cfg.Cache.Dir)

	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
