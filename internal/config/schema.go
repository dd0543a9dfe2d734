package config

import (
	"fmt"
	"time"
)

// Config is the top-level marketbuild configuration.
type Config struct {
	Source  SourceConfig  `mapstructure:"source" yaml:"source"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Icon    IconConfig    `mapstructure:"icon" yaml:"icon"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// SourceConfig locates the authored data.
type SourceConfig struct {
	ItemsDir       string `mapstructure:"items_dir" yaml:"items_dir"`
	CollectionsDir string `mapstructure:"collections_dir" yaml:"collections_dir"`
	RepoDir        string `mapstructure:"repo_dir" yaml:"repo_dir"`
}

// OutputConfig locates the build output.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// CacheConfig controls the persisted build cache.
type CacheConfig struct {
	Dir      string        `mapstructure:"dir" yaml:"dir"`
	MaxAge   time.Duration `mapstructure:"max_age" yaml:"max_age"`
	Disabled bool          `mapstructure:"disabled" yaml:"disabled"`
}

// MarshalYAML writes MaxAge as a duration string.
func (c CacheConfig) MarshalYAML() (any, error) {
	return struct {
		Dir      string `yaml:"dir"`
		MaxAge   string `yaml:"max_age"`
		Disabled bool   `yaml:"disabled"`
	}{c.Dir, c.MaxAge.String(), c.Disabled}, nil
}

// BuildConfig holds pipeline settings.
type BuildConfig struct {
	Concurrency  int    `mapstructure:"concurrency" yaml:"concurrency"`
	HashLength   int    `mapstructure:"hash_length" yaml:"hash_length"`
	RecentCount  int    `mapstructure:"recent_count" yaml:"recent_count"`
	KeywordMode  string `mapstructure:"keyword_mode" yaml:"keyword_mode"` // "curated" or "extracted"
	EnrichPhotos bool   `mapstructure:"enrich_photos" yaml:"enrich_photos"`
}

// IconConfig holds icon fetch and encoding settings.
type IconConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Saturation  float64       `mapstructure:"saturation" yaml:"saturation"`
	ThumbSize   int           `mapstructure:"thumb_size" yaml:"thumb_size"`
	ComponentsX int           `mapstructure:"components_x" yaml:"components_x"`
	ComponentsY int           `mapstructure:"components_y" yaml:"components_y"`
	MaxBytes    int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// MarshalYAML writes Timeout as a duration string.
func (c IconConfig) MarshalYAML() (any, error) {
	return struct {
		Timeout     string  `yaml:"timeout"`
		Saturation  float64 `yaml:"saturation"`
		ThumbSize   int     `yaml:"thumb_size"`
		ComponentsX int     `yaml:"components_x"`
		ComponentsY int     `yaml:"components_y"`
		MaxBytes    int64   `yaml:"max_bytes"`
	}{c.Timeout.String(), c.Saturation, c.ThumbSize, c.ComponentsX, c.ComponentsY, c.MaxBytes}, nil
}

// HistoryConfig selects the timestamp backend.
type HistoryConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "git" or "none"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Validate rejects values the build cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Source.ItemsDir == "":
		return fmt.Errorf("source.items_dir must not be empty")
	case c.Output.Dir == "":
		return fmt.Errorf("output.dir must not be empty")
	case c.Build.Concurrency < 1:
		return fmt.Errorf("build.concurrency must be at least 1, got %d", c.Build.Concurrency)
	case c.Build.HashLength < 4 || c.Build.HashLength > 64:
		return fmt.Errorf("build.hash_length must be between 4 and 64, got %d", c.Build.HashLength)
	case c.Build.RecentCount < 0:
		return fmt.Errorf("build.recent_count must not be negative, got %d", c.Build.RecentCount)
	case c.Cache.MaxAge <= 0:
		return fmt.Errorf("cache.max_age must be positive, got %s", c.Cache.MaxAge)
	case c.Icon.Timeout <= 0:
		return fmt.Errorf("icon.timeout must be positive, got %s", c.Icon.Timeout)
	case c.Icon.Saturation <= 0:
		return fmt.Errorf("icon.saturation must be positive, got %g", c.Icon.Saturation)
	case c.Icon.ThumbSize < 1:
		return fmt.Errorf("icon.thumb_size must be at least 1, got %d", c.Icon.ThumbSize)
	case c.Icon.ComponentsX < 1 || c.Icon.ComponentsX > 9 || c.Icon.ComponentsY < 1 || c.Icon.ComponentsY > 9:
		return fmt.Errorf("icon.components_x and components_y must be between 1 and 9")
	}
	switch c.Build.KeywordMode {
	case "curated", "extracted":
	default:
		return fmt.Errorf("build.keyword_mode must be curated or extracted, got %q", c.Build.KeywordMode)
	}
	switch c.History.Backend {
	case "git", "none":
	default:
		return fmt.Errorf("history.backend must be git or none, got %q", c.History.Backend)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
