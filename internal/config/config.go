// Package config loads runtime settings from defaults, an optional config
// file, MATHDRILL_* environment variables and command-line flags.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/abhisek/mathdrill/internal/review"
	"github.com/abhisek/mathdrill/internal/session"
)

// EnvPrefix prefixes every environment variable, e.g. MATHDRILL_DB.
const EnvPrefix = "MATHDRILL"

// Keys understood by Load. Flags bound with the same names override them.
const (
	KeyDB                 = "db"
	KeyLogMode            = "log_mode"
	KeyReviewRatio        = "review_ratio"
	KeyMasteryThreshold   = "mastery_threshold"
	KeyMasteryMinAttempts = "mastery_min_attempts"
	KeySeed               = "seed"
	KeyMemory             = "memory"
)

// Config holds resolved settings.
type Config struct {
	// DB is the SQLite file path. Empty means the XDG default.
	DB string

	// Memory keeps the review pool in process instead of on disk.
	Memory bool

	// LogMode is "dev", "prod" or "quiet".
	LogMode string

	ReviewRatio        float64
	MasteryThreshold   float64
	MasteryMinAttempts int

	// Seed fixes the random source. Zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogMode:            "quiet",
		ReviewRatio:        session.DefaultReviewRatio,
		MasteryThreshold:   review.DefaultMasteryThreshold,
		MasteryMinAttempts: review.DefaultMinAttempts,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyMemory, d.Memory)
	v.SetDefault(KeyLogMode, d.LogMode)
	v.SetDefault(KeyReviewRatio, d.ReviewRatio)
	v.SetDefault(KeyMasteryThreshold, d.MasteryThreshold)
	v.SetDefault(KeyMasteryMinAttempts, d.MasteryMinAttempts)
	v.SetDefault(KeySeed, d.Seed)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (if non-empty) into v and returns the validated settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := &Config{
		DB:                 v.GetString(KeyDB),
		Memory:             v.GetBool(KeyMemory),
		LogMode:            strings.ToLower(v.GetString(KeyLogMode)),
		ReviewRatio:        v.GetFloat64(KeyReviewRatio),
		MasteryThreshold:   v.GetFloat64(KeyMasteryThreshold),
		MasteryMinAttempts: v.GetInt(KeyMasteryMinAttempts),
		Seed:               v.GetUint64(KeySeed),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	switch c.LogMode {
	case "dev", "development", "prod", "production", "quiet":
	default:
		return errors.Errorf("invalid %s %q: want dev, prod or quiet", KeyLogMode, c.LogMode)
	}
	if c.ReviewRatio < 0 || c.ReviewRatio > 1 {
		return errors.Errorf("invalid %s %v: must be within [0, 1]", KeyReviewRatio, c.ReviewRatio)
	}
	if c.MasteryThreshold <= 0 || c.MasteryThreshold > 1 {
		return errors.Errorf("invalid %s %v: must be within (0, 1]", KeyMasteryThreshold, c.MasteryThreshold)
	}
	if c.MasteryMinAttempts < 1 {
		return errors.Errorf("invalid %s %d: must be at least 1", KeyMasteryMinAttempts, c.MasteryMinAttempts)
	}
	return nil
}
