package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Auth struct {
		Secret   string `yaml:"secret"`
		TokenTTL string `yaml:"tokenTtl"`
	} `yaml:"auth"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game GameDefaults `yaml:"game"`
}

// GameDefaults is the session configuration applied when a host creates a
// session without overrides (or on implicit first-contact creation).
type GameDefaults struct {
	HoneyMultiplier     float64 `yaml:"honeyMultiplier"`
	TimeLimitSeconds    int     `yaml:"timeLimitSeconds"`
	MaxParticipants     int     `yaml:"maxParticipants"`
	CustomQuestionsOnly bool    `yaml:"customQuestionsOnly"`
}

// SessionConfig converts the defaults into the engine's config shape,
// falling back to sane values for anything unset or invalid.
func (g GameDefaults) SessionConfig() domain.SessionConfig {
	cfg := domain.SessionConfig{
		HoneyMultiplier:     g.HoneyMultiplier,
		TimeLimitSeconds:    g.TimeLimitSeconds,
		MaxParticipants:     g.MaxParticipants,
		CustomQuestionsOnly: g.CustomQuestionsOnly,
	}
	if cfg.HoneyMultiplier <= 0 {
		cfg.HoneyMultiplier = 1
	}
	if cfg.TimeLimitSeconds <= 0 {
		cfg.TimeLimitSeconds = 30
	}
	if cfg.MaxParticipants <= 0 {
		cfg.MaxParticipants = 10
	}
	return cfg
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
