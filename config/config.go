// Package config loads orchestrator settings from the environment. A .env
// file is merged in when present; explicit environment variables win. All
// settings have working defaults so the zero configuration runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel              = "AGENTHIVE_LOG_LEVEL"
	EnvGeneratorProvider     = "AGENTHIVE_GENERATOR"
	EnvGeneratorModel        = "AGENTHIVE_MODEL"
	EnvToolTimeout           = "AGENTHIVE_TOOL_TIMEOUT"
	EnvConsolidationInterval = "AGENTHIVE_CONSOLIDATION_INTERVAL"
	EnvDiscoveryInterval     = "AGENTHIVE_DISCOVERY_INTERVAL"
	EnvWorkingCapacity       = "AGENTHIVE_WORKING_CAPACITY"
	EnvEpisodicCapacity      = "AGENTHIVE_EPISODIC_CAPACITY"
)

// Generator provider names accepted by EnvGeneratorProvider.
const (
	ProviderStatic    = "static"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config carries the tunable orchestrator settings.
type Config struct {
	LogLevel              string
	GeneratorProvider     string
	GeneratorModel        string
	ToolTimeout           time.Duration
	ConsolidationInterval time.Duration
	DiscoveryInterval     time.Duration
	WorkingCapacity       int
	EpisodicCapacity      int
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		LogLevel:              "info",
		GeneratorProvider:     ProviderStatic,
		ToolTimeout:           10 * time.Second,
		ConsolidationInterval: 5 * time.Minute,
		DiscoveryInterval:     15 * time.Minute,
		WorkingCapacity:       20,
		EpisodicCapacity:      100,
	}
}

// Load reads configuration from a .env file (ignored when absent) and the
// process environment. Malformed values fail loudly instead of silently
// falling back.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvGeneratorProvider); v != "" {
		switch v {
		case ProviderStatic, ProviderOpenAI, ProviderAnthropic:
			cfg.GeneratorProvider = v
		default:
			return Config{}, fmt.Errorf("config: unknown generator provider %q", v)
		}
	}
	if v := os.Getenv(EnvGeneratorModel); v != "" {
		cfg.GeneratorModel = v
	}

	var err error
	if cfg.ToolTimeout, err = durationEnv(EnvToolTimeout, cfg.ToolTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ConsolidationInterval, err = durationEnv(EnvConsolidationInterval, cfg.ConsolidationInterval); err != nil {
		return Config{}, err
	}
	if cfg.DiscoveryInterval, err = durationEnv(EnvDiscoveryInterval, cfg.DiscoveryInterval); err != nil {
		return Config{}, err
	}
	if cfg.WorkingCapacity, err = intEnv(EnvWorkingCapacity, cfg.WorkingCapacity); err != nil {
		return Config{}, err
	}
	if cfg.EpisodicCapacity, err = intEnv(EnvEpisodicCapacity, cfg.EpisodicCapacity); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", name, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %q", name, v)
	}
	return d, nil
}

func intEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", name, v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %q", name, v)
	}
	return n, nil
}
