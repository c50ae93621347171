package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/stripplan/internal/storage"
)

const (
	defaultPort                = "8080"
	defaultRateLimitRPS        = 25.0
	defaultRateLimitBurst      = 50
	defaultLogLevel            = "info"
	defaultRollLength          = 10.0
	defaultWattsPerMeter       = 10.0
	defaultSafetyFactorPercent = 20
)

// Source assignment modes.
const (
	ModeGrouped    = "grouped"
	ModeIndividual = "individual"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	EnableMetrics        bool
	LogLevel             string
	RateLimitRPS         float64
	RateLimitBurst       int

	// Planning defaults applied when a request omits them.
	RollLength          float64
	Catalog             []float64
	WattsPerMeter       float64
	SafetyFactorPercent int
	SourceMode          string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	EnableMetrics        *bool         `yaml:"enable_metrics"`
	LogLevel             string        `yaml:"log_level"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	Planning             yamlPlanning  `yaml:"planning"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// yamlPlanning represents the planning defaults section in YAML.
type yamlPlanning struct {
	RollLength          float64   `yaml:"roll_length"`
	Catalog             []float64 `yaml:"catalog"`
	WattsPerMeter       float64   `yaml:"watts_per_meter"`
	SafetyFactorPercent *int      `yaml:"safety_factor_percent"`
	SourceMode          string    `yaml:"source_mode"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile          string
	Port                *string
	LogLevel            *string
	CatalogStr          *string
	RollLength          *float64
	WattsPerMeter       *float64
	SafetyFactorPercent *int
	SourceMode          *string
	RateLimitRPS        *float64
	RateLimitBurst      *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Environment first so YAML and flags can override it.
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		EnableMetrics:        true,
		LogLevel:             defaultLogLevel,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		RollLength:           defaultRollLength,
		Catalog:              storage.DefaultCatalog(),
		WattsPerMeter:        defaultWattsPerMeter,
		SafetyFactorPercent:  defaultSafetyFactorPercent,
		SourceMode:           ModeGrouped,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	applyDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.EnableMetrics != nil {
		cfg.EnableMetrics = *yamlCfg.EnableMetrics
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if rps := yamlCfg.RateLimit.RPS; rps != nil && *rps >= 0 {
		cfg.RateLimitRPS = *rps
	}
	if burst := yamlCfg.RateLimit.Burst; burst != nil && *burst >= 0 {
		cfg.RateLimitBurst = *burst
	}

	planning := yamlCfg.Planning
	if planning.RollLength > 0 {
		cfg.RollLength = planning.RollLength
	}
	if len(planning.Catalog) > 0 {
		cfg.Catalog = planning.Catalog
	}
	if planning.WattsPerMeter > 0 {
		cfg.WattsPerMeter = planning.WattsPerMeter
	}
	if planning.SafetyFactorPercent != nil {
		cfg.SafetyFactorPercent = *planning.SafetyFactorPercent
	}
	if planning.SourceMode != "" {
		cfg.SourceMode = planning.SourceMode
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if raw := strings.TrimSpace(os.Getenv("SOURCE_CATALOG")); raw != "" {
		catalog, err := parseCatalog(raw)
		if err == nil {
			cfg.Catalog = catalog
		}
	}

	if raw := strings.TrimSpace(os.Getenv("ROLL_LENGTH")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.RollLength = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("WATTS_PER_METER")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.WattsPerMeter = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("SAFETY_FACTOR_PERCENT")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.SafetyFactorPercent = value
		}
	}

	if mode := strings.TrimSpace(os.Getenv("SOURCE_MODE")); mode != "" {
		cfg.SourceMode = mode
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.CatalogStr != nil && *overrides.CatalogStr != "" {
		catalog, err := parseCatalog(*overrides.CatalogStr)
		if err != nil {
			return fmt.Errorf("parse catalog: %w", err)
		}
		cfg.Catalog = catalog
	}

	if overrides.RollLength != nil && *overrides.RollLength > 0 {
		cfg.RollLength = *overrides.RollLength
	}

	if overrides.WattsPerMeter != nil && *overrides.WattsPerMeter > 0 {
		cfg.WattsPerMeter = *overrides.WattsPerMeter
	}

	if overrides.SafetyFactorPercent != nil && *overrides.SafetyFactorPercent >= 0 {
		cfg.SafetyFactorPercent = *overrides.SafetyFactorPercent
	}

	if overrides.SourceMode != nil && *overrides.SourceMode != "" {
		cfg.SourceMode = *overrides.SourceMode
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if len(cfg.Catalog) == 0 {
		return fmt.Errorf("source catalog cannot be empty")
	}
	if !(cfg.RollLength > 0) || math.IsInf(cfg.RollLength, 1) {
		return fmt.Errorf("roll length must be positive, got %g", cfg.RollLength)
	}
	if !(cfg.WattsPerMeter > 0) || math.IsInf(cfg.WattsPerMeter, 1) {
		return fmt.Errorf("watts per meter must be positive, got %g", cfg.WattsPerMeter)
	}
	if cfg.SafetyFactorPercent < 0 {
		return fmt.Errorf("safety factor percent must be >= 0, got %d", cfg.SafetyFactorPercent)
	}
	if cfg.SourceMode != ModeGrouped && cfg.SourceMode != ModeIndividual {
		return fmt.Errorf("source mode must be %q or %q, got %q", ModeGrouped, ModeIndividual, cfg.SourceMode)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", cfg.LogLevel)
	}
	return nil
}

// parseCatalog parses a comma-separated list of source ratings in watts.
// It validates that all values are positive numbers.
func parseCatalog(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	catalog := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		if !(value > 0) || math.IsInf(value, 1) {
			return nil, fmt.Errorf("capacity must be positive, got %s", part)
		}
		catalog = append(catalog, value)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("no capacities provided")
	}
	return catalog, nil
}
