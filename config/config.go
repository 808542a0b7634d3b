package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Severity levels a review request may filter on, weakest first.
const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Severities lists the ladder in ascending order.
var Severities = []string{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// DefaultFocusAreas are the review dimensions a request asks for unless the
// user narrows them.
var DefaultFocusAreas = []string{"correctness", "security", "performance", "maintainability"}

// Config represents the full reviewbridge configuration
type Config struct {
	// AutoInstall syncs the bundled skill documents into the workspace
	// before a review command runs.
	AutoInstall bool `mapstructure:"auto-install"`
	// RulesFile points at an optional team rules document, a local path or
	// an http(s) URL. Validated before use, not at load time.
	RulesFile string `mapstructure:"rules-file"`
	// FocusAreas narrows what the reviewer looks at.
	FocusAreas []string `mapstructure:"focus-areas"`
	// SeverityThreshold is the weakest finding worth reporting.
	SeverityThreshold string `mapstructure:"severity-threshold"`
	// BaseBranch is the diff base: "auto" or an explicit reference.
	BaseBranch string `mapstructure:"base-branch"`
	// CleanupOnDeactivate lets teardown delete everything the manifest tracks.
	CleanupOnDeactivate bool `mapstructure:"cleanup-on-deactivate"`
	// LogLevel sets the zap level.
	LogLevel string `mapstructure:"log-level"`
}

// Load builds the configuration from viper's merged file, environment and
// flag state, then validates the fields other packages rely on.
func Load() (*Config, error) {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers defaults with viper so explicit false/empty values
// in the config file still win over them.
func setDefaults() {
	viper.SetDefault("auto-install", true)
	viper.SetDefault("cleanup-on-deactivate", true)
	viper.SetDefault("severity-threshold", SeverityLow)
	viper.SetDefault("base-branch", "auto")
	viper.SetDefault("focus-areas", DefaultFocusAreas)
	viper.SetDefault("log-level", "info")
}

// ValidSeverity reports whether s is one of the ladder values.
func ValidSeverity(s string) bool {
	for _, severity := range Severities {
		if s == severity {
			return true
		}
	}
	return false
}

func validate(cfg *Config) error {
	if !ValidSeverity(cfg.SeverityThreshold) {
		return fmt.Errorf("invalid severity-threshold %q, must be one of: %s",
			cfg.SeverityThreshold, strings.Join(Severities, ", "))
	}
	if len(cfg.FocusAreas) == 0 {
		cfg.FocusAreas = DefaultFocusAreas
	}
	if cfg.BaseBranch == "" {
		cfg.BaseBranch = "auto"
	}
	return nil
}
