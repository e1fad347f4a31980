package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration: the ordered list of
// category rules loaded from the rules file. List order matters — it is the
// priority order for substring matching.
type Config struct {
	Categories []CategoryRule `mapstructure:"categories"`
}

// CategoryRule declares a minor category under a major category together
// with the description substrings that map transactions into it. An entry
// with no substrings still declares the category (needed for fallback
// buckets that are only ever reached by policy, never by matching).
type CategoryRule struct {
	Major      string   `mapstructure:"major"`
	Minor      string   `mapstructure:"minor"`
	Substrings []string `mapstructure:"substrings"`
}

// Fallback categories every taxonomy must contain so that unmatched
// transactions always have a bucket to land in.
var fallbackRules = []CategoryRule{
	{Major: "unknown", Minor: "credit"},
	{Major: "unknown", Minor: "debit"},
	{Major: "expenses", Minor: "unknown"},
}

// LoadConfig loads the category rules file and appends any missing fallback
// categories so the zero-value template always has slots for them.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, rule := range config.Categories {
		if rule.Major == "" || rule.Minor == "" {
			return nil, fmt.Errorf("invalid category rule: major=%q minor=%q", rule.Major, rule.Minor)
		}
	}

	config.Categories = append(config.Categories, missingFallbacks(config.Categories)...)
	return &config, nil
}

func missingFallbacks(rules []CategoryRule) []CategoryRule {
	declared := make(map[[2]string]bool, len(rules))
	for _, rule := range rules {
		declared[[2]string{rule.Major, rule.Minor}] = true
	}
	var missing []CategoryRule
	for _, fb := range fallbackRules {
		if !declared[[2]string{fb.Major, fb.Minor}] {
			missing = append(missing, fb)
		}
	}
	return missing
}
