package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfigFromTemplate parses YAML template text the same way a config file
// is loaded, so generated files can be checked before they are written
func LoadConfigFromTemplate(template string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(strings.NewReader(template)); err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config template: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration template: %w", err)
	}

	return config, nil
}
