// Package config loads the demo binary's configuration from an optional YAML
// file, a .env file and FSMDEMO_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/enetx/fsmkit/fsm"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Scenarios the demo knows how to run.
const (
	ScenarioTurnstile   = "turnstile"
	ScenarioLightSwitch = "lightswitch"
	ScenarioTable       = "table"
)

// Config holds all demo configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Demo   DemoConfig   `mapstructure:"demo"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// DemoConfig selects and parameterizes the scenario.
type DemoConfig struct {
	Scenario  string   `mapstructure:"scenario"`
	TableFile string   `mapstructure:"table_file"`
	Policy    string   `mapstructure:"policy"`
	Inputs    []string `mapstructure:"inputs"`
	DOT       bool     `mapstructure:"dot"`
}

// Load reads configuration. An empty path skips the config file; defaults and
// environment variables still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FSMDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")

	v.SetDefault("demo.scenario", ScenarioTurnstile)
	v.SetDefault("demo.table_file", "")
	v.SetDefault("demo.policy", "")
	v.SetDefault("demo.inputs", []string{})
	v.SetDefault("demo.dot", false)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Demo.Scenario {
	case ScenarioTurnstile, ScenarioLightSwitch:
	case ScenarioTable:
		if c.Demo.TableFile == "" {
			return fmt.Errorf("demo.table_file is required for the %s scenario", ScenarioTable)
		}
	default:
		return fmt.Errorf("demo.scenario %q is not one of %s, %s, %s",
			c.Demo.Scenario, ScenarioTurnstile, ScenarioLightSwitch, ScenarioTable)
	}

	if _, ok := fsm.ParsePolicy(c.Demo.Policy); !ok {
		return fmt.Errorf("demo.policy %q must be error or stay", c.Demo.Policy)
	}

	return nil
}
