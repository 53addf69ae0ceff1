package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values loaded from the file
// can be overridden through environment variables afterwards.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Simulation struct {
		ScenarioPath string `yaml:"scenario_path"`
		Turns        int    `yaml:"turns"`
	} `yaml:"simulation"`

	Server struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"`
		// PriceStep is the quantization step applied to prices and
		// volumes before they are persisted.
		PriceStep decimal.Decimal `yaml:"price_step"`
	} `yaml:"storage"`

	Chart struct {
		Enabled    bool   `yaml:"enabled"`
		OutputPath string `yaml:"output_path"`
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
	} `yaml:"chart"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Simulation.ScenarioPath == "" {
		return fmt.Errorf("scenario path is required")
	}
	if c.Simulation.Turns <= 0 {
		return fmt.Errorf("turn count must be positive")
	}

	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server addr is required when the server is enabled")
	}

	if !c.Storage.PriceStep.IsZero() && c.Storage.PriceStep.IsNegative() {
		return fmt.Errorf("price step must not be negative")
	}

	if c.Chart.Enabled {
		if c.Chart.OutputPath == "" {
			return fmt.Errorf("chart output path is required when the chart is enabled")
		}
		if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
			return fmt.Errorf("chart dimensions must be positive")
		}
	}

	return nil
}

// overrideWithEnv replaces settings with environment values when present.
func overrideWithEnv(cfg *Config) {
	if path := os.Getenv("MARKET_SCENARIO"); path != "" {
		cfg.Simulation.ScenarioPath = path
	}
	if path := os.Getenv("MARKET_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if addr := os.Getenv("MARKET_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
}
