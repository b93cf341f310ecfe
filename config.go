package weatherfx

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is everything a weatherfx binary reads at startup.
type Config struct {
	Seed      int64                 `yaml:"seed"`
	Weather   EnvironmentParameters `yaml:"weather"`
	Frame     FrameConfig           `yaml:"frame"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
	Log       LogConfig             `yaml:"log"`
}

type FrameConfig struct {
	TargetFPS int    `yaml:"target_fps"`
	MaxFrames uint64 `yaml:"max_frames"` // 0 = run until cancelled
}

type TelemetryConfig struct {
	Window  int    `yaml:"window"`   // frames per summary
	CSVPath string `yaml:"csv_path"` // empty = no CSV
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

// LoadConfig starts from the embedded defaults and overlays the YAML file at
// path, if any. Only fields present in the file are overwritten.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Weather.Validate(); err != nil {
		return fmt.Errorf("weather.%w", err)
	}
	if c.Frame.TargetFPS <= 0 {
		return fmt.Errorf("frame.target_fps must be positive, got %d", c.Frame.TargetFPS)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
