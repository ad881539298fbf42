package mesh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the settings used when no config file is supplied.
func DefaultConfig() Config {
	return Config{
		Registration: RegistrationConfig{
			StepSize:          0.1,
			MaxIterations:     100,
			ConvergenceThresh: 1e-6,
		},
		Render: RenderConfig{
			PointRadius: 1.0,
			Padding:     10.0,
			DPI:         300,
		},
	}
}

// LoadConfig loads the configuration from a YAML file. Omitted numeric
// fields fall back to the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	// Validate required fields
	if config.Registration.StepSize <= 0 {
		return nil, fmt.Errorf("registration.stepSize must be positive, got %g", config.Registration.StepSize)
	}
	if config.Registration.MaxIterations <= 0 {
		return nil, fmt.Errorf("registration.maxIterations must be positive, got %d", config.Registration.MaxIterations)
	}
	if config.Registration.ConvergenceThresh < 0 {
		return nil, fmt.Errorf("registration.convergenceThresh must not be negative, got %g", config.Registration.ConvergenceThresh)
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
