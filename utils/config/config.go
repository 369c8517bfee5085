package config

import (
	"github.com/go-playground/validator/v10"
)

// RuntimeConfig is the validated configuration handed to the rest of
// the simulator, with defaults applied.
type RuntimeConfig struct {
	All Config  // full configuration
	C   Control // run control shortcut
}

// NewRuntimeConfig validates the configuration and applies defaults.
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	if config.Control.BoardingPolicy == "" {
		config.Control.BoardingPolicy = "fifo"
	}
	if config.Decision.Model == "" {
		config.Decision.Model = "logit"
	}
	if config.Decision.Theta == 0 {
		config.Decision.Theta = 0.01
	}
	if config.Decision.TopK == 0 {
		config.Decision.TopK = 3
	}
	if config.Decision.CongestionWindow == 0 {
		config.Decision.CongestionWindow = 60
	}

	return &RuntimeConfig{All: config, C: config.Control}, nil
}
