package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SadokMestiri/Gait-Analysis/internal/gait"
)

const defaultMaxBatchSize = 500

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Engine   EngineConfig  `yaml:"engine"`
	Storage  StorageConfig `yaml:"storage"`
	Inputs   []InputConfig `yaml:"inputs"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level name to a slog level, defaulting
// to info for unknown names.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EngineConfig tunes parsing diagnostics and metric heuristics.
type EngineConfig struct {
	TraceParsing  bool    `yaml:"traceParsing"`
	PeakThreshold float64 `yaml:"peakThreshold"`
	StepLength    float64 `yaml:"stepLength"`
	StepWidth     float64 `yaml:"stepWidth"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
	MaxBatchSize int    `yaml:"maxBatchSize"`
}

// InputConfig names one sensor-log file and the patient/session key it
// is recorded under.
type InputConfig struct {
	File      string `yaml:"file"`
	PatientID string `yaml:"patientId"`
	SessionID string `yaml:"sessionId"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	if config.Storage.DatabasePath == "" {
		return nil, fmt.Errorf("storage.databasePath is required")
	}
	if config.Storage.MaxBatchSize <= 0 {
		config.Storage.MaxBatchSize = defaultMaxBatchSize
	}
	if config.Engine.PeakThreshold <= 0 {
		config.Engine.PeakThreshold = gait.DefaultPeakThreshold
	}
	if config.Engine.StepLength <= 0 {
		config.Engine.StepLength = gait.DefaultStepLength
	}
	if config.Engine.StepWidth <= 0 {
		config.Engine.StepWidth = gait.DefaultStepWidth
	}

	if len(config.Inputs) == 0 {
		return nil, fmt.Errorf("no inputs specified in configuration")
	}
	for i, input := range config.Inputs {
		if input.File == "" {
			return nil, fmt.Errorf("inputs[%d]: file is required", i)
		}
		if input.PatientID == "" || input.SessionID == "" {
			return nil, fmt.Errorf("inputs[%d]: patientId and sessionId are required", i)
		}
	}

	return &config, nil
}
