package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors cogeval.yaml's top-level shape. Every section is
// optional; anything left unset is filled in from the Default*Config
// functions.
type yamlConfig struct {
	Run         *RunConfig         `yaml:"run"`
	Grader      *GraderConfig      `yaml:"grader"`
	Harness     *HarnessConfig     `yaml:"harness"`
	Dialogue    *DialogueConfig    `yaml:"dialogue"`
	SelfImprove *SelfImproveConfig `yaml:"self_improve"`
	Memory      *MemoryConfig      `yaml:"memory"`
	Retention   *RetentionConfig   `yaml:"retention"`
}

// Initialize loads cogeval.yaml from configDir, expands environment
// variables, merges it over the system defaults, and validates the
// result.
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	path := filepath.Join(configDir, "cogeval.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewLoadError(path, ErrConfigNotFound)
		}
		return nil, NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	var parsed yamlConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	cfg := &Config{
		configDir:   configDir,
		Run:         DefaultRunConfig(),
		Grader:      DefaultGraderConfig(),
		Harness:     DefaultHarnessConfig(),
		Dialogue:    DefaultDialogueConfig(),
		SelfImprove: DefaultSelfImproveConfig(),
		Retention:   DefaultRetentionConfig(),
	}

	if err := mergeInto(&cfg.Run, parsed.Run); err != nil {
		return nil, err
	}
	if err := mergeInto(&cfg.Grader, parsed.Grader); err != nil {
		return nil, err
	}
	if err := mergeInto(&cfg.Harness, parsed.Harness); err != nil {
		return nil, err
	}
	if err := mergeInto(&cfg.Dialogue, parsed.Dialogue); err != nil {
		return nil, err
	}
	if err := mergeInto(&cfg.SelfImprove, parsed.SelfImprove); err != nil {
		return nil, err
	}
	if err := mergeInto(&cfg.Retention, parsed.Retention); err != nil {
		return nil, err
	}
	if parsed.Memory != nil {
		cfg.Memory = *parsed.Memory
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Info("configuration initialized successfully",
		"grader_model", cfg.Grader.Model,
		"dialogue_turns", cfg.Dialogue.NumTurns,
		"self_improve_max_iterations", cfg.SelfImprove.MaxIterations)

	return cfg, nil
}

// mergeInto merges a non-nil user-supplied section over its defaults,
// user values taking priority.
func mergeInto[T any](dst *T, src *T) error {
	if src == nil {
		return nil
	}
	if err := mergo.Merge(dst, *src, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge configuration: %w", err)
	}
	return nil
}

var structValidator = validator.New()

// validateConfig runs struct-tag validation over every section in
// order, failing on the first section with an error.
func validateConfig(cfg *Config) error {
	for _, section := range []any{cfg.Run, cfg.Grader, cfg.Harness, cfg.Dialogue, cfg.SelfImprove} {
		if err := structValidator.Struct(section); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}
	if cfg.Memory.Enabled() {
		if err := structValidator.Struct(cfg.Memory); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}
	return nil
}
