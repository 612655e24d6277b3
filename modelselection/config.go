// Package modelselection implements configuration-driven model selection:
// a YAML document declares candidate regressors and their hyperparameter
// grids, the Factory instantiates each candidate through the registry, runs
// cross-validated grid search, and selects the best model under an accuracy
// floor and an overfitting guard.
package modelselection

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/modelforge/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SampleConfigFileName is the file name produced by WriteSampleConfig.
const SampleConfigFileName = "model.yaml"

// SearchSpec describes the search routine to run for every candidate.
type SearchSpec struct {
	Module string                 `yaml:"module"`
	Class  string                 `yaml:"class"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// ModelSpec describes one candidate model: how to construct it and which
// hyperparameter grid to search.
type ModelSpec struct {
	Module          string                   `yaml:"module"`
	Class           string                   `yaml:"class"`
	Params          map[string]interface{}   `yaml:"params,omitempty"`
	SearchParamGrid map[string][]interface{} `yaml:"search_param_grid"`
}

// Name returns the display name "module.class".
func (s ModelSpec) Name() string {
	return s.Module + "." + s.Class
}

// Config is the parsed model-selection document. ModelSelection is keyed by
// serial number, an arbitrary identifier unique per candidate.
type Config struct {
	GridSearch     SearchSpec           `yaml:"grid_search"`
	ModelSelection map[string]ModelSpec `yaml:"model_selection"`
}

// LoadConfig reads and validates a model-selection document. The document is
// re-read on every call; nothing is cached.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(path, "cannot read file", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.NewConfigError(path, "malformed document", err)
	}

	if err := validateConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(path string, cfg *Config) error {
	if cfg.GridSearch.Module == "" || cfg.GridSearch.Class == "" {
		return errors.NewConfigError(path, "grid_search requires module and class", nil)
	}
	if len(cfg.ModelSelection) == 0 {
		return errors.NewConfigError(path, "model_selection must list at least one candidate", nil)
	}
	for serial, spec := range cfg.ModelSelection {
		if spec.Module == "" || spec.Class == "" {
			return errors.NewConfigError(path, "candidate "+serial+" requires module and class", nil)
		}
		if len(spec.SearchParamGrid) == 0 {
			return errors.NewConfigError(path, "candidate "+serial+" requires a non-empty search_param_grid", nil)
		}
	}
	return nil
}

// SampleConfig returns the template configuration written by
// WriteSampleConfig.
func SampleConfig() *Config {
	return &Config{
		GridSearch: SearchSpec{
			Module: "modelselection",
			Class:  "GridSearchCV",
			Params: map[string]interface{}{
				"cv":      3,
				"verbose": 1,
			},
		},
		ModelSelection: map[string]ModelSpec{
			"module_0": {
				Module: "linear",
				Class:  "Ridge",
				Params: map[string]interface{}{
					"fit_intercept": true,
				},
				SearchParamGrid: map[string][]interface{}{
					// Integral floats would re-decode as ints, so the
					// template sticks to values whose YAML encoding
					// keeps the float type.
					"alpha": {0.01, 0.1, 0.5},
				},
			},
		},
	}
}

// WriteSampleConfig writes a template model-selection document to
// <dir>/model.yaml and returns the file path. The directory is created if it
// does not exist. The written document loads back to the same mapping.
func WriteSampleConfig(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewConfigError(dir, "cannot create export directory", err)
	}

	data, err := yaml.Marshal(SampleConfig())
	if err != nil {
		return "", errors.NewConfigError(dir, "cannot marshal sample config", err)
	}

	path := filepath.Join(dir, SampleConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.NewConfigError(path, "cannot write file", err)
	}
	return path, nil
}
