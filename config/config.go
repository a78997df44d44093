// Package config loads the run configuration from YAML, applies environment
// overrides and validates the result before the pipeline starts.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GENOML_"

// Config is the full run configuration.
type Config struct {
	Data struct {
		// Covariates, Expressions and Mutations are CSV paths keyed by
		// sample identifier.
		Covariates  string `yaml:"covariates"`
		Expressions string `yaml:"expressions"`
		Mutations   string `yaml:"mutations"`
	} `yaml:"data"`

	Cohort struct {
		Genes        []string `yaml:"genes"`
		Diseases     []string `yaml:"diseases"`
		TestFraction float64  `yaml:"test_fraction"`
	} `yaml:"cohort"`

	Search struct {
		Alphas     []float64 `yaml:"alphas"`
		Components []int     `yaml:"components"`
		Folds      int       `yaml:"folds"`
		L1Ratio    float64   `yaml:"l1_ratio"`
		MaxIter    int       `yaml:"max_iter"`
		Tol        float64   `yaml:"tol"`
	} `yaml:"search"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	Seed     uint64 `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when a field is left unset.
func Default() *Config {
	cfg := &Config{}
	cfg.Cohort.TestFraction = 0.1
	cfg.Search.Alphas = []float64{0.001, 0.01, 0.1, 1}
	cfg.Search.Components = []int{50, 100}
	cfg.Search.Folds = 3
	cfg.Search.L1Ratio = 0.15
	cfg.Search.MaxIter = 1000
	cfg.Search.Tol = 1e-4
	cfg.Output.Dir = "results"
	cfg.Seed = 0
	cfg.LogLevel = "info"
	return cfg
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path keeps the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "config.Load: read %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "config.Load: parse %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays GENOML_-prefixed environment variables. List values are
// comma-separated.
func (c *Config) applyEnv() error {
	const op = "config.applyEnv"

	if v, ok := lookup("GENES"); ok {
		c.Cohort.Genes = splitList(v)
	}
	if v, ok := lookup("DISEASES"); ok {
		c.Cohort.Diseases = splitList(v)
	}
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.NewConfigurationError(op, "GENOML_SEED", v, "must be an unsigned integer")
		}
		c.Seed = seed
	}
	if v, ok := lookup("TEST_FRACTION"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewConfigurationError(op, "GENOML_TEST_FRACTION", v, "must be a float")
		}
		c.Cohort.TestFraction = f
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		c.Output.Dir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	return v, ok && v != ""
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate checks the configuration before any data is read.
func (c *Config) Validate() error {
	const op = "Config.Validate"

	if c.Data.Covariates == "" || c.Data.Expressions == "" || c.Data.Mutations == "" {
		return errors.NewConfigurationError(op, "data", c.Data, "covariates, expressions and mutations paths are all required")
	}
	if len(c.Cohort.Genes) == 0 {
		return errors.NewConfigurationError(op, "cohort.genes", c.Cohort.Genes, "at least one gene is required")
	}
	if c.Cohort.TestFraction <= 0 || c.Cohort.TestFraction >= 1 {
		return errors.NewConfigurationError(op, "cohort.test_fraction", c.Cohort.TestFraction, "must be in (0, 1)")
	}
	if len(c.Search.Alphas) == 0 {
		return errors.NewConfigurationError(op, "search.alphas", c.Search.Alphas, "at least one penalty strength is required")
	}
	for _, a := range c.Search.Alphas {
		if a <= 0 {
			return errors.NewConfigurationError(op, "search.alphas", a, "penalty strengths must be positive")
		}
	}
	if len(c.Search.Components) == 0 {
		return errors.NewConfigurationError(op, "search.components", c.Search.Components, "at least one component count is required")
	}
	for _, k := range c.Search.Components {
		if k <= 0 {
			return errors.NewConfigurationError(op, "search.components", k, "component counts must be positive")
		}
	}
	if c.Search.Folds < 2 {
		return errors.NewConfigurationError(op, "search.folds", c.Search.Folds, "must be at least 2")
	}
	if c.Search.L1Ratio < 0 || c.Search.L1Ratio > 1 {
		return errors.NewConfigurationError(op, "search.l1_ratio", c.Search.L1Ratio, "must be in [0, 1]")
	}
	if c.Search.MaxIter <= 0 {
		return errors.NewConfigurationError(op, "search.max_iter", c.Search.MaxIter, "must be positive")
	}
	if c.Search.Tol <= 0 {
		return errors.NewConfigurationError(op, "search.tol", c.Search.Tol, "must be positive")
	}
	if c.Output.Dir == "" {
		return errors.NewConfigurationError(op, "output.dir", c.Output.Dir, "output directory is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigurationError(op, "log_level", c.LogLevel, "must be one of: debug, info, warn, error")
	}
	return nil
}
