package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Data.Covariates = "covariates.csv"
	cfg.Data.Expressions = "expressions.csv"
	cfg.Data.Mutations = "mutations.csv"
	cfg.Cohort.Genes = []string{"TP53"}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if got := cfg.Search.Alphas; len(got) != 4 || got[0] != 0.001 || got[3] != 1 {
		t.Errorf("default alphas = %v", got)
	}
	if got := cfg.Search.Components; len(got) != 2 || got[0] != 50 || got[1] != 100 {
		t.Errorf("default components = %v", got)
	}
	if cfg.Search.Folds != 3 {
		t.Errorf("default folds = %d, want 3", cfg.Search.Folds)
	}
	if cfg.Cohort.TestFraction != 0.1 {
		t.Errorf("default test fraction = %v, want 0.1", cfg.Cohort.TestFraction)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
data:
  covariates: cov.csv
  expressions: expr.csv
  mutations: mut.csv
cohort:
  genes: [TP53, KRAS]
  diseases: [GBM]
  test_fraction: 0.2
search:
  alphas: [0.05]
  components: [10]
  folds: 5
seed: 1234
log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(cfg.Cohort.Genes) != 2 || cfg.Cohort.Genes[1] != "KRAS" {
		t.Errorf("genes = %v", cfg.Cohort.Genes)
	}
	if cfg.Search.Folds != 5 {
		t.Errorf("folds = %d, want 5", cfg.Search.Folds)
	}
	if cfg.Seed != 1234 {
		t.Errorf("seed = %d, want 1234", cfg.Seed)
	}
	// Untouched fields keep their defaults.
	if cfg.Search.MaxIter != 1000 {
		t.Errorf("max_iter = %d, want default 1000", cfg.Search.MaxIter)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GENOML_GENES", "NF1, RB1")
	t.Setenv("GENOML_SEED", "77")
	t.Setenv("GENOML_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Cohort.Genes) != 2 || cfg.Cohort.Genes[0] != "NF1" || cfg.Cohort.Genes[1] != "RB1" {
		t.Errorf("genes = %v", cfg.Cohort.Genes)
	}
	if cfg.Seed != 77 {
		t.Errorf("seed = %d, want 77", cfg.Seed)
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("output dir = %q", cfg.Output.Dir)
	}
}

func TestEnvironmentOverrideRejectsBadSeed(t *testing.T) {
	t.Setenv("GENOML_SEED", "not-a-number")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for malformed seed")
	}
	var cfgErr *errors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing data paths", func(c *Config) { c.Data.Mutations = "" }},
		{"no genes", func(c *Config) { c.Cohort.Genes = nil }},
		{"bad test fraction", func(c *Config) { c.Cohort.TestFraction = 1 }},
		{"no alphas", func(c *Config) { c.Search.Alphas = nil }},
		{"negative alpha", func(c *Config) { c.Search.Alphas = []float64{-0.1} }},
		{"no components", func(c *Config) { c.Search.Components = nil }},
		{"zero component count", func(c *Config) { c.Search.Components = []int{0} }},
		{"one fold", func(c *Config) { c.Search.Folds = 1 }},
		{"l1 ratio above one", func(c *Config) { c.Search.L1Ratio = 1.5 }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
