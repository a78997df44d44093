// Command genoml trains and compares mutation-status classifiers over the
// covariates-only, expressions-only and combined feature sets, then writes
// the evaluation artifacts.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/config"
	"github.com/YuminosukeSato/genoml/dataset"
	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/modelselection"
	"github.com/YuminosukeSato/genoml/pipeline"
	"github.com/YuminosukeSato/genoml/pkg/log"
	"github.com/YuminosukeSato/genoml/report"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the YAML run configuration")
		genes      = flag.String("genes", "", "comma-separated genes defining the positive label (overrides config)")
		diseases   = flag.String("diseases", "", "comma-separated disease acronyms to restrict the cohort (overrides config)")
		outputDir  = flag.String("output", "", "directory for result artifacts (overrides config)")
		seed       = flag.Uint64("seed", 0, "random seed (overrides config)")
		seedSet    = false
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn or error (overrides config)")
	)
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genoml: %v\n", err)
		os.Exit(1)
	}
	if *genes != "" {
		cfg.Cohort.Genes = splitFlag(*genes)
	}
	if *diseases != "" {
		cfg.Cohort.Diseases = splitFlag(*diseases)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if seedSet {
		cfg.Seed = *seed
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "genoml: %v\n", err)
		os.Exit(1)
	}

	log.SetupLogger(cfg.LogLevel)
	provider := log.NewZerologProvider(log.ToLogLevel(cfg.LogLevel))
	provider.InstallWarningBridge()
	logger := provider.GetLoggerWithName("genoml")

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", log.ErrAttrKey, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	start := time.Now()
	logger.Info("run starting",
		"genes", cfg.Cohort.Genes,
		"diseases", cfg.Cohort.Diseases,
		log.SeedKey, cfg.Seed,
	)

	covariates, err := dataset.LoadCSV(cfg.Data.Covariates)
	if err != nil {
		return err
	}
	expressions, err := dataset.LoadCSV(cfg.Data.Expressions)
	if err != nil {
		return err
	}
	mutations, err := dataset.LoadCSV(cfg.Data.Mutations)
	if err != nil {
		return err
	}

	ds, err := dataset.Assemble(covariates, expressions, mutations, dataset.Options{
		Genes:        cfg.Cohort.Genes,
		Diseases:     cfg.Cohort.Diseases,
		TestFraction: cfg.Cohort.TestFraction,
		Seed:         cfg.Seed,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	XTrain, err := ds.Features.Rows(ds.TrainIndices)
	if err != nil {
		return err
	}
	XTest, err := ds.Features.Rows(ds.TestIndices)
	if err != nil {
		return err
	}
	yTrain := subVector(ds.Labels, ds.TrainIndices)
	yTest := subVector(ds.Labels, ds.TestIndices)

	base := pipeline.Params{
		L1Ratio: cfg.Search.L1Ratio,
		MaxIter: cfg.Search.MaxIter,
		Tol:     cfg.Search.Tol,
		Seed:    cfg.Seed,
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}

	nSamples, _ := ds.Features.Dims()
	result := &report.Report{
		GeneratedAt: time.Now().UTC(),
		Genes:       cfg.Cohort.Genes,
		Diseases:    cfg.Cohort.Diseases,
		Seed:        cfg.Seed,
		Samples:     nSamples,
	}

	var trainEvals, testEvals []*report.Evaluation
	for _, variant := range features.Variants() {
		variantLogger := logger.With(log.VariantKey, variant.String())
		variantLogger.Info("searching variant")

		search := &modelselection.GridSearchCV{
			Variant:    variant,
			Alphas:     cfg.Search.Alphas,
			Components: cfg.Search.Components,
			NSplits:    cfg.Search.Folds,
			Base:       base,
			Logger:     variantLogger,
		}
		searchResult, err := search.Fit(XTrain, yTrain)
		if err != nil {
			return err
		}

		trainEval, err := report.Evaluate(searchResult.Best, XTrain, yTrain, "train", variantLogger)
		if err != nil {
			return err
		}
		testEval, err := report.Evaluate(searchResult.Best, XTest, yTest, "test", variantLogger)
		if err != nil {
			return err
		}
		trainEvals = append(trainEvals, trainEval)
		testEvals = append(testEvals, testEval)

		vr, err := report.NewVariantReport(searchResult, trainEval, testEval)
		if err != nil {
			return err
		}
		result.Variants = append(result.Variants, *vr)
	}

	resultsPath := filepath.Join(cfg.Output.Dir, "results.json")
	if err := result.WriteJSON(resultsPath); err != nil {
		return err
	}
	rocTestPath := filepath.Join(cfg.Output.Dir, "roc_test.png")
	if err := report.WriteROCPlot(rocTestPath, "Test-partition ROC by feature set", testEvals); err != nil {
		return err
	}
	rocTrainPath := filepath.Join(cfg.Output.Dir, "roc_train.png")
	if err := report.WriteROCPlot(rocTrainPath, "Train-partition ROC by feature set", trainEvals); err != nil {
		return err
	}

	logger.Info("run complete",
		"results", resultsPath,
		"roc_charts", []string{rocTestPath, rocTrainPath},
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func splitFlag(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func subVector(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}
