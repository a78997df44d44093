package dataset

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/pkg/errors"
	"github.com/YuminosukeSato/genoml/pkg/log"
)

const (
	// DiseaseColumnPrefix prefixes the one-hot disease indicator columns in
	// the covariate table.
	DiseaseColumnPrefix = "acronym_"

	// MutationBurdenColumn is the log1p-transformed total mutation count
	// column in the covariate table.
	MutationBurdenColumn = "n_mutations_log1p"

	// DefaultTestFraction is the held-out share of samples when the caller
	// does not override it.
	DefaultTestFraction = 0.1
)

// Options configures Assemble.
type Options struct {
	// Genes are the mutation columns whose union defines the positive label.
	// At least one is required.
	Genes []string

	// Diseases restricts the cohort to samples carrying any of the given
	// disease acronyms. Empty means all samples.
	Diseases []string

	// TestFraction is the held-out share, in (0, 1). Zero selects
	// DefaultTestFraction.
	TestFraction float64

	// Seed drives the stratified split shuffle.
	Seed uint64

	Logger log.Logger
}

// Dataset is the assembled design matrix, labels and partition indices.
// Row order follows the covariate table, restricted to samples present in
// every input table.
type Dataset struct {
	Features *features.Matrix
	Labels   *mat.VecDense

	TrainIndices []int
	TestIndices  []int
}

// Assemble joins the covariate, expression and mutation tables on sample
// identifier, derives binary labels from the requested genes, and splits the
// cohort into stratified train and test partitions.
func Assemble(covariates, expressions, mutations *Table, opts Options) (*Dataset, error) {
	const op = "dataset.Assemble"

	if len(opts.Genes) == 0 {
		return nil, errors.NewConfigurationError(op, "genes", opts.Genes, "at least one gene is required")
	}
	for _, g := range opts.Genes {
		if !mutations.HasColumn(g) {
			return nil, errors.NewConfigurationError(op, "genes", g, "gene not present in mutation table")
		}
	}

	testFraction := opts.TestFraction
	if testFraction == 0 {
		testFraction = DefaultTestFraction
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, errors.NewConfigurationError(op, "test_fraction", testFraction, "must be in (0, 1)")
	}

	if !covariates.HasColumn(MutationBurdenColumn) {
		return nil, errors.NewConfigurationError(op, "covariates", MutationBurdenColumn, "burden column missing from covariate table")
	}

	diseaseColumns := make([]string, 0, len(opts.Diseases))
	for _, d := range opts.Diseases {
		name := DiseaseColumnPrefix + d
		if !covariates.HasColumn(name) {
			return nil, errors.NewConfigurationError(op, "diseases", d, "no matching disease indicator column")
		}
		diseaseColumns = append(diseaseColumns, name)
	}

	samples, err := selectSamples(covariates, expressions, mutations, diseaseColumns)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.NewDataIntegrityError(op, "cohort", "no samples shared by all input tables match the disease filter")
	}

	labels, nPositive, err := deriveLabels(mutations, samples, opts.Genes)
	if err != nil {
		return nil, err
	}
	if nPositive == 0 || nPositive == len(samples) {
		return nil, errors.NewDataIntegrityError(op, "cohort",
			fmt.Sprintf("labels contain a single class (%d positives of %d samples)", nPositive, len(samples)))
	}

	// The covariate block carries only the requested disease indicators.
	// Without a filter, every indicator in the table participates.
	featureIndicators := diseaseColumns
	if len(opts.Diseases) == 0 {
		featureIndicators = indicatorColumns(covariates)
	}

	matrix, err := buildMatrix(covariates, expressions, samples, featureIndicators)
	if err != nil {
		return nil, err
	}

	train, test, err := StratifiedSplit(labels, testFraction, opts.Seed)
	if err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		_, nFeatures := matrix.Dims()
		opts.Logger.Info("dataset assembled",
			log.SamplesKey, len(samples),
			log.FeaturesKey, nFeatures,
			log.PositivesKey, nPositive,
			"train_samples", len(train),
			"test_samples", len(test),
		)
	}

	return &Dataset{
		Features:     matrix,
		Labels:       labels,
		TrainIndices: train,
		TestIndices:  test,
	}, nil
}

// selectSamples returns, in covariate row order, the samples present in all
// three tables and matching the disease filter.
func selectSamples(covariates, expressions, mutations *Table, diseaseColumns []string) ([]string, error) {
	var samples []string
	for _, id := range covariates.IDs() {
		if len(diseaseColumns) > 0 {
			matched := false
			for _, col := range diseaseColumns {
				v, err := covariates.Value(id, col)
				if err != nil {
					return nil, err
				}
				if v > 0 {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if !expressions.HasSample(id) || !mutations.HasSample(id) {
			continue
		}
		samples = append(samples, id)
	}
	return samples, nil
}

// deriveLabels marks a sample positive when any requested gene is mutated.
func deriveLabels(mutations *Table, samples, genes []string) (*mat.VecDense, int, error) {
	labels := mat.NewVecDense(len(samples), nil)
	nPositive := 0
	for i, id := range samples {
		y := 0.0
		for _, g := range genes {
			v, err := mutations.Value(id, g)
			if err != nil {
				return nil, 0, err
			}
			if v != 0 && v != 1 {
				return nil, 0, errors.NewDataIntegrityError("dataset.Assemble", "mutations",
					fmt.Sprintf("non-binary mutation status %g for sample %q gene %q", v, id, g))
			}
			if v > y {
				y = v
			}
		}
		labels.SetVec(i, y)
		if y == 1 {
			nPositive++
		}
	}
	return labels, nPositive, nil
}

// indicatorColumns returns every disease indicator column in table order,
// for unfiltered cohorts where no acronym subset was requested.
func indicatorColumns(covariates *Table) []string {
	var out []string
	for _, name := range covariates.Columns() {
		if strings.HasPrefix(name, DiseaseColumnPrefix) {
			out = append(out, name)
		}
	}
	return out
}

// buildMatrix gathers the covariate block (disease indicators plus mutation
// burden) and the full expression block into one tagged feature matrix.
func buildMatrix(covariates, expressions *Table, samples, diseaseColumns []string) (*features.Matrix, error) {
	exprColumns := expressions.Columns()

	columns := make([]features.Column, 0, len(diseaseColumns)+1+len(exprColumns))
	for _, name := range diseaseColumns {
		columns = append(columns, features.Column{Name: name, Set: features.Covariates})
	}
	columns = append(columns, features.Column{Name: MutationBurdenColumn, Set: features.Covariates})
	for _, name := range exprColumns {
		columns = append(columns, features.Column{Name: name, Set: features.Expressions})
	}

	data := mat.NewDense(len(samples), len(columns), nil)
	for i, id := range samples {
		j := 0
		for _, name := range diseaseColumns {
			v, err := covariates.Value(id, name)
			if err != nil {
				return nil, err
			}
			data.Set(i, j, v)
			j++
		}
		burden, err := covariates.Value(id, MutationBurdenColumn)
		if err != nil {
			return nil, err
		}
		data.Set(i, j, burden)
		j++
		for _, name := range exprColumns {
			v, err := expressions.Value(id, name)
			if err != nil {
				return nil, err
			}
			data.Set(i, j, v)
			j++
		}
	}

	return features.NewMatrix(samples, columns, data)
}
