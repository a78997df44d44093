// Package pipeline composes the per-variant estimator: feature routing,
// per-block preprocessing and the elastic-net logistic classifier, fitted as
// one unit so no preprocessing statistic ever leaks across partitions.
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/core/model"
	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/linearmodel"
	"github.com/YuminosukeSato/genoml/pkg/errors"
	"github.com/YuminosukeSato/genoml/preprocessing"
)

// Params are the hyperparameters of one pipeline instance. Alpha and L1Ratio
// feed the elastic-net penalty; NComponents sizes the expression PCA and is
// ignored by variants without an expression block.
type Params struct {
	Alpha       float64
	L1Ratio     float64
	NComponents int
	MaxIter     int
	Tol         float64
	Seed        uint64
}

// DefaultParams mirror the classifier defaults with a modest PCA size.
func DefaultParams() Params {
	return Params{
		Alpha:       1e-4,
		L1Ratio:     0.15,
		NComponents: 50,
		MaxIter:     1000,
		Tol:         1e-4,
	}
}

// NamedCoefficient pairs a model weight with the feature it multiplies.
type NamedCoefficient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Pipeline is the fitted unit for one feature-set variant. All preprocessing
// statistics are estimated during Fit and frozen afterwards; Transform-side
// methods never refit.
type Pipeline struct {
	state   model.StateManager
	variant features.FeatureSet
	params  Params

	scalers map[features.FeatureSet]*preprocessing.StandardScaler
	pca     *preprocessing.PCA
	clf     *linearmodel.LogisticRegression

	featureNames []string
}

// New builds an unfitted pipeline for the given variant.
func New(variant features.FeatureSet, params Params) *Pipeline {
	return &Pipeline{
		variant: variant,
		params:  params,
		scalers: make(map[features.FeatureSet]*preprocessing.StandardScaler),
	}
}

// Variant returns the feature-set variant this pipeline models.
func (p *Pipeline) Variant() features.FeatureSet {
	return p.variant
}

// Params returns the hyperparameters the pipeline was built with.
func (p *Pipeline) Params() Params {
	return p.params
}

// Fit estimates all preprocessing statistics and classifier weights on the
// given samples.
func (p *Pipeline) Fit(X *features.Matrix, y *mat.VecDense) error {
	nSamples, _ := X.Dims()
	if y.Len() != nSamples {
		return errors.NewDimensionError("Pipeline.Fit", nSamples, y.Len(), 0)
	}

	p.scalers = make(map[features.FeatureSet]*preprocessing.StandardScaler)
	p.pca = nil
	p.featureNames = nil

	blocks := make([]mat.Matrix, 0, 2)
	for _, set := range p.variant.Blocks() {
		raw, err := X.Slice(set)
		if err != nil {
			return err
		}

		scaler := preprocessing.NewStandardScaler()
		scaled, err := scaler.FitTransform(raw)
		if err != nil {
			return err
		}
		p.scalers[set] = scaler

		if set == features.Expressions {
			pca := preprocessing.NewPCA(p.params.NComponents)
			reduced, err := pca.FitTransform(scaled)
			if err != nil {
				return err
			}
			p.pca = pca
			blocks = append(blocks, reduced)
			for k := 0; k < p.params.NComponents; k++ {
				p.featureNames = append(p.featureNames, fmt.Sprintf("PC%d", k+1))
			}
			continue
		}

		blocks = append(blocks, scaled)
		p.featureNames = append(p.featureNames, X.ColumnNames(set)...)
	}

	combined, err := features.Combine(blocks...)
	if err != nil {
		return err
	}

	p.clf = linearmodel.NewLogisticRegression(
		linearmodel.WithAlpha(p.params.Alpha),
		linearmodel.WithL1Ratio(p.params.L1Ratio),
		linearmodel.WithMaxIter(p.params.MaxIter),
		linearmodel.WithTol(p.params.Tol),
		linearmodel.WithSeed(p.params.Seed),
		linearmodel.WithBalancedClassWeights(),
	)
	if err := p.clf.Fit(combined, y); err != nil {
		return err
	}

	_, nFeatures := combined.Dims()
	p.state.SetDimensions(nFeatures, nSamples)
	p.state.SetFitted()
	return nil
}

// transform applies the frozen preprocessing chain to new samples.
func (p *Pipeline) transform(X *features.Matrix) (*mat.Dense, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "transform")
	}

	blocks := make([]mat.Matrix, 0, 2)
	for _, set := range p.variant.Blocks() {
		raw, err := X.Slice(set)
		if err != nil {
			return nil, err
		}
		scaled, err := p.scalers[set].Transform(raw)
		if err != nil {
			return nil, err
		}
		if set == features.Expressions {
			reduced, err := p.pca.Transform(scaled)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, reduced)
			continue
		}
		blocks = append(blocks, scaled)
	}

	return features.Combine(blocks...)
}

// DecisionFunction returns the raw linear scores for the given samples.
func (p *Pipeline) DecisionFunction(X *features.Matrix) (*mat.VecDense, error) {
	combined, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.clf.DecisionFunction(combined)
}

// PredictProba returns positive-class probabilities for the given samples.
func (p *Pipeline) PredictProba(X *features.Matrix) (*mat.VecDense, error) {
	combined, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.clf.PredictProba(combined)
}

// FeatureNames returns the names of the classifier inputs in weight order:
// covariate columns first where present, then PC1..PCk for the expression
// block.
func (p *Pipeline) FeatureNames() []string {
	out := make([]string, len(p.featureNames))
	copy(out, p.featureNames)
	return out
}

// Coefficients returns the fitted weights paired with their feature names.
func (p *Pipeline) Coefficients() ([]NamedCoefficient, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Coefficients")
	}
	coef := p.clf.Coef()
	out := make([]NamedCoefficient, len(coef))
	for i, w := range coef {
		out[i] = NamedCoefficient{Name: p.featureNames[i], Weight: w}
	}
	return out, nil
}

// Intercept returns the fitted bias term.
func (p *Pipeline) Intercept() (float64, error) {
	if !p.state.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "Intercept")
	}
	return p.clf.Intercept(), nil
}

// Converged reports whether the classifier reached its tolerance during Fit.
func (p *Pipeline) Converged() bool {
	return p.clf != nil && p.clf.Converged()
}

// GetParams exposes the hyperparameters for logging and reporting.
func (p *Pipeline) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"variant":  p.variant.String(),
		"alpha":    p.params.Alpha,
		"l1_ratio": p.params.L1Ratio,
		"max_iter": p.params.MaxIter,
		"tol":      p.params.Tol,
		"seed":     p.params.Seed,
	}
	if p.variant.HasExpressions() {
		params["n_components"] = p.params.NComponents
	}
	return params
}

// String returns a compact description for logs.
func (p *Pipeline) String() string {
	if p.variant.HasExpressions() {
		return fmt.Sprintf("Pipeline(variant=%s, alpha=%g, l1_ratio=%g, n_components=%d)",
			p.variant, p.params.Alpha, p.params.L1Ratio, p.params.NComponents)
	}
	return fmt.Sprintf("Pipeline(variant=%s, alpha=%g, l1_ratio=%g)",
		p.variant, p.params.Alpha, p.params.L1Ratio)
}
