// Package features defines the feature-set variants of the mutation-status
// classifier and the column-identified matrix they route over.
//
// A combined feature matrix carries clinical covariate columns and
// gene-expression columns side by side. Each model variant selects which
// block(s) feed the classifier: covariates only, expressions only, or both.
package features

import (
	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// FeatureSet selects which feature block(s) feed a pipeline. It is a closed
// enum so an unknown tag is rejected at construction time, not mid-run.
type FeatureSet int

const (
	// Covariates selects the clinical covariate block: disease-indicator
	// columns plus the log-transformed mutation burden.
	Covariates FeatureSet = iota

	// Expressions selects the gene-expression block.
	Expressions

	// Full selects the union of Covariates and Expressions.
	Full
)

// String returns the canonical tag for the feature set.
func (s FeatureSet) String() string {
	switch s {
	case Covariates:
		return "covariates"
	case Expressions:
		return "expressions"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// ParseFeatureSet converts a tag into a FeatureSet. Unknown tags are a
// ConfigurationError.
func ParseFeatureSet(tag string) (FeatureSet, error) {
	switch tag {
	case "covariates":
		return Covariates, nil
	case "expressions":
		return Expressions, nil
	case "full":
		return Full, nil
	default:
		return 0, errors.NewConfigurationError("ParseFeatureSet", "feature_set", tag,
			"must be one of: covariates, expressions, full")
	}
}

// Variants returns all model variants in their comparison order.
func Variants() []FeatureSet {
	return []FeatureSet{Covariates, Expressions, Full}
}

// Blocks returns the primitive block(s) the feature set is composed of. Full
// is the union of the other two; the primitives return themselves.
func (s FeatureSet) Blocks() []FeatureSet {
	if s == Full {
		return []FeatureSet{Covariates, Expressions}
	}
	return []FeatureSet{s}
}

// HasExpressions reports whether the variant includes the expression block,
// and therefore carries a dimensionality-reduction hyperparameter.
func (s FeatureSet) HasExpressions() bool {
	return s == Expressions || s == Full
}
