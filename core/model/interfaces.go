package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer is the interface for fit-then-apply data transforms. Fit learns
// transform statistics from training data only; Transform applies them
// unchanged to any partition.
type Transformer interface {
	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// Transform applies the fitted parameters to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and returns the transformed X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the interface for binary classification estimators.
type Classifier interface {
	// Fit trains the classifier on X with labels y (one column, values 0/1).
	Fit(X mat.Matrix, y mat.Matrix) error

	// Predict returns the predicted class per sample.
	Predict(X mat.Matrix) (mat.Matrix, error)

	// PredictProba returns the positive-class probability per sample.
	PredictProba(X mat.Matrix) (*mat.VecDense, error)

	// DecisionFunction returns the raw decision score per sample.
	DecisionFunction(X mat.Matrix) (*mat.VecDense, error)
}

// ParameterGetter is implemented by estimators that expose their
// hyperparameters.
type ParameterGetter interface {
	// GetParams returns the estimator's hyperparameters.
	GetParams() map[string]interface{}
}
