// Package linearmodel implements the regularized linear classifier at the end
// of every feature-set pipeline: logistic regression trained with an
// elastic-net penalty, class-balanced sample weights and an explicit seed.
package linearmodel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/core/model"
	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// LogisticRegression is a binary classifier minimizing logistic loss with an
// elastic-net penalty. Labels must be 0/1.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	alpha          float64 // regularization strength
	l1Ratio        float64 // elastic-net mixing: 0 is pure L2, 1 is pure L1
	maxIter        int
	tol            float64
	fitIntercept   bool
	balanceClasses bool
	seed           uint64

	// Fitted parameters
	coef      []float64
	intercept float64
	nFeatures int
	nIter     int
	converged bool
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// NewLogisticRegression creates a classifier with the given options. The
// defaults follow the common elastic-net setup: alpha 1e-4, l1 ratio 0.15,
// 1000 iterations, balanced class weights off, seed 0.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		alpha:        1e-4,
		l1Ratio:      0.15,
		maxIter:      1000,
		tol:          1e-4,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithAlpha sets the regularization strength.
func WithAlpha(alpha float64) Option {
	return func(lr *LogisticRegression) {
		lr.alpha = alpha
	}
}

// WithL1Ratio sets the elastic-net mixing parameter.
func WithL1Ratio(ratio float64) Option {
	return func(lr *LogisticRegression) {
		lr.l1Ratio = ratio
	}
}

// WithMaxIter sets the solver's iteration budget.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the gradient-norm stopping tolerance.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithBalancedClassWeights reweights each class inversely to its frequency,
// counteracting label imbalance.
func WithBalancedClassWeights() Option {
	return func(lr *LogisticRegression) {
		lr.balanceClasses = true
	}
}

// WithSeed sets the seed for weight initialization.
func WithSeed(seed uint64) Option {
	return func(lr *LogisticRegression) {
		lr.seed = seed
	}
}

// Fit trains the classifier with full-batch gradient descent. Running out of
// the iteration budget raises a ConvergenceWarning through the warning
// handler; the partially converged fit is kept.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewValueError("LogisticRegression.Fit", "empty data")
	}
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("y must be a column vector, got shape (%d, %d)", yRows, yCols))
	}

	var nPos, nNeg int
	for i := 0; i < nSamples; i++ {
		switch y.At(i, 0) {
		case 0:
			nNeg++
		case 1:
			nPos++
		default:
			return errors.NewValueError("LogisticRegression.Fit",
				fmt.Sprintf("labels must be 0 or 1, got %v", y.At(i, 0)))
		}
	}
	if nPos == 0 || nNeg == 0 {
		return errors.NewDataIntegrityError("LogisticRegression.Fit", "training data",
			"only one label class present")
	}

	// Class-balanced reweighting: each class weighted inversely to its
	// frequency so both classes contribute equally to the loss.
	posWeight, negWeight := 1.0, 1.0
	if lr.balanceClasses {
		posWeight = float64(nSamples) / (2.0 * float64(nPos))
		negWeight = float64(nSamples) / (2.0 * float64(nNeg))
	}
	weightSum := posWeight*float64(nPos) + negWeight*float64(nNeg)

	lr.nFeatures = nFeatures
	lr.initializeWeights(nFeatures)

	grad := make([]float64, nFeatures)
	lr.converged = false

	baseLearningRate := 1.0
	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := lr.intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.coef[j]
			}
			w := negWeight
			if y.At(i, 0) == 1 {
				w = posWeight
			}
			residual := w * (sigmoid(z) - y.At(i, 0))
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				grad[j] += residual * X.At(i, j)
			}
		}

		floats.Scale(1.0/weightSum, grad)
		gradIntercept /= weightSum

		// Elastic-net penalty gradient; the intercept is never penalized.
		for j, w := range lr.coef {
			grad[j] += lr.alpha * ((1-lr.l1Ratio)*w + lr.l1Ratio*sign(w))
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))
		for j := range lr.coef {
			lr.coef[j] -= learningRate * grad[j]
		}
		if lr.fitIntercept {
			lr.intercept -= learningRate * gradIntercept
		}

		lr.nIter = iter + 1

		maxGrad := math.Max(floats.Norm(grad, math.Inf(1)), math.Abs(gradIntercept))
		if maxGrad < lr.tol {
			lr.converged = true
			break
		}
	}

	if !lr.converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// initializeWeights draws small seeded normal weights so refits with the same
// seed are bit-reproducible.
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	rng := rand.New(rand.NewPCG(lr.seed, lr.seed))
	lr.coef = make([]float64, nFeatures)
	for j := range lr.coef {
		lr.coef[j] = rng.NormFloat64() * 0.01
	}
	lr.intercept = 0
}

// DecisionFunction returns the raw linear score per sample.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "DecisionFunction")
	}
	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", lr.nFeatures, c, 1)
	}

	scores := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		z := lr.intercept
		for j := 0; j < c; j++ {
			z += X.At(i, j) * lr.coef[j]
		}
		scores.SetVec(i, z)
	}
	return scores, nil
}

// PredictProba returns the positive-class probability per sample.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.VecDense, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	probs := mat.NewVecDense(scores.Len(), nil)
	for i := 0; i < scores.Len(); i++ {
		probs.SetVec(i, sigmoid(scores.AtVec(i)))
	}
	return probs, nil
}

// Predict returns the predicted class (0 or 1) per sample, thresholding the
// probability at 0.5.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probs, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(probs.Len(), 1, nil)
	for i := 0; i < probs.Len(); i++ {
		if probs.AtVec(i) >= 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coef() []float64 {
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// Intercept returns the fitted intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// NIter returns the iterations the solver actually ran.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Converged reports whether the solver met its tolerance within the budget.
func (lr *LogisticRegression) Converged() bool {
	return lr.converged
}

// GetParams returns the classifier hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         lr.alpha,
		"l1_ratio":      lr.l1Ratio,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"fit_intercept": lr.fitIntercept,
		"class_weight":  lr.balanceClasses,
		"seed":          lr.seed,
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
