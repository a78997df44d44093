package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

const tol = 1e-9

func columnMeanVar(X mat.Matrix, j int) (mean, variance float64) {
	r, _ := X.Dims()
	for i := 0; i < r; i++ {
		mean += X.At(i, j)
	}
	mean /= float64(r)
	for i := 0; i < r; i++ {
		d := X.At(i, j) - mean
		variance += d * d
	}
	variance /= float64(r)
	return mean, variance
}

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
		4, 400,
	})

	scaler := NewStandardScaler()
	Xt, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}

	// Applied to its own training data, the transform yields zero mean and
	// unit variance per column.
	for j := 0; j < 2; j++ {
		mean, variance := columnMeanVar(Xt, j)
		if math.Abs(mean) > tol {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > tol {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerDoesNotRefitOnTransform(t *testing.T) {
	train := mat.NewDense(3, 1, []float64{0, 1, 2})
	test := mat.NewDense(3, 1, []float64{10, 11, 12})

	scaler := NewStandardScaler()
	if err := scaler.Fit(train); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	trainMean := scaler.Mean[0]

	Xt, err := scaler.Transform(test)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}

	// The test partition is transformed with training statistics, so its
	// transformed mean must be far from zero.
	mean, _ := columnMeanVar(Xt, 0)
	if math.Abs(mean) < 1 {
		t.Errorf("test partition mean = %v; scaler appears to have refitted", mean)
	}
	if scaler.Mean[0] != trainMean {
		t.Errorf("Transform mutated fitted mean: %v != %v", scaler.Mean[0], trainMean)
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScaler()
	Xt, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if Xt.At(i, 0) != 0 {
			t.Errorf("constant column should center to 0, got %v", Xt.At(i, 0))
		}
	}
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler()

	if _, err := scaler.Transform(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("Transform before Fit should fail")
	} else {
		var notFitted *errors.NotFittedError
		if !errors.As(err, &notFitted) {
			t.Errorf("expected NotFittedError, got %T", err)
		}
	}

	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit() error: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("Transform with wrong column count should fail")
	} else {
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) {
			t.Errorf("expected DimensionError, got %T", err)
		}
	}
}
