package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/genoml/core/model"
	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// PCA projects samples onto the leading principal components of the training
// data. Expression matrices are far wider than they are tall, so projecting
// tens of thousands of genes onto a modest number of orthogonal directions
// both regularizes the downstream classifier and keeps cross-validated search
// tractable.
type PCA struct {
	state *model.StateManager

	// NComponents is the number of components to keep.
	NComponents int

	mean       []float64
	components *mat.Dense // nFeatures x NComponents projection
	variances  []float64  // variance captured per kept component
	nFeatures  int
}

// NewPCA creates an unfitted PCA keeping nComponents components.
func NewPCA(nComponents int) *PCA {
	return &PCA{
		state:       model.NewStateManager(),
		NComponents: nComponents,
	}
}

// Fit learns the column means and the leading principal directions of X.
func (p *PCA) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewValueError("PCA.Fit", "empty data")
	}
	if p.NComponents <= 0 {
		return errors.NewValueError("PCA.Fit", fmt.Sprintf("n_components must be positive, got %d", p.NComponents))
	}
	maxRank := r
	if c < r {
		maxRank = c
	}
	if p.NComponents > maxRank {
		return errors.NewValueError("PCA.Fit",
			fmt.Sprintf("n_components=%d exceeds min(n_samples, n_features)=%d", p.NComponents, maxRank))
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.New("PCA.Fit: principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	p.nFeatures = c
	p.components = mat.NewDense(c, p.NComponents, nil)
	for j := 0; j < c; j++ {
		for k := 0; k < p.NComponents; k++ {
			p.components.Set(j, k, vecs.At(j, k))
		}
	}
	p.variances = make([]float64, p.NComponents)
	copy(p.variances, vars[:p.NComponents])

	p.mean = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		p.mean[j] = stat.Mean(col, nil)
	}

	p.state.SetDimensions(c, r)
	p.state.SetFitted()
	return nil
}

// Transform centers X with the fitted means and projects it onto the kept
// components.
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Transform")
	}

	r, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PCA.Transform", p.nFeatures, c, 1)
	}

	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.mean[j])
		}
	}

	out := mat.NewDense(r, p.NComponents, nil)
	out.Mul(centered, p.components)
	return out, nil
}

// FitTransform fits on X and returns the projected X.
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// ExplainedVariance returns the variance captured by each kept component.
func (p *PCA) ExplainedVariance() []float64 {
	out := make([]float64, len(p.variances))
	copy(out, p.variances)
	return out
}

// GetParams returns the PCA hyperparameters.
func (p *PCA) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_components": p.NComponents,
	}
}

// String returns a description of the projection and its fitted state.
func (p *PCA) String() string {
	if !p.state.IsFitted() {
		return fmt.Sprintf("PCA(n_components=%d)", p.NComponents)
	}
	return fmt.Sprintf("PCA(n_components=%d, n_features=%d)", p.NComponents, p.nFeatures)
}
