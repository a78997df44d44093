package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// Combine concatenates preprocessed sub-matrices column-wise, preserving
// sample row order. Every block must agree on the row count; a disagreement
// is a ShapeMismatchError since it can only come from a routing bug upstream.
// A single block passes through as a copy, so the combiner is the identity
// for single-subset variants.
func Combine(blocks ...mat.Matrix) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, errors.NewValueError("features.Combine", "no blocks to combine")
	}

	rows, _ := blocks[0].Dims()
	totalCols := 0
	for i, b := range blocks {
		r, c := b.Dims()
		if r != rows {
			return nil, errors.NewShapeMismatchError("features.Combine", fmt.Sprintf("block %d", i), rows, r)
		}
		totalCols += c
	}

	out := mat.NewDense(rows, totalCols, nil)
	offset := 0
	for _, b := range blocks {
		_, c := b.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < c; j++ {
				out.Set(i, offset+j, b.At(i, j))
			}
		}
		offset += c
	}
	return out, nil
}
