package features

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// Column identifies one feature column: its name and the block it belongs to.
// Slicing goes through column identity, never raw positions, so block
// membership survives any upstream reordering of columns.
type Column struct {
	Name string
	Set  FeatureSet // Covariates or Expressions
}

// Matrix is a sample-by-feature matrix with named rows and block-tagged
// columns. It is the single combined table the router slices per variant.
type Matrix struct {
	samples []string
	columns []Column
	data    *mat.Dense
}

// NewMatrix builds a Matrix and validates that the sample names, column
// descriptors and data dimensions agree.
func NewMatrix(samples []string, columns []Column, data *mat.Dense) (*Matrix, error) {
	r, c := data.Dims()
	if r != len(samples) {
		return nil, errors.NewDimensionError("features.NewMatrix", len(samples), r, 0)
	}
	if c != len(columns) {
		return nil, errors.NewDimensionError("features.NewMatrix", len(columns), c, 1)
	}
	for _, col := range columns {
		if col.Set != Covariates && col.Set != Expressions {
			return nil, errors.NewConfigurationError("features.NewMatrix", "column_set", col.Set.String(),
				"columns must belong to the covariates or expressions block")
		}
	}
	return &Matrix{samples: samples, columns: columns, data: data}, nil
}

// Dims returns the sample and feature counts.
func (m *Matrix) Dims() (rows, cols int) {
	return m.data.Dims()
}

// Samples returns the sample identifiers in row order.
func (m *Matrix) Samples() []string {
	return m.samples
}

// Columns returns the column descriptors in column order.
func (m *Matrix) Columns() []Column {
	return m.columns
}

// ColumnNames returns the names of the columns belonging to set, in column
// order. For Full it returns all column names.
func (m *Matrix) ColumnNames(set FeatureSet) []string {
	var names []string
	for _, col := range m.columns {
		if set == Full || col.Set == set {
			names = append(names, col.Name)
		}
	}
	return names
}

// Data returns the underlying dense matrix. Callers must not mutate it.
func (m *Matrix) Data() *mat.Dense {
	return m.data
}

// Slice routes the matrix to the sub-matrix of one primitive block. This is
// the Feature Router: columns are selected by their block identity, so the
// covariate and expression slices are disjoint and their union is the full
// matrix. Only Covariates and Expressions are routable; any other tag is a
// ConfigurationError.
func (m *Matrix) Slice(set FeatureSet) (*mat.Dense, error) {
	if set != Covariates && set != Expressions {
		return nil, errors.NewConfigurationError("features.Slice", "feature_set", set.String(),
			"only the covariates and expressions blocks are routable")
	}

	var idx []int
	for j, col := range m.columns {
		if col.Set == set {
			idx = append(idx, j)
		}
	}
	if len(idx) == 0 {
		return nil, errors.NewConfigurationError("features.Slice", "feature_set", set.String(),
			"matrix has no columns in this block")
	}

	rows, _ := m.data.Dims()
	out := mat.NewDense(rows, len(idx), nil)
	for i := 0; i < rows; i++ {
		for k, j := range idx {
			out.Set(i, k, m.data.At(i, j))
		}
	}
	return out, nil
}

// Rows returns a new Matrix holding the given rows, in the given order. Used
// to carve fold and partition subsets out of the combined table.
func (m *Matrix) Rows(indices []int) (*Matrix, error) {
	rows, cols := m.data.Dims()
	samples := make([]string, len(indices))
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		if idx < 0 || idx >= rows {
			return nil, errors.NewValueError("features.Rows", "row index out of range")
		}
		samples[i] = m.samples[idx]
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.data.At(idx, j))
		}
	}
	return &Matrix{samples: samples, columns: m.columns, data: out}, nil
}
