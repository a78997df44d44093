// Package dataset assembles the combined feature matrix and label vector from
// the covariate, expression and mutation tables, and produces the held-out
// train/test split.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// Table is a numeric table keyed by sample identifier. Rows are samples,
// columns are named features. Lookups go through identifiers, never raw
// positions, so tables with different sample orderings join correctly.
type Table struct {
	ids      []string
	columns  []string
	colIndex map[string]int
	rowIndex map[string]int
	data     *mat.Dense
}

// NewTable builds a Table and indexes its rows and columns.
func NewTable(ids, columns []string, data *mat.Dense) (*Table, error) {
	r, c := data.Dims()
	if r != len(ids) {
		return nil, errors.NewDimensionError("dataset.NewTable", len(ids), r, 0)
	}
	if c != len(columns) {
		return nil, errors.NewDimensionError("dataset.NewTable", len(columns), c, 1)
	}

	rowIndex := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := rowIndex[id]; dup {
			return nil, errors.NewValueError("dataset.NewTable", fmt.Sprintf("duplicate sample identifier %q", id))
		}
		rowIndex[id] = i
	}
	colIndex := make(map[string]int, len(columns))
	for j, name := range columns {
		if _, dup := colIndex[name]; dup {
			return nil, errors.NewValueError("dataset.NewTable", fmt.Sprintf("duplicate column %q", name))
		}
		colIndex[name] = j
	}

	return &Table{ids: ids, columns: columns, colIndex: colIndex, rowIndex: rowIndex, data: data}, nil
}

// IDs returns the sample identifiers in row order.
func (t *Table) IDs() []string {
	return t.ids
}

// Columns returns the column names in column order.
func (t *Table) Columns() []string {
	return t.columns
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// HasSample reports whether the table has a row for the given identifier.
func (t *Table) HasSample(id string) bool {
	_, ok := t.rowIndex[id]
	return ok
}

// Value returns the cell for (sample, column). Both must exist.
func (t *Table) Value(id, column string) (float64, error) {
	i, ok := t.rowIndex[id]
	if !ok {
		return 0, errors.NewValueError("dataset.Value", fmt.Sprintf("unknown sample %q", id))
	}
	j, ok := t.colIndex[column]
	if !ok {
		return 0, errors.NewValueError("dataset.Value", fmt.Sprintf("unknown column %q", column))
	}
	return t.data.At(i, j), nil
}

// LoadCSV reads a table from a CSV file whose first header field names the
// identifier column and whose remaining fields name numeric feature columns.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.LoadCSV: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a table from CSV content.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.ReadCSV: read header")
	}
	if len(header) < 2 {
		return nil, errors.NewValueError("dataset.ReadCSV", "header must contain an identifier column and at least one feature column")
	}
	columns := header[1:]

	var ids []string
	var values []float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset.ReadCSV: line %d", line+1)
		}
		line++
		if len(record) != len(header) {
			return nil, errors.NewValueError("dataset.ReadCSV",
				fmt.Sprintf("line %d has %d fields, expected %d", line, len(record), len(header)))
		}
		ids = append(ids, record[0])
		for _, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset.ReadCSV: line %d: parse %q", line, cell)
			}
			values = append(values, v)
		}
	}
	if len(ids) == 0 {
		return nil, errors.NewValueError("dataset.ReadCSV", "no data rows")
	}

	return NewTable(ids, columns, mat.NewDense(len(ids), len(columns), values))
}
