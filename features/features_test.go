package features

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	samples := []string{"s1", "s2", "s3"}
	columns := []Column{
		{Name: "acronym_BRCA", Set: Covariates},
		{Name: "GENE_A", Set: Expressions},
		{Name: "n_mutations_log1p", Set: Covariates},
		{Name: "GENE_B", Set: Expressions},
	}
	data := mat.NewDense(3, 4, []float64{
		1, 10, 0.5, 20,
		0, 11, 0.7, 21,
		1, 12, 0.9, 22,
	})
	m, err := NewMatrix(samples, columns, data)
	if err != nil {
		t.Fatalf("NewMatrix() error: %v", err)
	}
	return m
}

func TestParseFeatureSet(t *testing.T) {
	tests := []struct {
		tag     string
		want    FeatureSet
		wantErr bool
	}{
		{tag: "covariates", want: Covariates},
		{tag: "expressions", want: Expressions},
		{tag: "full", want: Full},
		{tag: "genes", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseFeatureSet(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFeatureSet(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if err != nil {
				var cfgErr *errors.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("expected ConfigurationError, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFeatureSet(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSliceRoutesByColumnIdentity(t *testing.T) {
	m := testMatrix(t)

	cov, err := m.Slice(Covariates)
	if err != nil {
		t.Fatalf("Slice(Covariates) error: %v", err)
	}
	expr, err := m.Slice(Expressions)
	if err != nil {
		t.Fatalf("Slice(Expressions) error: %v", err)
	}

	// Covariate and expression columns are interleaved in the combined
	// matrix; routing must pick them out by block tag, preserving order.
	if r, c := cov.Dims(); r != 3 || c != 2 {
		t.Errorf("covariate slice dims = (%d, %d), want (3, 2)", r, c)
	}
	if r, c := expr.Dims(); r != 3 || c != 2 {
		t.Errorf("expression slice dims = (%d, %d), want (3, 2)", r, c)
	}
	if cov.At(1, 1) != 0.7 {
		t.Errorf("covariate slice picked wrong column: got %v", cov.At(1, 1))
	}
	if expr.At(2, 0) != 12 {
		t.Errorf("expression slice picked wrong column: got %v", expr.At(2, 0))
	}
}

func TestSliceBlocksAreDisjointAndCoverFull(t *testing.T) {
	m := testMatrix(t)

	covNames := m.ColumnNames(Covariates)
	exprNames := m.ColumnNames(Expressions)

	seen := make(map[string]bool)
	for _, n := range covNames {
		seen[n] = true
	}
	for _, n := range exprNames {
		if seen[n] {
			t.Errorf("column %q appears in both blocks", n)
		}
		seen[n] = true
	}

	all := m.ColumnNames(Full)
	if len(all) != len(covNames)+len(exprNames) {
		t.Errorf("union size = %d, want %d", len(all), len(covNames)+len(exprNames))
	}
	for _, n := range all {
		if !seen[n] {
			t.Errorf("full matrix column %q missing from block union", n)
		}
	}
}

func TestSliceRejectsNonRoutableTags(t *testing.T) {
	m := testMatrix(t)

	_, err := m.Slice(Full)
	if err == nil {
		t.Fatal("Slice(Full) should fail: only primitive blocks are routable")
	}
	var cfgErr *errors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestRowsPreservesColumnsAndOrder(t *testing.T) {
	m := testMatrix(t)

	sub, err := m.Rows([]int{2, 0})
	if err != nil {
		t.Fatalf("Rows() error: %v", err)
	}
	if got := sub.Samples(); got[0] != "s3" || got[1] != "s1" {
		t.Errorf("Rows() sample order = %v, want [s3 s1]", got)
	}
	if sub.Data().At(0, 3) != 22 {
		t.Errorf("Rows() data mismatch: got %v", sub.Data().At(0, 3))
	}
	if len(sub.Columns()) != 4 {
		t.Errorf("Rows() must keep all columns, got %d", len(sub.Columns()))
	}

	if _, err := m.Rows([]int{5}); err == nil {
		t.Error("Rows() with out-of-range index should fail")
	}
}

func TestCombine(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 1, []float64{5, 6})

	out, err := Combine(a, b)
	if err != nil {
		t.Fatalf("Combine() error: %v", err)
	}
	if r, c := out.Dims(); r != 2 || c != 3 {
		t.Fatalf("Combine() dims = (%d, %d), want (2, 3)", r, c)
	}
	want := []float64{1, 2, 5, 3, 4, 6}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if out.At(i, j) != want[i*3+j] {
				t.Errorf("Combine()[%d,%d] = %v, want %v", i, j, out.At(i, j), want[i*3+j])
			}
		}
	}
}

func TestCombineSingleBlockIsIdentity(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	out, err := Combine(a)
	if err != nil {
		t.Fatalf("Combine() error: %v", err)
	}
	if !mat.Equal(a, out) {
		t.Error("single-block Combine should be the identity")
	}
}

func TestCombineShapeMismatch(t *testing.T) {
	a := mat.NewDense(3, 2, nil)
	// One extra row in the second block: the deliberate corruption case.
	b := mat.NewDense(4, 1, nil)

	_, err := Combine(a, b)
	if err == nil {
		t.Fatal("Combine() should fail on row-count disagreement")
	}
	var shapeErr *errors.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected ShapeMismatchError, got %T", err)
	}
	if shapeErr.Expected != 3 || shapeErr.Got != 4 {
		t.Errorf("ShapeMismatchError rows = (%d, %d), want (3, 4)", shapeErr.Expected, shapeErr.Got)
	}
}
