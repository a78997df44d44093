package modelselection

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/pipeline"
	"github.com/YuminosukeSato/genoml/pkg/errors"
)

func binaryLabels(n, nPositive int) *mat.VecDense {
	y := mat.NewVecDense(n, nil)
	for i := 0; i < nPositive; i++ {
		y.SetVec(i, 1)
	}
	return y
}

func TestStratifiedKFoldCoversEverySampleOnce(t *testing.T) {
	y := binaryLabels(30, 9)

	folds, err := NewStratifiedKFold(3, 42).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(folds) != 3 {
		t.Fatalf("got %d folds, want 3", len(folds))
	}

	seen := make(map[int]int, 30)
	for _, fold := range folds {
		for _, i := range fold.Test {
			seen[i]++
		}
		if len(fold.Train)+len(fold.Test) != 30 {
			t.Errorf("fold sizes %d+%d != 30", len(fold.Train), len(fold.Test))
		}
	}
	for i := 0; i < 30; i++ {
		if seen[i] != 1 {
			t.Errorf("sample %d appears in %d validation folds, want 1", i, seen[i])
		}
	}
}

func TestStratifiedKFoldPreservesClassRatio(t *testing.T) {
	y := binaryLabels(30, 9)

	folds, err := NewStratifiedKFold(3, 7).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for f, fold := range folds {
		positives := 0
		for _, i := range fold.Test {
			if y.AtVec(i) == 1 {
				positives++
			}
		}
		if positives != 3 {
			t.Errorf("fold %d has %d validation positives, want 3", f, positives)
		}
	}
}

func TestStratifiedKFoldIsDeterministic(t *testing.T) {
	y := binaryLabels(24, 8)

	a, err := NewStratifiedKFold(4, 99).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	b, err := NewStratifiedKFold(4, 99).Split(y)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for f := range a {
		if len(a[f].Test) != len(b[f].Test) {
			t.Fatalf("fold %d sizes differ", f)
		}
		for i := range a[f].Test {
			if a[f].Test[i] != b[f].Test[i] {
				t.Errorf("fold %d test[%d] differs: %d vs %d", f, i, a[f].Test[i], b[f].Test[i])
			}
		}
	}
}

func TestStratifiedKFoldRejectsSparseClass(t *testing.T) {
	y := binaryLabels(30, 2)

	_, err := NewStratifiedKFold(3, 1).Split(y)
	if err == nil {
		t.Fatal("expected error when a class has fewer members than folds")
	}
	var intErr *errors.DataIntegrityError
	if !errors.As(err, &intErr) {
		t.Errorf("expected DataIntegrityError, got %T: %v", err, err)
	}
}

func TestGridOrder(t *testing.T) {
	points := Grid([]float64{0.001, 0.01}, []int{50, 100}, true)
	want := []GridPoint{
		{Alpha: 0.001, NComponents: 50},
		{Alpha: 0.001, NComponents: 100},
		{Alpha: 0.01, NComponents: 50},
		{Alpha: 0.01, NComponents: 100},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestGridWithoutExpressionsCollapsesComponentAxis(t *testing.T) {
	points := Grid([]float64{0.1, 1}, []int{50, 100}, false)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	for i, p := range points {
		if p.NComponents != 0 {
			t.Errorf("point[%d].NComponents = %d, want 0", i, p.NComponents)
		}
	}
}

// searchMatrix builds a cohort whose signal lives in the first expression
// column, so every variant is learnable but expressions carry more signal.
func searchMatrix(t *testing.T, n int, seed uint64) (*features.Matrix, *mat.VecDense) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))

	columns := []features.Column{
		{Name: "acronym_GBM", Set: features.Covariates},
		{Name: "n_mutations_log1p", Set: features.Covariates},
		{Name: "g_1", Set: features.Expressions},
		{Name: "g_2", Set: features.Expressions},
		{Name: "g_3", Set: features.Expressions},
		{Name: "g_4", Set: features.Expressions},
	}

	samples := make([]string, n)
	data := mat.NewDense(n, len(columns), nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		samples[i] = fmt.Sprintf("s%d", i)
		label := 0.0
		if i%3 == 0 {
			label = 1.0
		}
		y.SetVec(i, label)

		data.Set(i, 0, float64(i%2))
		data.Set(i, 1, 0.5*label+rng.NormFloat64())
		data.Set(i, 2, 2.5*label+rng.NormFloat64()*0.5)
		data.Set(i, 3, rng.NormFloat64())
		data.Set(i, 4, rng.NormFloat64())
		data.Set(i, 5, rng.NormFloat64())
	}

	m, err := features.NewMatrix(samples, columns, data)
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}
	return m, y
}

func searchBase() pipeline.Params {
	base := pipeline.DefaultParams()
	base.MaxIter = 300
	base.Seed = 42
	return base
}

func TestGridSearchCVSelectsBestMeanScore(t *testing.T) {
	X, y := searchMatrix(t, 90, 1)

	search := &GridSearchCV{
		Variant:    features.Full,
		Alphas:     []float64{0.001, 0.01, 0.1, 1},
		Components: []int{2, 3},
		NSplits:    3,
		Base:       searchBase(),
	}
	result, err := search.Fit(X, y)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(result.Points) != 8 {
		t.Fatalf("got %d grid points, want 8", len(result.Points))
	}
	for p, mean := range result.MeanScores {
		if mean > result.BestScore {
			t.Errorf("point %d mean %v exceeds reported best %v", p, mean, result.BestScore)
		}
	}
	if result.Best == nil {
		t.Fatal("no refitted winner returned")
	}
	if got := result.Best.Params().Alpha; got != result.BestPoint.Alpha {
		t.Errorf("winner alpha %v != best point alpha %v", got, result.BestPoint.Alpha)
	}

	// A learnable signal should beat chance comfortably.
	if result.BestScore < 0.6 {
		t.Errorf("best mean AUC = %v, expected clearly above 0.5", result.BestScore)
	}
}

func TestGridSearchCVIsDeterministic(t *testing.T) {
	X, y := searchMatrix(t, 60, 2)

	run := func() *SearchResult {
		search := &GridSearchCV{
			Variant:    features.Expressions,
			Alphas:     []float64{0.01, 0.1},
			Components: []int{2},
			NSplits:    3,
			Base:       searchBase(),
		}
		result, err := search.Fit(X, y)
		if err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		return result
	}

	r1, r2 := run(), run()
	if r1.BestPoint != r2.BestPoint {
		t.Errorf("best point differs across runs: %+v vs %+v", r1.BestPoint, r2.BestPoint)
	}
	for p := range r1.MeanScores {
		if r1.MeanScores[p] != r2.MeanScores[p] {
			t.Errorf("mean score %d differs: %v vs %v", p, r1.MeanScores[p], r2.MeanScores[p])
		}
	}
}

func TestGridSearchCVTieBreakKeepsFirstPoint(t *testing.T) {
	// Two copies of the same alpha produce identical fold scores; the
	// winner must be the first point in grid order.
	X, y := searchMatrix(t, 60, 3)

	search := &GridSearchCV{
		Variant: features.Covariates,
		Alphas:  []float64{0.01, 0.01, 0.01},
		NSplits: 3,
		Base:    searchBase(),
	}
	result, err := search.Fit(X, y)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	for p := 1; p < len(result.MeanScores); p++ {
		if result.MeanScores[p] != result.MeanScores[0] {
			t.Fatalf("expected identical scores for identical points, got %v", result.MeanScores)
		}
	}
	if result.BestPoint != result.Points[0] {
		t.Errorf("tie broke to %+v, want first point %+v", result.BestPoint, result.Points[0])
	}
}

func TestScoreFoldRejectsSingleClassFold(t *testing.T) {
	X, y := searchMatrix(t, 30, 5)

	// Hand-built partition whose validation side holds only negatives
	// (labels are positive at every third index).
	var train, test []int
	for i := 0; i < 30; i++ {
		if i < 15 {
			train = append(train, i)
		} else if y.AtVec(i) == 0 {
			test = append(test, i)
		}
	}

	search := &GridSearchCV{
		Variant: features.Covariates,
		Alphas:  []float64{0.01},
		NSplits: 3,
		Base:    searchBase(),
	}
	_, err := search.scoreFold(X, y, GridPoint{Alpha: 0.01}, Fold{Train: train, Test: test}, 2)
	if err == nil {
		t.Fatal("expected error for single-class validation fold")
	}
	var intErr *errors.DataIntegrityError
	if !errors.As(err, &intErr) {
		t.Fatalf("expected DataIntegrityError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "fold 2") {
		t.Errorf("error does not name the fold: %v", err)
	}
}

func TestGridSearchCVConfigurationErrors(t *testing.T) {
	X, y := searchMatrix(t, 30, 4)

	tests := []struct {
		name   string
		search *GridSearchCV
	}{
		{"no alphas", &GridSearchCV{Variant: features.Covariates, NSplits: 3, Base: searchBase()}},
		{"no components for expressions", &GridSearchCV{Variant: features.Full, Alphas: []float64{0.1}, NSplits: 3, Base: searchBase()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.search.Fit(X, y)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *errors.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %T: %v", err, err)
			}
		})
	}
}
