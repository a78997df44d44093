package modelselection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/core/parallel"
	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/metrics"
	"github.com/YuminosukeSato/genoml/pipeline"
	"github.com/YuminosukeSato/genoml/pkg/errors"
	"github.com/YuminosukeSato/genoml/pkg/log"
)

// minParallelTasks is the fold×point task count below which the sweep runs
// sequentially.
const minParallelTasks = 4

// GridPoint is one hyperparameter combination. NComponents is zero for
// variants without an expression block.
type GridPoint struct {
	Alpha       float64 `json:"alpha"`
	NComponents int     `json:"n_components,omitempty"`
}

// Grid enumerates the search points in a fixed order: alpha outer, component
// count inner. Variants without expressions collapse the component axis to a
// single entry, so ties across points resolve identically on every run.
func Grid(alphas []float64, components []int, hasExpressions bool) []GridPoint {
	if !hasExpressions {
		points := make([]GridPoint, 0, len(alphas))
		for _, a := range alphas {
			points = append(points, GridPoint{Alpha: a})
		}
		return points
	}
	points := make([]GridPoint, 0, len(alphas)*len(components))
	for _, a := range alphas {
		for _, c := range components {
			points = append(points, GridPoint{Alpha: a, NComponents: c})
		}
	}
	return points
}

// GridSearchCV exhaustively scores every grid point with stratified
// cross-validation and refits the winner on the whole training partition.
type GridSearchCV struct {
	Variant    features.FeatureSet
	Alphas     []float64
	Components []int
	NSplits    int

	// Base supplies the hyperparameters the grid does not vary.
	Base pipeline.Params

	Logger log.Logger
}

// SearchResult carries the refitted winner and the full score surface.
type SearchResult struct {
	Best      *pipeline.Pipeline
	BestPoint GridPoint
	BestScore float64

	Points     []GridPoint
	FoldScores [][]float64
	MeanScores []float64
}

// Fit runs the search on the given training partition. The fold×point tasks
// are independent and run in parallel; scores land in pre-sized slots so the
// result is identical to a sequential sweep.
func (g *GridSearchCV) Fit(X *features.Matrix, y *mat.VecDense) (*SearchResult, error) {
	const op = "GridSearchCV.Fit"

	if len(g.Alphas) == 0 {
		return nil, errors.NewConfigurationError(op, "alphas", g.Alphas, "at least one penalty strength is required")
	}
	if g.Variant.HasExpressions() && len(g.Components) == 0 {
		return nil, errors.NewConfigurationError(op, "components", g.Components, "expression variants require at least one component count")
	}

	folds, err := NewStratifiedKFold(g.NSplits, g.Base.Seed).Split(y)
	if err != nil {
		return nil, err
	}

	points := Grid(g.Alphas, g.Components, g.Variant.HasExpressions())

	type task struct {
		point int
		fold  int
	}
	tasks := make([]task, 0, len(points)*len(folds))
	for p := range points {
		for f := range folds {
			tasks = append(tasks, task{point: p, fold: f})
		}
	}

	scores := make([][]float64, len(points))
	for p := range scores {
		scores[p] = make([]float64, len(folds))
	}
	taskErrs := make([]error, len(tasks))

	// Tiny sweeps are not worth the goroutine fan-out.
	parallel.ParallelizeWithThreshold(len(tasks), minParallelTasks, func(start, end int) {
		for i := start; i < end; i++ {
			tk := tasks[i]
			score, err := g.scoreFold(X, y, points[tk.point], folds[tk.fold], tk.fold)
			if err != nil {
				taskErrs[i] = err
				continue
			}
			scores[tk.point][tk.fold] = score
		}
	})
	for _, err := range taskErrs {
		if err != nil {
			return nil, err
		}
	}

	means := make([]float64, len(points))
	bestIdx := 0
	for p := range points {
		sum := 0.0
		for f := range folds {
			sum += scores[p][f]
		}
		means[p] = sum / float64(len(folds))
		// Strictly greater: equal means keep the earlier grid point.
		if means[p] > means[bestIdx] {
			bestIdx = p
		}

		if g.Logger != nil {
			g.Logger.Debug("grid point scored",
				log.VariantKey, g.Variant.String(),
				log.GridPointKey, p,
				"alpha", points[p].Alpha,
				"n_components", points[p].NComponents,
				log.CVScoreKey, means[p],
			)
		}
	}

	best := pipelineFor(g.Variant, g.Base, points[bestIdx])
	if err := best.Fit(X, y); err != nil {
		return nil, err
	}

	if g.Logger != nil {
		g.Logger.Info("grid search complete",
			log.VariantKey, g.Variant.String(),
			log.GridPointKey, bestIdx,
			"alpha", points[bestIdx].Alpha,
			"n_components", points[bestIdx].NComponents,
			log.CVScoreKey, means[bestIdx],
		)
	}

	return &SearchResult{
		Best:       best,
		BestPoint:  points[bestIdx],
		BestScore:  means[bestIdx],
		Points:     points,
		FoldScores: scores,
		MeanScores: means,
	}, nil
}

// scoreFold fits one grid point on a fold's training rows and returns the
// validation AUC.
func (g *GridSearchCV) scoreFold(X *features.Matrix, y *mat.VecDense, point GridPoint, fold Fold, foldIdx int) (float64, error) {
	if singleClass(y, fold.Train) || singleClass(y, fold.Test) {
		return 0, errors.NewDataIntegrityError("GridSearchCV.scoreFold", "fold",
			fmt.Sprintf("fold %d contains a single label class", foldIdx))
	}

	XTrain, err := X.Rows(fold.Train)
	if err != nil {
		return 0, err
	}
	XTest, err := X.Rows(fold.Test)
	if err != nil {
		return 0, err
	}
	yTrain := subVector(y, fold.Train)
	yTest := subVector(y, fold.Test)

	p := pipelineFor(g.Variant, g.Base, point)
	if err := p.Fit(XTrain, yTrain); err != nil {
		return 0, err
	}
	scores, err := p.DecisionFunction(XTest)
	if err != nil {
		return 0, err
	}
	return metrics.AUC(yTest, scores)
}

func pipelineFor(variant features.FeatureSet, base pipeline.Params, point GridPoint) *pipeline.Pipeline {
	params := base
	params.Alpha = point.Alpha
	if variant.HasExpressions() {
		params.NComponents = point.NComponents
	}
	return pipeline.New(variant, params)
}

func singleClass(y *mat.VecDense, indices []int) bool {
	hasPos, hasNeg := false, false
	for _, idx := range indices {
		if y.AtVec(idx) == 1 {
			hasPos = true
		} else {
			hasNeg = true
		}
	}
	return !hasPos || !hasNeg
}

func subVector(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}
