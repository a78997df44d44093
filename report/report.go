// Package report evaluates fitted pipelines on held-out partitions and
// serializes the run's results: per-variant metrics, ROC records, named
// coefficients and the cross-validation score surface.
package report

import (
	"encoding/json"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/features"
	"github.com/YuminosukeSato/genoml/metrics"
	"github.com/YuminosukeSato/genoml/modelselection"
	"github.com/YuminosukeSato/genoml/pipeline"
	"github.com/YuminosukeSato/genoml/pkg/errors"
	"github.com/YuminosukeSato/genoml/pkg/log"
)

// ROC is one receiver-operating-characteristic record.
type ROC struct {
	FPR        []float64 `json:"fpr"`
	TPR        []float64 `json:"tpr"`
	Thresholds []float64 `json:"thresholds"`
}

// Evaluation captures the metrics of one (variant, partition) pair.
type Evaluation struct {
	Variant   string  `json:"variant"`
	Partition string  `json:"partition"`
	Samples   int     `json:"samples"`
	Positives int     `json:"positives"`
	AUC       float64 `json:"auc"`
	Accuracy  float64 `json:"accuracy"`
	LogLoss   float64 `json:"log_loss"`
	ROC       ROC     `json:"roc"`

	// Scores and Probabilities are per-sample, in partition row order.
	Scores        []float64 `json:"scores"`
	Probabilities []float64 `json:"probabilities"`
}

// Evaluate scores a fitted pipeline on one partition. Decision scores feed
// the AUC and ROC; probabilities feed accuracy and log loss.
func Evaluate(p *pipeline.Pipeline, X *features.Matrix, y *mat.VecDense, partition string, logger log.Logger) (*Evaluation, error) {
	scores, err := p.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	proba, err := p.PredictProba(X)
	if err != nil {
		return nil, err
	}

	auc, err := metrics.AUC(y, scores)
	if err != nil {
		return nil, err
	}
	fpr, tpr, thresholds, err := metrics.ROCCurve(y, scores)
	if err != nil {
		return nil, err
	}
	accuracy, err := metrics.Accuracy(y, proba)
	if err != nil {
		return nil, err
	}
	logLoss, err := metrics.BinaryLogLoss(y, proba)
	if err != nil {
		return nil, err
	}

	positives := 0
	for i := 0; i < y.Len(); i++ {
		if y.AtVec(i) == 1 {
			positives++
		}
	}

	if logger != nil {
		logger.Info("partition evaluated",
			log.VariantKey, p.Variant().String(),
			log.PartitionKey, partition,
			log.SamplesKey, y.Len(),
			log.PositivesKey, positives,
			log.AUCKey, auc,
		)
	}

	return &Evaluation{
		Variant:       p.Variant().String(),
		Partition:     partition,
		Samples:       y.Len(),
		Positives:     positives,
		AUC:           auc,
		Accuracy:      accuracy,
		LogLoss:       logLoss,
		ROC:           ROC{FPR: fpr, TPR: tpr, Thresholds: thresholds},
		Scores:        scores.RawVector().Data,
		Probabilities: proba.RawVector().Data,
	}, nil
}

// GridScore is one row of the cross-validation score surface.
type GridScore struct {
	Alpha       float64   `json:"alpha"`
	NComponents int       `json:"n_components,omitempty"`
	MeanAUC     float64   `json:"mean_auc"`
	FoldAUCs    []float64 `json:"fold_aucs"`
}

// VariantReport aggregates everything recorded for one feature-set variant.
type VariantReport struct {
	Variant      string                      `json:"variant"`
	BestAlpha    float64                     `json:"best_alpha"`
	BestNComp    int                         `json:"best_n_components,omitempty"`
	CVScore      float64                     `json:"cv_score"`
	Grid         []GridScore                 `json:"grid"`
	Intercept    float64                     `json:"intercept"`
	Coefficients []pipeline.NamedCoefficient `json:"coefficients"`
	Train        *Evaluation                 `json:"train"`
	Test         *Evaluation                 `json:"test"`
}

// NewVariantReport assembles the report row for one completed search.
func NewVariantReport(result *modelselection.SearchResult, train, test *Evaluation) (*VariantReport, error) {
	coefs, err := result.Best.Coefficients()
	if err != nil {
		return nil, err
	}
	intercept, err := result.Best.Intercept()
	if err != nil {
		return nil, err
	}

	grid := make([]GridScore, len(result.Points))
	for i, point := range result.Points {
		grid[i] = GridScore{
			Alpha:       point.Alpha,
			NComponents: point.NComponents,
			MeanAUC:     result.MeanScores[i],
			FoldAUCs:    result.FoldScores[i],
		}
	}

	return &VariantReport{
		Variant:      result.Best.Variant().String(),
		BestAlpha:    result.BestPoint.Alpha,
		BestNComp:    result.BestPoint.NComponents,
		CVScore:      result.BestScore,
		Grid:         grid,
		Intercept:    intercept,
		Coefficients: coefs,
		Train:        train,
		Test:         test,
	}, nil
}

// Report is the run-level artifact written alongside the charts.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Genes       []string        `json:"genes"`
	Diseases    []string        `json:"diseases,omitempty"`
	Seed        uint64          `json:"seed"`
	Samples     int             `json:"samples"`
	Variants    []VariantReport `json:"variants"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "report.WriteJSON: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "report.WriteJSON: write %s", path)
	}
	return nil
}
