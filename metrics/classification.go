// Package metrics provides the ranking and classification metrics used to
// select and report models: area-under-ROC-curve for cross-validated search,
// ROC points, log loss and accuracy for reporting.
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// AUC computes the area under the ROC curve: the probability that a randomly
// chosen positive sample is scored higher than a randomly chosen negative
// one. Ties in yPred contribute half. Labels must be 0/1.
//
// When yTrue contains a single class the metric is undefined; 0.5 is
// returned and an UndefinedMetricWarning is emitted.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUC", "nil input vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yPred.Len(), 0)
	}

	nPos := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
		default:
			return 0, errors.NewValueError("AUC", "labels must be 0 or 1")
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "only one class present in yTrue", 0.5))
		return 0.5, nil
	}

	// Rank-based (Mann-Whitney) formulation with average ranks for ties.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) < yPred.AtVec(idx[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && yPred.AtVec(idx[j]) == yPred.AtVec(idx[i]) {
			j++
		}
		// Tied scores share the average of the ranks they span.
		avg := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	var rankSumPos float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSumPos += ranks[i]
		}
	}
	u := rankSumPos - float64(nPos)*float64(nPos+1)/2.0
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix computes AUC for matrix-shaped inputs, using the first column.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("AUCMatrix", "nil input matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, _ := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("AUCMatrix", "empty matrix")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("AUCMatrix", rTrue, rPred, 0)
	}

	vTrue := mat.NewVecDense(rTrue, nil)
	vPred := mat.NewVecDense(rTrue, nil)
	for i := 0; i < rTrue; i++ {
		vTrue.SetVec(i, yTrue.At(i, 0))
		vPred.SetVec(i, yPred.At(i, 0))
	}
	return AUC(vTrue, vPred)
}

// ROCCurve computes the receiver operating characteristic: false-positive
// rate, true-positive rate and the decision threshold at each point. Points
// are ordered by decreasing threshold and the curve starts at (0, 0) with a
// threshold above every score. Labels must be 0/1 with both classes present.
func ROCCurve(yTrue, score *mat.VecDense) (fpr, tpr, thresholds []float64, err error) {
	if yTrue == nil || score == nil {
		return nil, nil, nil, errors.NewValueError("ROCCurve", "nil input vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, nil, errors.NewValueError("ROCCurve", "empty vector")
	}
	if score.Len() != n {
		return nil, nil, nil, errors.NewDimensionError("ROCCurve", n, score.Len(), 0)
	}

	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, nil, nil, errors.NewValueError("ROCCurve", "labels must be 0 or 1")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return nil, nil, nil, errors.NewDataIntegrityError("ROCCurve", "labels",
			"both classes must be present to trace a ROC curve")
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return score.AtVec(idx[a]) > score.AtVec(idx[b])
	})

	fpr = []float64{0}
	tpr = []float64{0}
	thresholds = []float64{score.AtVec(idx[0]) + 1}

	tp, fp := 0, 0
	for i := 0; i < n; {
		t := score.AtVec(idx[i])
		// Consume every sample tied at this threshold before emitting a point.
		for i < n && score.AtVec(idx[i]) == t {
			if yTrue.AtVec(idx[i]) == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		fpr = append(fpr, float64(fp)/float64(nNeg))
		tpr = append(tpr, float64(tp)/float64(nPos))
		thresholds = append(thresholds, t)
	}
	return fpr, tpr, thresholds, nil
}

// BinaryLogLoss computes the mean negative log-likelihood of binary labels
// under predicted probabilities, clipping predictions away from 0 and 1.
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("BinaryLogLoss", "nil input vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yPred.Len(), 0)
	}

	const eps = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be 0 or 1")
		}
		p := math.Min(math.Max(yPred.AtVec(i), eps), 1-eps)
		if y == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// Accuracy computes the fraction of predicted probabilities that, thresholded
// at 0.5, match the binary labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("Accuracy", "nil input vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		pred := 0.0
		if yPred.AtVec(i) >= 0.5 {
			pred = 1.0
		}
		if pred == yTrue.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
