// Package modelselection provides stratified cross-validation and the
// exhaustive hyperparameter search that selects one fitted pipeline per
// feature-set variant.
package modelselection

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// Fold is one train/validation partition of the searched samples.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedKFold splits binary labels into k folds that each preserve the
// class ratio. Shuffling is driven entirely by Seed.
type StratifiedKFold struct {
	NSplits int
	Seed    uint64
}

// NewStratifiedKFold returns a splitter with the given fold count and seed.
func NewStratifiedKFold(nSplits int, seed uint64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Seed: seed}
}

// Split assigns every sample to exactly one validation fold. Each class must
// have at least NSplits members so every fold sees both classes.
func (s *StratifiedKFold) Split(y *mat.VecDense) ([]Fold, error) {
	const op = "StratifiedKFold.Split"

	if s.NSplits < 2 {
		return nil, errors.NewConfigurationError(op, "n_splits", s.NSplits, "must be at least 2")
	}

	var positives, negatives []int
	for i := 0; i < y.Len(); i++ {
		switch y.AtVec(i) {
		case 0:
			negatives = append(negatives, i)
		case 1:
			positives = append(positives, i)
		default:
			return nil, errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	if len(positives) < s.NSplits || len(negatives) < s.NSplits {
		return nil, errors.NewDataIntegrityError(op, "labels",
			fmt.Sprintf("each class needs at least %d members to form %d stratified folds (%d positives, %d negatives)",
				s.NSplits, s.NSplits, len(positives), len(negatives)))
	}

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))
	assignment := make([]int, y.Len())
	for _, class := range [][]int{negatives, positives} {
		indices := class
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for k, idx := range indices {
			assignment[idx] = k % s.NSplits
		}
	}

	folds := make([]Fold, s.NSplits)
	for idx, fold := range assignment {
		for f := range folds {
			if f == fold {
				folds[f].Test = append(folds[f].Test, idx)
			} else {
				folds[f].Train = append(folds[f].Train, idx)
			}
		}
	}
	for f := range folds {
		sort.Ints(folds[f].Train)
		sort.Ints(folds[f].Test)
	}
	return folds, nil
}
