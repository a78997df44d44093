package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/genoml/pkg/errors"
)

// StratifiedSplit partitions sample indices into train and test sets while
// preserving the class ratio of the binary label vector. The shuffle is
// driven entirely by seed, so a fixed (labels, fraction, seed) triple always
// yields the same partition. Both returned slices are sorted ascending.
func StratifiedSplit(y *mat.VecDense, testFraction float64, seed uint64) (train, test []int, err error) {
	const op = "dataset.StratifiedSplit"

	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.NewConfigurationError(op, "test_fraction", testFraction, "must be in (0, 1)")
	}

	var positives, negatives []int
	for i := 0; i < y.Len(); i++ {
		switch y.AtVec(i) {
		case 0:
			negatives = append(negatives, i)
		case 1:
			positives = append(positives, i)
		default:
			return nil, nil, errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	if len(positives) == 0 || len(negatives) == 0 {
		return nil, nil, errors.NewDataIntegrityError(op, "labels", "both classes must be present to stratify")
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	for _, class := range [][]int{negatives, positives} {
		indices := class
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(math.Round(testFraction * float64(len(indices))))
		// Keep at least one sample of each class on both sides.
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}

		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}
