package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryItemOnce(t *testing.T) {
	const n = 1000
	touched := make([]int32, n)

	Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i, count := range touched {
		if count != 1 {
			t.Fatalf("item %d processed %d times, want 1", i, count)
		}
	}
}

func TestParallelizeZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) {
		if end > start {
			called = true
		}
	})
	if called {
		t.Error("fn received a non-empty range for zero items")
	}
}

func TestParallelizeWithThresholdRunsSequentiallyBelowThreshold(t *testing.T) {
	var calls, total int32

	ParallelizeWithThreshold(3, 8, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		atomic.AddInt32(&total, int32(end-start))
	})

	if calls != 1 {
		t.Errorf("got %d chunk calls, want 1 sequential call", calls)
	}
	if total != 3 {
		t.Errorf("covered %d items, want 3", total)
	}
}

func TestParallelizeWithThresholdFansOutAboveThreshold(t *testing.T) {
	const n = 500
	touched := make([]int32, n)

	ParallelizeWithThreshold(n, 8, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&touched[i], 1)
		}
	})

	for i, count := range touched {
		if count != 1 {
			t.Fatalf("item %d processed %d times, want 1", i, count)
		}
	}
}
