package dataset

import (
	"errors"
	"fmt"
	"math/rand"
)

// Split holds disjoint train and test partitions of a dataset.
type Split struct {
	XTrain [][]float64
	YTrain []int
	XTest  [][]float64
	YTest  []int
}

// TrainTestSplit partitions a dataset by a seeded shuffle so the same
// seed always yields the same partition. testRatio must be in (0, 1)
// and both partitions must end up non-empty.
func TrainTestSplit(ds *Dataset, testRatio float64, seed int64) (*Split, error) {
	if ds == nil || len(ds.X) == 0 {
		return nil, errors.New("dataset: empty dataset")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("dataset: test ratio %v outside (0,1)", testRatio)
	}

	n := len(ds.X)
	nTest := int(float64(n) * testRatio)
	if nTest == 0 || nTest == n {
		return nil, fmt.Errorf("dataset: ratio %v leaves an empty partition for %d samples", testRatio, n)
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	s := &Split{
		XTrain: make([][]float64, 0, n-nTest),
		YTrain: make([]int, 0, n-nTest),
		XTest:  make([][]float64, 0, nTest),
		YTest:  make([]int, 0, nTest),
	}
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, ds.X[idx])
			s.YTest = append(s.YTest, ds.Y[idx])
		} else {
			s.XTrain = append(s.XTrain, ds.X[idx])
			s.YTrain = append(s.YTrain, ds.Y[idx])
		}
	}
	return s, nil
}

// KFoldSplit yields k folds of sample indices from a seeded shuffle.
func KFoldSplit(n, k int, seed int64) ([][]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("dataset: k=%d invalid for %d samples", k, n)
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i, idx := range indices {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds, nil
}
