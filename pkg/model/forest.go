package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// RandomForest for classification.
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees []*DecisionTreeClassifier
}

// RandomForestOption functional config for RandomForest.
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) RandomForestOption {
	return func(rf *RandomForest) { rf.MinSamplesSplit = n }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithSeed(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the random forest. Each tree gets its own bootstrap sample
// of row indices and a seed derived from the forest seed, so the fitted
// forest is reproducible for a fixed RandomState. Trees are trained in
// parallel.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.New("randomforest: NEstimators must be positive")
	}

	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, rf.NEstimators)

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Per-tree rand source keyed off the forest seed: no
			// contention and no dependence on goroutine scheduling.
			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(idx)))

			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(rf.RandomState+int64(idx)),
			)
			if err := tree.FitIndices(X, y, sampleIndices); err != nil {
				errCh <- err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the majority vote of all trees. Ties break toward the
// smaller class label so predictions stay deterministic.
func (rf *RandomForest) Predict(X [][]float64) []int {
	n := len(X)
	finalPred := make([]int, n)
	if len(rf.Trees) == 0 {
		return finalPred
	}

	// Fan out per-tree predictions, keyed by tree index.
	allPreds := make([][]int, len(rf.Trees))
	var wg sync.WaitGroup
	for i, tree := range rf.Trees {
		wg.Add(1)
		go func(i int, t *DecisionTreeClassifier) {
			defer wg.Done()
			allPreds[i] = t.Predict(X)
		}(i, tree)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		counts := make(map[int]int)
		for j := range rf.Trees {
			counts[allPreds[j][i]]++
		}
		bestClass, maxCount := -1, -1
		for cls, cnt := range counts {
			if cnt > maxCount || (cnt == maxCount && cls < bestClass) {
				bestClass, maxCount = cls, cnt
			}
		}
		finalPred[i] = bestClass
	}
	return finalPred
}

// MarshalBinary implements encoding.BinaryMarshaler using gob. The
// hyperparameters and every fitted tree are encoded, so a decoded
// forest predicts identically to the original.
func (rf *RandomForest) MarshalBinary() ([]byte, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("randomforest: not fitted")
	}
	trees := make([][]byte, len(rf.Trees))
	for i, tree := range rf.Trees {
		b, err := tree.MarshalBinary()
		if err != nil {
			return nil, err
		}
		trees[i] = b
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []any{
		rf.NEstimators, rf.MaxDepth, rf.MinSamplesSplit, rf.MaxFeatures,
		rf.Bootstrap, rf.RandomState, trees,
	} {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (rf *RandomForest) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	var trees [][]byte
	for _, v := range []any{
		&rf.NEstimators, &rf.MaxDepth, &rf.MinSamplesSplit, &rf.MaxFeatures,
		&rf.Bootstrap, &rf.RandomState, &trees,
	} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}

	rf.Trees = make([]*DecisionTreeClassifier, len(trees))
	for i, b := range trees {
		tree := &DecisionTreeClassifier{}
		if err := tree.UnmarshalBinary(b); err != nil {
			return err
		}
		rf.Trees[i] = tree
	}
	return nil
}
