package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => use all features, >0 => number of features to sample when looking for split
	MinImpurityDecrease float64 // minimal impurity decrease to accept a split
	RandomState         int64   // seed for randomness (feature subsampling)

	// internals
	root    *dtNode
	classes []int // unique class labels (order used by probas)
}

// dtNode holds a node in the tree. Fields are exported so a fitted tree
// survives a gob round trip.
type dtNode struct {
	IsLeaf    bool
	Feature   int
	Threshold float64 // numeric threshold: x <= threshold => left
	IsCat     bool    // true if this split is a categorical equality split (x == threshold)
	Left      *dtNode
	Right     *dtNode

	// leaf data
	N         int
	Probas    []float64 // probability distribution across classes (aligned with tree.classes)
	PredIndex int       // index into classes for predicted class (majority)
}

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MaxDepth:            0, // 0 => no explicit max (stopping by other criteria)
		MinSamplesSplit:     2,
		MinSamplesLeaf:      1,
		Criterion:           "gini",
		MaxFeatures:         0,
		MinImpurityDecrease: 0.0,
		RandomState:         time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API: Fit / Predict / PredictProba / Save/Load
// ---------------------------

// Fit trains the decision tree on X (n x p) and y (n labels as ints).
// Missing values must be math.NaN(). Categorical features: encode
// categories as integers (0,1,2...) in the corresponding float64 entry.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains on the rows of X selected by sampleIdx. Rows may
// repeat, which is how the forest feeds bootstrap samples without
// copying the data.
func (t *DecisionTreeClassifier) FitIndices(X [][]float64, y []int, sampleIdx []int) error {
	if len(X) == 0 {
		return errors.New("dtree: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("dtree: X and y length mismatch")
	}
	if len(sampleIdx) == 0 {
		return errors.New("dtree: empty sample index set")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	for _, ii := range sampleIdx {
		if ii < 0 || ii >= n {
			return errors.New("dtree: sample index out of range")
		}
	}

	// collect classes from the full label vector so every tree in a
	// forest votes over the same label set
	classMap := map[int]int{}
	t.classes = nil
	for _, lab := range y {
		if _, ok := classMap[lab]; !ok {
			classMap[lab] = len(t.classes)
			t.classes = append(t.classes, lab)
		}
	}

	rnd := rand.New(rand.NewSource(t.RandomState))

	impurityFunc := func(counts []int) float64 {
		if t.Criterion == "entropy" {
			return entropyFromCounts(counts)
		}
		return giniFromCounts(counts)
	}

	idx := append([]int(nil), sampleIdx...)
	t.root = t.buildNode(X, y, idx, 0, p, len(t.classes), impurityFunc, rnd)
	return nil
}

// Predict returns predicted class labels aligned with the labels the tree was trained on.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		probs := t.predictProbaSingle(X[i])
		maxIdx := 0
		for j := 1; j < len(probs); j++ {
			if probs[j] > probs[maxIdx] {
				maxIdx = j
			}
		}
		out[i] = t.classes[maxIdx]
	}
	return out
}

// PredictProba returns the per-class probability vectors for rows in X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.predictProbaSingle(X[i])
	}
	return out
}

// Classes returns the label values in proba order.
func (t *DecisionTreeClassifier) Classes() []int {
	return append([]int(nil), t.classes...)
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (t *DecisionTreeClassifier) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	for _, v := range []any{
		t.MaxDepth, t.MinSamplesSplit, t.MinSamplesLeaf, t.Criterion,
		t.MaxFeatures, t.MinImpurityDecrease, t.RandomState, t.classes, t.root,
	} {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (t *DecisionTreeClassifier) UnmarshalBinary(data []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	for _, v := range []any{
		&t.MaxDepth, &t.MinSamplesSplit, &t.MinSamplesLeaf, &t.Criterion,
		&t.MaxFeatures, &t.MinImpurityDecrease, &t.RandomState, &t.classes, &t.root,
	} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

// splitResult holds the outcome of a single feature's best split search.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	isCat     bool
	leftIdx   []int
	rightIdx  []int
}

// pair is a value and its original index.
type pair struct {
	v float64
	i int
}

func (t *DecisionTreeClassifier) buildNode(X [][]float64, y []int, idx []int, depth, p, nClasses int, impurity func([]int) float64, rnd *rand.Rand) *dtNode {
	node := &dtNode{N: len(idx)}

	counts := make([]int, nClasses)
	for _, ii := range idx {
		ci := classIndex(y[ii], t.classes)
		counts[ci]++
	}
	// make leaf if pure or too few samples or depth reached
	if isPure(counts) || (t.MinSamplesSplit > 0 && len(idx) < t.MinSamplesSplit) {
		return leafNode(node, counts)
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return leafNode(node, counts)
	}

	// determine features to try
	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		for i := 0; i < p; i++ {
			j := i + rnd.Intn(p-i)
			featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
		}
		featIndices = featIndices[:t.MaxFeatures]
	}

	parentImpurity := impurity(counts)
	bestGain := 0.0
	bestResult := splitResult{feature: -1}

	results := make(chan splitResult, len(featIndices))
	var wg sync.WaitGroup

	// search the best split per feature in parallel
	for _, f := range featIndices {
		wg.Add(1)
		go func(f int) {
			defer wg.Done()
			results <- t.findBestSplitForFeature(X, y, idx, f, nClasses, parentImpurity, impurity)
		}(f)
	}
	wg.Wait()
	close(results)

	// ties between features break toward the lower feature index so
	// the tree does not depend on goroutine arrival order
	for result := range results {
		if result.feature == -1 {
			continue
		}
		if result.gain > bestGain ||
			(result.gain == bestGain && bestResult.feature != -1 && result.feature < bestResult.feature) {
			bestGain = result.gain
			bestResult = result
		}
	}

	if bestResult.feature == -1 || bestGain <= t.MinImpurityDecrease {
		return leafNode(node, counts)
	}

	node.IsLeaf = false
	node.Feature = bestResult.feature
	node.Threshold = bestResult.threshold
	node.IsCat = bestResult.isCat
	node.Left = t.buildNode(X, y, bestResult.leftIdx, depth+1, p, nClasses, impurity, rnd)
	node.Right = t.buildNode(X, y, bestResult.rightIdx, depth+1, p, nClasses, impurity, rnd)
	return node
}

func leafNode(node *dtNode, counts []int) *dtNode {
	node.IsLeaf = true
	node.Probas = countsToProbas(counts)
	node.PredIndex = argmax(counts)
	return node
}

// findBestSplitForFeature is a goroutine-safe helper that finds the best split for a single feature.
func (t *DecisionTreeClassifier) findBestSplitForFeature(X [][]float64, y []int, idx []int, f, nClasses int, parentImpurity float64, impurity func([]int) float64) splitResult {
	result := splitResult{gain: 0.0, feature: -1}

	tmp := make([]pair, 0, len(idx))
	for _, ii := range idx {
		tmp = append(tmp, pair{X[ii][f], ii})
	}

	// handle missing values: separate NaNs
	nans := make([]int, 0)
	valid := make([]pair, 0, len(tmp))
	for _, pval := range tmp {
		if math.IsNaN(pval.v) {
			nans = append(nans, pval.i)
		} else {
			valid = append(valid, pval)
		}
	}
	if len(valid) == 0 {
		return result
	}

	// try categorical-equality splits if values are integer-like and small unique set
	uniqueVals := uniqueValuesFromPairs(valid)
	tryCat := false
	if len(uniqueVals) <= 30 {
		intLike := true
		for _, v := range uniqueVals {
			if !almostInt(v) {
				intLike = false
				break
			}
		}
		tryCat = intLike
	}

	try := func(left, right []int, thr float64, isCat bool) {
		if !okSplit(left, right, t.MinSamplesLeaf) {
			return
		}
		lc := countsFromIndices(y, left, nClasses, t.classes)
		rc := countsFromIndices(y, right, nClasses, t.classes)
		weighted := (float64(len(left))/float64(len(idx)))*impurity(lc) +
			(float64(len(right))/float64(len(idx)))*impurity(rc)
		gain := parentImpurity - weighted
		if gain > result.gain {
			result = splitResult{gain: gain, feature: f, threshold: thr, isCat: isCat, leftIdx: left, rightIdx: right}
		}
	}

	if tryCat {
		for _, uv := range uniqueVals {
			leftIdx := make([]int, 0, len(idx))
			rightIdx := make([]int, 0, len(idx))
			for _, pval := range valid {
				if pval.v == uv {
					leftIdx = append(leftIdx, pval.i)
				} else {
					rightIdx = append(rightIdx, pval.i)
				}
			}
			// NaNs on left, then on right
			try(append(append([]int(nil), leftIdx...), nans...), append([]int(nil), rightIdx...), uv, true)
			try(append([]int(nil), leftIdx...), append(append([]int(nil), rightIdx...), nans...), uv, true)
		}
	}

	// numeric splits: sort valid and scan thresholds between distinct values
	sort.Slice(valid, func(a, b int) bool { return valid[a].v < valid[b].v })
	for s := 1; s < len(valid); s++ {
		if valid[s].v == valid[s-1].v {
			continue
		}
		thr := (valid[s-1].v + valid[s].v) / 2.0
		try(append(append([]int(nil), indicesFromPairs(valid[:s])...), nans...), indicesFromPairs(valid[s:]), thr, false)
		try(indicesFromPairs(valid[:s]), append(append([]int(nil), indicesFromPairs(valid[s:])...), nans...), thr, false)
	}
	return result
}

// ---------------------------
// Helpers used in buildNode
// ---------------------------

func almostInt(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	_, frac := math.Modf(math.Abs(v))
	return frac < 1e-9 || frac > 1-1e-9
}

func uniqueValuesFromPairs(pairs []pair) []float64 {
	m := make(map[float64]struct{})
	out := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := m[p.v]; !ok {
			m[p.v] = struct{}{}
			out = append(out, p.v)
		}
	}
	sort.Float64s(out)
	return out
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}

func countsFromIndices(y []int, idx []int, nClasses int, classes []int) []int {
	counts := make([]int, nClasses)
	for _, ii := range idx {
		counts[classIndex(y[ii], classes)]++
	}
	return counts
}

func okSplit(left, right []int, minLeaf int) bool {
	return len(left) >= minLeaf && len(right) >= minLeaf
}

// ---------------------------
// Prediction helper
// ---------------------------

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if t.root == nil {
		p := make([]float64, len(t.classes))
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return p
	}
	node := t.root
	for !node.IsLeaf {
		val := x[node.Feature]
		if math.IsNaN(val) {
			// missing: choose branch with more samples (heuristic)
			ln, rn := 0, 0
			if node.Left != nil {
				ln = node.Left.N
			}
			if node.Right != nil {
				rn = node.Right.N
			}
			if ln >= rn {
				node = node.Left
			} else {
				node = node.Right
			}
			continue
		}
		if node.IsCat {
			if val == node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		} else {
			if val <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
	}
	return node.Probas
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = float64(counts[i]) / float64(n)
	}
	return p
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

// classIndex returns index of label in classes slice.
func classIndex(label int, classes []int) int {
	for i, v := range classes {
		if v == label {
			return i
		}
	}
	return 0
}
