package model

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Accuracy is the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix returns an nClasses x nClasses matrix where entry
// (i, j) counts samples of true class i predicted as class j. Labels
// must lie in [0, nClasses).
func ConfusionMatrix(yTrue, yPred []int, nClasses int) (*mat.Dense, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.New("metrics: yTrue and yPred length mismatch")
	}
	if nClasses <= 0 {
		return nil, errors.New("metrics: nClasses must be positive")
	}
	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= nClasses || p < 0 || p >= nClasses {
			return nil, errors.New("metrics: label outside [0, nClasses)")
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// ClassReport holds per-class precision, recall and F1.
type ClassReport struct {
	Precision []float64
	Recall    []float64
	F1        []float64
}

// PrecisionRecallF1 derives per-class scores from a confusion matrix.
// Classes with no predicted (or no true) samples score zero.
func PrecisionRecallF1(cm *mat.Dense) ClassReport {
	n, _ := cm.Dims()
	rep := ClassReport{
		Precision: make([]float64, n),
		Recall:    make([]float64, n),
		F1:        make([]float64, n),
	}
	for c := 0; c < n; c++ {
		tp := cm.At(c, c)
		predicted := mat.Sum(cm.ColView(c))
		actual := mat.Sum(cm.RowView(c))
		if predicted > 0 {
			rep.Precision[c] = tp / predicted
		}
		if actual > 0 {
			rep.Recall[c] = tp / actual
		}
		if rep.Precision[c]+rep.Recall[c] > 0 {
			rep.F1[c] = 2 * rep.Precision[c] * rep.Recall[c] / (rep.Precision[c] + rep.Recall[c])
		}
	}
	return rep
}
