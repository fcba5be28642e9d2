package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 1.0, Accuracy([]int{0, 1, 2}, []int{0, 1, 2}))
	assert.Equal(t, 0.5, Accuracy([]int{0, 1, 0, 1}, []int{0, 1, 1, 0}))
	assert.Zero(t, Accuracy(nil, nil))
	assert.Zero(t, Accuracy([]int{0}, []int{0, 1}))
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	cm, err := ConfusionMatrix(yTrue, yPred, 3)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cm.At(0, 0))
	assert.Equal(t, 1.0, cm.At(0, 1))
	assert.Equal(t, 2.0, cm.At(1, 1))
	assert.Equal(t, 1.0, cm.At(2, 2))
	assert.Equal(t, 1.0, cm.At(2, 0))
	assert.Zero(t, cm.At(1, 0))
}

func TestConfusionMatrixErrors(t *testing.T) {
	_, err := ConfusionMatrix([]int{0}, []int{0, 1}, 2)
	assert.Error(t, err)
	_, err = ConfusionMatrix([]int{0}, []int{0}, 0)
	assert.Error(t, err)
	_, err = ConfusionMatrix([]int{5}, []int{0}, 2)
	assert.Error(t, err)
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}

	cm, err := ConfusionMatrix(yTrue, yPred, 2)
	require.NoError(t, err)

	rep := PrecisionRecallF1(cm)
	assert.InDelta(t, 1.0, rep.Precision[0], 1e-9)
	assert.InDelta(t, 0.5, rep.Recall[0], 1e-9)
	assert.InDelta(t, 2.0/3.0, rep.F1[0], 1e-9)
	assert.InDelta(t, 2.0/3.0, rep.Precision[1], 1e-9)
	assert.InDelta(t, 1.0, rep.Recall[1], 1e-9)
	assert.InDelta(t, 0.8, rep.F1[1], 1e-9)
}

func TestPrecisionRecallF1AbsentClass(t *testing.T) {
	// class 1 never appears in truth or prediction
	cm, err := ConfusionMatrix([]int{0, 0}, []int{0, 0}, 2)
	require.NoError(t, err)

	rep := PrecisionRecallF1(cm)
	assert.Zero(t, rep.Precision[1])
	assert.Zero(t, rep.Recall[1])
	assert.Zero(t, rep.F1[1])
}
