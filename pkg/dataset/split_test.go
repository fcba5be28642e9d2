package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTestSplit(t *testing.T) {
	ds, err := LoadIris()
	require.NoError(t, err)

	s, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, s.XTest, 30)
	assert.Len(t, s.YTest, 30)
	assert.Len(t, s.XTrain, 120)
	assert.Len(t, s.YTrain, 120)
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	ds, err := LoadIris()
	require.NoError(t, err)

	a, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	b, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, a.YTrain, b.YTrain)
	assert.Equal(t, a.YTest, b.YTest)
	assert.Equal(t, a.XTest, b.XTest)

	// a different seed shuffles differently
	c, err := TrainTestSplit(ds, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, a.YTest, c.YTest)
}

func TestTrainTestSplitErrors(t *testing.T) {
	ds, err := LoadIris()
	require.NoError(t, err)

	_, err = TrainTestSplit(nil, 0.2, 42)
	assert.Error(t, err)

	_, err = TrainTestSplit(ds, 0, 42)
	assert.Error(t, err)

	_, err = TrainTestSplit(ds, 1, 42)
	assert.Error(t, err)

	// ratio that rounds to an empty test partition
	tiny := &Dataset{X: [][]float64{{1}, {2}}, Y: []int{0, 1}}
	_, err = TrainTestSplit(tiny, 0.1, 42)
	assert.Error(t, err)
}

func TestKFoldSplit(t *testing.T) {
	folds, err := KFoldSplit(10, 3, 42)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := map[int]bool{}
	total := 0
	for _, fold := range folds {
		total += len(fold)
		for _, idx := range fold {
			assert.False(t, seen[idx], "index %d in two folds", idx)
			seen[idx] = true
		}
	}
	assert.Equal(t, 10, total)

	_, err = KFoldSplit(10, 1, 42)
	assert.Error(t, err)
	_, err = KFoldSplit(3, 5, 42)
	assert.Error(t, err)
}
