package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addOne struct{ fitted bool }

func (a *addOne) Fit(X [][]float64) error { a.fitted = true; return nil }
func (a *addOne) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = []float64{X[i][0] + 1}
	}
	return out
}

type failing struct{}

func (failing) Fit(X [][]float64) error             { return errors.New("boom") }
func (failing) Transform(X [][]float64) [][]float64 { return X }

func TestPipelineChains(t *testing.T) {
	a, b := &addOne{}, &addOne{}
	p := New(a, b)

	out, err := p.FitTransform([][]float64{{0}})
	require.NoError(t, err)
	assert.True(t, a.fitted)
	assert.True(t, b.fitted)
	assert.Equal(t, [][]float64{{2}}, out)

	assert.Equal(t, [][]float64{{12}}, p.Transform([][]float64{{10}}))
}

func TestPipelineFitError(t *testing.T) {
	_, err := New(&addOne{}, failing{}).FitTransform([][]float64{{0}})
	assert.Error(t, err)
}
