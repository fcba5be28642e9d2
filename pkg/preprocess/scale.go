package preprocess

import (
	"errors"
	"math"
)

// StandardScaler standardizes each column to zero mean and unit
// variance. Fit on the training partition only, then transform both
// partitions with the learned statistics.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit learns per-column mean and standard deviation.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return errors.New("preprocess: empty X")
	}
	rows, cols := len(X), len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	for j := 0; j < cols; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < rows; i++ {
			v := X[i][j]
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(rows)
		s.Mean[j] = mean
		s.Std[j] = math.Sqrt(sumSq/float64(rows) - mean*mean)
	}
	return nil
}

// Transform returns a scaled copy of X. Columns with zero variance map
// to zero.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, len(X[i]))
		for j := range X[i] {
			if j < len(s.Std) && s.Std[j] != 0 {
				row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
			}
		}
		out[i] = row
	}
	return out
}
