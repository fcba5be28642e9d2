package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
)

// The classic three-class flower measurement table, bundled so the
// pipeline needs no external input files.
//
//go:embed iris.csv
var irisCSV []byte

// Dataset is an immutable feature matrix with one integer label per row.
type Dataset struct {
	X            [][]float64
	Y            []int
	FeatureNames []string
	ClassNames   []string
}

// NumSamples returns the number of rows.
func (d *Dataset) NumSamples() int { return len(d.X) }

// NumFeatures returns the number of columns.
func (d *Dataset) NumFeatures() int {
	if len(d.X) == 0 {
		return 0
	}
	return len(d.X[0])
}

// NumClasses returns the number of distinct labels.
func (d *Dataset) NumClasses() int { return len(d.ClassNames) }

// LoadIris parses the embedded iris table: 150 samples, 4 features,
// 3 classes. Species names are label-encoded in order of first
// appearance (setosa=0, versicolor=1, virginica=2).
func LoadIris() (*Dataset, error) {
	ds, err := ReadCSV(bytes.NewReader(irisCSV))
	if err != nil {
		return nil, fmt.Errorf("dataset: load iris: %w", err)
	}
	return ds, nil
}
