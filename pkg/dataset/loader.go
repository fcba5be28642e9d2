package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses a table whose last column is the class label and whose
// remaining columns are numeric features. The first row is treated as a
// header. Labels are encoded as integers in order of first appearance.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("dataset: need at least one feature column and a label column")
	}

	ds := &Dataset{FeatureNames: header[:len(header)-1]}
	classIdx := map[string]int{}

	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("dataset: line %d: got %d columns, want %d", line, len(rec), len(header))
		}

		x := make([]float64, len(rec)-1)
		for j, s := range rec[:len(rec)-1] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: line %d column %q: %w", line, header[j], err)
			}
			x[j] = v
		}

		label := rec[len(rec)-1]
		ci, ok := classIdx[label]
		if !ok {
			ci = len(ds.ClassNames)
			classIdx[label] = ci
			ds.ClassNames = append(ds.ClassNames, label)
		}

		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, ci)
	}

	if len(ds.X) == 0 {
		return nil, errors.New("dataset: no samples")
	}
	return ds, nil
}

// ReadCSVFile is ReadCSV over a file on disk.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
