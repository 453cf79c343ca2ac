package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Dataset is a labelled feature matrix. Classes[i] is the name of label i.
type Dataset struct {
	Features [][]float64
	Labels   []int
	Classes  []string
}

// LoadDataset reads CSV rows of `columns` floats followed by a label name.
// A first row whose feature cells are not numeric is treated as a header.
// Label names map to indices in first-seen order.
func LoadDataset(r io.Reader, columns int) (*Dataset, error) {
	if columns <= 0 {
		return nil, errors.New("columns must be positive")
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns + 1
	reader.TrimLeadingSpace = true

	ds := &Dataset{}
	index := make(map[string]int)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, columns)
		var parseErr error
		for i := 0; i < columns; i++ {
			row[i], parseErr = strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if parseErr != nil {
				break
			}
		}
		if parseErr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, parseErr)
		}

		name := strings.TrimSpace(record[columns])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty label", line)
		}
		label, ok := index[name]
		if !ok {
			label = len(ds.Classes)
			index[name] = label
			ds.Classes = append(ds.Classes, name)
		}
		ds.Features = append(ds.Features, row)
		ds.Labels = append(ds.Labels, label)
	}
	if len(ds.Features) == 0 {
		return nil, errors.New("dataset is empty")
	}
	return ds, nil
}

// Split shuffles with rnd and holds out testRatio of the rows. Ratios outside
// (0, 1) fall back to 0.2.
func (ds *Dataset) Split(testRatio float64, rnd *rand.Rand) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	indices := rnd.Perm(len(ds.Features))

	split := int(math.Round(float64(len(ds.Features)) * (1 - testRatio)))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, ds.Features[idx])
			trainY = append(trainY, ds.Labels[idx])
		} else {
			testX = append(testX, ds.Features[idx])
			testY = append(testY, ds.Labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

// Accuracy is the share of rows model labels correctly. Rows that fail to
// predict count as wrong.
func Accuracy(model MLModel, features [][]float64, labels []int) float64 {
	if len(features) == 0 {
		return 0
	}
	correct := 0
	for i, row := range features {
		label, _, err := model.Predict(row)
		if err == nil && label == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(features))
}
