package ml

import (
	"errors"
	"io"
	"math/rand"
)

// FeatureColumns is the input width the served model expects.
const FeatureColumns = 4

// FeatureExtractor turns an uploaded file into model input rows.
type FeatureExtractor interface {
	Extract(upload io.Reader) ([][]float64, error)
}

// RandomFeatures is a stand-in extractor. It never reads the upload and
// returns a single row of uniform values in [0, 1), so predictions do not
// depend on the image.
// TODO: replace with image feature extraction matching the trained model's inputs.
type RandomFeatures struct {
	Columns int
	float   func() float64
}

func NewRandomFeatures(columns int) *RandomFeatures {
	return &RandomFeatures{Columns: columns, float: rand.Float64}
}

func (f *RandomFeatures) Extract(_ io.Reader) ([][]float64, error) {
	if f.Columns <= 0 {
		return nil, errors.New("feature columns must be positive")
	}
	next := f.float
	if next == nil {
		next = rand.Float64
	}
	row := make([]float64, f.Columns)
	for i := range row {
		row[i] = next()
	}
	return [][]float64{row}, nil
}
