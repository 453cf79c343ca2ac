package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"runtime/debug"

	"herbalif/ml"
)

// Expected failures of a prediction request. Anything else returned by
// Predictor.Predict is an unexpected runtime failure.
var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrNoFile           = errors.New("no file uploaded")
)

// PanicError carries a panic raised by the model or extractor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// UploadSource yields the uploaded file. It returns ErrNoFile when the request
// has no file part.
type UploadSource func() (multipart.File, *multipart.FileHeader, error)

// Outcome is a successful prediction.
type Outcome struct {
	Prediction string
	ImageName  string
}

// Predictor serves one immutable model handle. A nil model is a permanent
// degraded state.
type Predictor struct {
	model    ml.ModelProvider
	features ml.FeatureExtractor
}

func NewPredictor(model ml.ModelProvider, features ml.FeatureExtractor) *Predictor {
	if features == nil {
		features = ml.NewRandomFeatures(ml.FeatureColumns)
	}
	return &Predictor{model: model, features: features}
}

func (p *Predictor) Available() bool {
	return p != nil && p.model != nil
}

// Predict checks the model, then the upload, then runs the model on the
// extracted features and stringifies the first result.
func (p *Predictor) Predict(upload UploadSource) (Outcome, error) {
	if !p.Available() {
		return Outcome{}, ErrModelUnavailable
	}

	file, header, err := upload()
	if err != nil {
		return Outcome{}, err
	}
	defer file.Close()

	result, err := p.run(file)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Prediction: result, ImageName: header.Filename}, nil
}

func (p *Predictor) run(file multipart.File) (prediction string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	rows, err := p.features.Extract(file)
	if err != nil {
		return "", err
	}
	results, err := p.model.PredictBatch(rows)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("model returned no predictions")
	}
	return fmt.Sprint(results[0]), nil
}

// maxUploadMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const maxUploadMemory = 32 << 20

// formFile reads the "file" part of a multipart request. A body that cannot be
// parsed as a multipart form (not multipart, no boundary, truncated) counts as
// having no file; only an oversized form stays a distinct error.
func formFile(r *http.Request) UploadSource {
	return func() (multipart.File, *multipart.FileHeader, error) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			if errors.Is(err, multipart.ErrMessageTooLarge) {
				return nil, nil, err
			}
			return nil, nil, ErrNoFile
		}
		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, ErrNoFile
		}
		return file, header, err
	}
}
