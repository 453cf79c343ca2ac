package ml

// MLModel is a trainable classifier that scores one feature row at a time
// and persists itself to disk.
type MLModel interface {
	Train(features [][]float64, labels []int) error
	Predict(features []float64) (int, float64, error)
	Save(path string) error
	Load(path string) error
}

// ModelProvider is the capability the HTTP layer serves. It returns one
// result per input row; callers stringify the results they need.
type ModelProvider interface {
	PredictBatch(rows [][]float64) ([]any, error)
}
