package ml

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadModel(t *testing.T) {
	model := trainedTree(t)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := model.Save(path); err != nil {
		t.Fatal(err)
	}

	provider, err := LoadModel(ModelTypeDecisionTree, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := provider.PredictBatch([][]float64{{0.1, 0.1}})
	if err != nil || len(results) != 1 {
		t.Fatalf("unexpected predict result %v (%v)", results, err)
	}
}

func TestLoadModelErrors(t *testing.T) {
	if _, err := LoadModel("random_forest", "model.json"); !errors.Is(err, ErrUnsupportedModelType) {
		t.Fatalf("expected ErrUnsupportedModelType, got %v", err)
	}
	if _, err := LoadModel(ModelTypeDecisionTree, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
