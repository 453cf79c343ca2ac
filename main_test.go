package main

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"herbalif/config"
	"herbalif/ml"
)

func TestLoadModelMissingFileIsDegraded(t *testing.T) {
	cfg := config.Default()
	cfg.ML.ModelPath = filepath.Join(t.TempDir(), "model.json")

	if model := loadModel(cfg, zap.NewNop()); model != nil {
		t.Fatalf("expected nil model, got %T", model)
	}
}

func TestLoadModelFromDisk(t *testing.T) {
	tree := ml.NewDecisionTree(2)
	if err := tree.Train([][]float64{{0.1, 0, 0, 0}, {0.9, 0, 0, 0}}, []int{0, 1}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.ML.ModelPath = filepath.Join(t.TempDir(), "model.json")
	if err := tree.Save(cfg.ML.ModelPath); err != nil {
		t.Fatal(err)
	}

	model := loadModel(cfg, zap.NewNop())
	if model == nil {
		t.Fatal("expected model to load")
	}
	results, err := model.PredictBatch([][]float64{{0.95, 0, 0, 0}})
	if err != nil || results[0] != 1 {
		t.Fatalf("unexpected prediction %v (%v)", results, err)
	}
}
