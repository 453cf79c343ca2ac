package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func trainedTree(t *testing.T) *DecisionTree {
	t.Helper()
	features := [][]float64{
		{0.1, 0.2},
		{0.2, 0.1},
		{0.9, 0.8},
		{0.8, 0.9},
	}
	labels := []int{0, 0, 2, 2}

	model := NewDecisionTree(2)
	if err := model.Train(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return model
}

func TestDecisionTreeTrainPredict(t *testing.T) {
	model := trainedTree(t)

	label, confidence, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}
	if confidence <= 0 {
		t.Fatalf("expected confidence > 0")
	}

	label, _, err = model.Predict([]float64{0.85, 0.85})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 2 {
		t.Fatalf("expected label 2, got %d", label)
	}
}

func TestDecisionTreeDeepSubtreeIndices(t *testing.T) {
	features := [][]float64{{0.1}, {0.2}, {0.3}, {0.4}, {0.6}, {0.7}, {0.8}, {0.9}}
	labels := []int{0, 0, 1, 1, 2, 2, 3, 3}

	model := NewDecisionTree(4)
	if err := model.Train(features, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range features {
		label, _, err := model.Predict(row)
		if err != nil {
			t.Fatalf("row %d: unexpected error: %v", i, err)
		}
		if label != labels[i] {
			t.Fatalf("row %d: expected label %d, got %d", i, labels[i], label)
		}
	}
}

func TestDecisionTreePredictUntrained(t *testing.T) {
	if _, _, err := (&DecisionTree{}).Predict([]float64{1}); !errors.Is(err, ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained, got %v", err)
	}
}

func TestDecisionTreeTrainRejectsMismatch(t *testing.T) {
	if err := NewDecisionTree(2).Train([][]float64{{1}}, []int{0, 1}); err == nil {
		t.Fatal("expected size mismatch error")
	}
	if err := NewDecisionTree(2).Train([][]float64{{1, 2}, {1}}, []int{0, 1}); err == nil {
		t.Fatal("expected ragged row error")
	}
}

func TestDecisionTreePredictBatchUsesClassNames(t *testing.T) {
	model := trainedTree(t)
	model.Classes = []string{"saga", "beras", "kelor"}

	results, err := model.PredictBatch([][]float64{{0.1, 0.1}, {0.9, 0.9}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0] != "saga" || results[1] != "kelor" {
		t.Fatalf("unexpected results: %v", results)
	}

	model.Classes = nil
	results, err = model.PredictBatch([][]float64{{0.9, 0.9}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0] != 2 {
		t.Fatalf("expected integer label 2, got %v", results[0])
	}
}

func TestDecisionTreeSaveLoad(t *testing.T) {
	model := trainedTree(t)
	model.Classes = []string{"saga", "beras", "kelor"}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := model.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := &DecisionTree{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	results, err := loaded.PredictBatch([][]float64{{0.9, 0.9}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0] != "kelor" {
		t.Fatalf("expected kelor, got %v", results[0])
	}
}

func TestDecisionTreeLoadLegacyNodeArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.model")
	legacy := `[{"feature_idx":0,"threshold":0.5,"left_child":1,"right_child":2,"class_label":0,"is_leaf":false},
{"feature_idx":-1,"left_child":-1,"right_child":-1,"class_label":0,"is_leaf":true},
{"feature_idx":-1,"left_child":-1,"right_child":-1,"class_label":1,"is_leaf":true}]`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	model := &DecisionTree{}
	if err := model.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	label, _, err := model.Predict([]float64{0.7})
	if err != nil || label != 1 {
		t.Fatalf("expected label 1, got %d (%v)", label, err)
	}
}

func TestDecisionTreeLoadRejectsBadArtifacts(t *testing.T) {
	cases := map[string]string{
		"garbage":     "not json",
		"empty":       `{"type":"decision_tree","nodes":[]}`,
		"wrong type":  `{"type":"svm","nodes":[{"is_leaf":true}]}`,
		"bad child":   `{"nodes":[{"feature_idx":0,"left_child":5,"right_child":6}]}`,
		"self parent": `{"nodes":[{"feature_idx":0,"left_child":0,"right_child":0}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatal(err)
			}
			if err := (&DecisionTree{}).Load(path); !errors.Is(err, ErrInvalidModel) {
				t.Fatalf("expected ErrInvalidModel, got %v", err)
			}
		})
	}
}
