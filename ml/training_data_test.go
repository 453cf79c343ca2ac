package ml

import (
	"math/rand"
	"strings"
	"testing"
)

const sampleCSV = `f1,f2,f3,f4,label
0.1,0.1,0.2,0.1,saga
0.2,0.1,0.1,0.2,saga
0.9,0.8,0.9,0.7,kelor
0.8,0.9,0.7,0.9,kelor
0.5,0.5,0.5,0.5,tomat
`

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader(sampleCSV), FeatureColumns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Features) != 5 || len(ds.Labels) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(ds.Features))
	}
	want := []string{"saga", "kelor", "tomat"}
	for i, name := range want {
		if ds.Classes[i] != name {
			t.Fatalf("class %d: expected %s, got %s", i, name, ds.Classes[i])
		}
	}
	if ds.Labels[2] != 1 || ds.Labels[4] != 2 {
		t.Fatalf("unexpected labels: %v", ds.Labels)
	}
}

func TestLoadDatasetErrors(t *testing.T) {
	if _, err := LoadDataset(strings.NewReader("f1,f2,f3,f4,label\n"), FeatureColumns); err == nil {
		t.Fatal("expected empty dataset error")
	}
	if _, err := LoadDataset(strings.NewReader("0.1,0.2,0.3,0.4,saga\n0.1,x,0.3,0.4,saga\n"), FeatureColumns); err == nil {
		t.Fatal("expected parse error on data row")
	}
	if _, err := LoadDataset(strings.NewReader("0.1,0.2,saga\n"), FeatureColumns); err == nil {
		t.Fatal("expected field count error")
	}
}

func TestDatasetSplitAndAccuracy(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader(sampleCSV), FeatureColumns)
	if err != nil {
		t.Fatal(err)
	}
	trainX, trainY, testX, testY := ds.Split(0.2, rand.New(rand.NewSource(1)))
	if len(trainX) != 4 || len(testX) != 1 || len(trainY) != 4 || len(testY) != 1 {
		t.Fatalf("unexpected split sizes: %d/%d", len(trainX), len(testX))
	}

	model := NewDecisionTree(5)
	if err := model.Train(ds.Features, ds.Labels); err != nil {
		t.Fatal(err)
	}
	if acc := Accuracy(model, ds.Features, ds.Labels); acc != 1 {
		t.Fatalf("expected training accuracy 1, got %v", acc)
	}
	if acc := Accuracy(model, nil, nil); acc != 0 {
		t.Fatalf("expected 0 for empty set, got %v", acc)
	}
}
