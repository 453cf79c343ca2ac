package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"herbalif/logging"
	"herbalif/ml"
)

func main() {
	dataPath := flag.String("data", "", "CSV of four feature columns followed by a label")
	modelPath := flag.String("model_path", "model.json", "model output path")
	maxDepth := flag.Int("max_depth", 5, "max tree depth")
	testRatio := flag.Float64("test_ratio", 0.2, "test ratio")
	seed := flag.Int64("seed", time.Now().UnixNano(), "shuffle seed")
	flag.Parse()

	logger, _ := logging.New(logging.Options{Level: "info"})
	defer logger.Sync()

	if *dataPath == "" {
		logger.Fatal("data is required")
	}

	file, err := os.Open(*dataPath)
	if err != nil {
		logger.Fatal("failed to open dataset", zap.String("path", *dataPath), zap.Error(err))
	}
	dataset, err := ml.LoadDataset(file, ml.FeatureColumns)
	file.Close()
	if err != nil {
		logger.Fatal("failed to load dataset", zap.String("path", *dataPath), zap.Error(err))
	}

	trainX, trainY, testX, testY := dataset.Split(*testRatio, rand.New(rand.NewSource(*seed)))

	model := ml.NewDecisionTree(*maxDepth)
	model.Classes = dataset.Classes
	if err := model.Train(trainX, trainY); err != nil {
		logger.Fatal("failed to train model", zap.Error(err))
	}

	logger.Info("model trained",
		zap.Int("rows", len(dataset.Features)),
		zap.Strings("classes", dataset.Classes),
		zap.Int("train", len(trainX)),
		zap.Int("test", len(testX)),
		zap.Float64("train_accuracy", ml.Accuracy(model, trainX, trainY)),
		zap.Float64("test_accuracy", ml.Accuracy(model, testX, testY)))

	if dir := filepath.Dir(*modelPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create model dir", zap.Error(err))
		}
	}
	if err := model.Save(*modelPath); err != nil {
		logger.Fatal("failed to save model", zap.String("path", *modelPath), zap.Error(err))
	}

	fmt.Printf("model saved to %s\n", *modelPath)
}
