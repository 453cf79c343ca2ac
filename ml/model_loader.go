package ml

import (
	"errors"
	"fmt"
)

const ModelTypeDecisionTree = "decision_tree"

var ErrUnsupportedModelType = errors.New("unsupported model type")

// LoadModel deserializes the artifact at path into a model of the given type.
func LoadModel(modelType, path string) (ModelProvider, error) {
	switch modelType {
	case ModelTypeDecisionTree, "":
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelType, modelType)
	}
}
