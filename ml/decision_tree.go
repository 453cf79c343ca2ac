package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

const defaultMaxDepth = 3

var (
	ErrNotTrained   = errors.New("model not trained")
	ErrInvalidModel = errors.New("invalid model artifact")
)

// DecisionTree is a CART-style classifier over float features. Classes, when
// set, names the integer labels so predictions read as plant names.
type DecisionTree struct {
	MaxDepth int
	Classes  []string
	nodes    []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	Confidence float64 `json:"confidence,omitempty"`
	IsLeaf     bool    `json:"is_leaf"`
}

type modelFile struct {
	Type    string     `json:"type"`
	Classes []string   `json:"classes,omitempty"`
	Nodes   []TreeNode `json:"nodes"`
}

func NewDecisionTree(maxDepth int) *DecisionTree {
	return &DecisionTree{MaxDepth: maxDepth}
}

func (dt *DecisionTree) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	width := len(features[0])
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	maxDepth := dt.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	dt.nodes = dt.buildNode(features, labels, 0, maxDepth)
	return nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, ErrNotTrained
	}
	idx := 0
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, node.Confidence, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, fmt.Errorf("feature index %d out of range for %d features", node.FeatureIdx, len(features))
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
	return 0, 0, errors.New("invalid tree state: cycle")
}

// PredictBatch implements ModelProvider. Each result is the class name when
// the label is covered by Classes, otherwise the integer label.
func (dt *DecisionTree) PredictBatch(rows [][]float64) ([]any, error) {
	results := make([]any, 0, len(rows))
	for _, row := range rows {
		label, _, err := dt.Predict(row)
		if err != nil {
			return nil, err
		}
		results = append(results, dt.className(label))
	}
	return results, nil
}

func (dt *DecisionTree) className(label int) any {
	if label >= 0 && label < len(dt.Classes) {
		return dt.Classes[label]
	}
	return label
}

func (dt *DecisionTree) Save(path string) error {
	if len(dt.nodes) == 0 {
		return ErrNotTrained
	}
	payload, err := json.MarshalIndent(modelFile{
		Type:    ModelTypeDecisionTree,
		Classes: dt.Classes,
		Nodes:   dt.nodes,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load accepts the current artifact format and the older bare node array.
func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	payload = bytes.TrimSpace(payload)

	var file modelFile
	if len(payload) > 0 && payload[0] == '[' {
		if err := json.Unmarshal(payload, &file.Nodes); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidModel, err)
		}
	} else if err := json.Unmarshal(payload, &file); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if file.Type != "" && file.Type != ModelTypeDecisionTree {
		return fmt.Errorf("%w: type %q", ErrInvalidModel, file.Type)
	}
	if err := validateNodes(file.Nodes); err != nil {
		return err
	}
	dt.Classes = file.Classes
	dt.nodes = file.Nodes
	return nil
}

func validateNodes(nodes []TreeNode) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidModel)
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.LeftChild <= i || node.LeftChild >= len(nodes) ||
			node.RightChild <= i || node.RightChild >= len(nodes) {
			return fmt.Errorf("%w: node %d has children out of range", ErrInvalidModel, i)
		}
	}
	return nil
}

func (dt *DecisionTree) buildNode(features [][]float64, labels []int, depth int, maxDepth int) []TreeNode {
	label, confidence := majorityLabel(labels)
	leaf := []TreeNode{{
		FeatureIdx: -1,
		LeftChild:  -1,
		RightChild: -1,
		ClassLabel: label,
		Confidence: confidence,
		IsLeaf:     true,
	}}
	if depth >= maxDepth || isPure(labels) {
		return leaf
	}

	bestFeature, threshold, ok := findBestSplit(features, labels)
	if !ok {
		return leaf
	}

	leftFeatures, leftLabels, rightFeatures, rightLabels := splitData(features, labels, bestFeature, threshold)
	if len(leftLabels) == 0 || len(rightLabels) == 0 {
		return leaf
	}

	leftNodes := dt.buildNode(leftFeatures, leftLabels, depth+1, maxDepth)
	rightNodes := dt.buildNode(rightFeatures, rightLabels, depth+1, maxDepth)

	// Children are stored after the parent; offsets are relative to this subtree
	// and shifted when the subtree is spliced into its parent.
	nodes := make([]TreeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, TreeNode{
		FeatureIdx: bestFeature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
		ClassLabel: label,
		Confidence: confidence,
	})
	nodes = append(nodes, shift(leftNodes, 1)...)
	nodes = append(nodes, shift(rightNodes, 1+len(leftNodes))...)
	return nodes
}

func shift(nodes []TreeNode, offset int) []TreeNode {
	for i := range nodes {
		if nodes[i].IsLeaf {
			continue
		}
		nodes[i].LeftChild += offset
		nodes[i].RightChild += offset
	}
	return nodes
}

func findBestSplit(features [][]float64, labels []int) (int, float64, bool) {
	featureCount := len(features[0])
	bestFeature := -1
	bestThreshold := 0.0
	bestImpurity := math.MaxFloat64

	for featureIdx := 0; featureIdx < featureCount; featureIdx++ {
		values := make([]float64, len(features))
		for i := range features {
			values[i] = features[i][featureIdx]
		}
		threshold := median(values)
		leftLabels, rightLabels := splitLabels(features, labels, featureIdx, threshold)
		if len(leftLabels) == 0 || len(rightLabels) == 0 {
			continue
		}
		impurity := weightedGini(leftLabels, rightLabels)
		if impurity < bestImpurity {
			bestImpurity = impurity
			bestFeature = featureIdx
			bestThreshold = threshold
		}
	}
	if bestFeature == -1 {
		return -1, 0, false
	}
	return bestFeature, bestThreshold, true
}

func splitData(features [][]float64, labels []int, featureIdx int, threshold float64) ([][]float64, []int, [][]float64, []int) {
	var leftFeatures, rightFeatures [][]float64
	var leftLabels, rightLabels []int
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftFeatures = append(leftFeatures, feature)
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightFeatures = append(rightFeatures, feature)
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftFeatures, leftLabels, rightFeatures, rightLabels
}

func splitLabels(features [][]float64, labels []int, featureIdx int, threshold float64) ([]int, []int) {
	var leftLabels, rightLabels []int
	for i, feature := range features {
		if feature[featureIdx] <= threshold {
			leftLabels = append(leftLabels, labels[i])
		} else {
			rightLabels = append(rightLabels, labels[i])
		}
	}
	return leftLabels, rightLabels
}

func weightedGini(leftLabels, rightLabels []int) float64 {
	leftWeight := float64(len(leftLabels))
	rightWeight := float64(len(rightLabels))
	total := leftWeight + rightWeight
	return (leftWeight/total)*gini(leftLabels) + (rightWeight/total)*gini(rightLabels)
}

func gini(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	impurity := 1.0
	for _, count := range counts {
		prob := float64(count) / float64(len(labels))
		impurity -= prob * prob
	}
	return impurity
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// majorityLabel returns the most frequent label (lowest wins ties) and its share.
func majorityLabel(labels []int) (int, float64) {
	if len(labels) == 0 {
		return 0, 0
	}
	counts := make(map[int]int)
	for _, label := range labels {
		counts[label]++
	}
	bestLabel, bestCount := 0, -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < bestLabel) {
			bestLabel, bestCount = label, count
		}
	}
	return bestLabel, float64(bestCount) / float64(len(labels))
}

func isPure(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, label := range labels[1:] {
		if label != first {
			return false
		}
	}
	return true
}
