package model

import (
	"errors"
	"fmt"
)

// leafNode marks a node with no split.
const leafNode = -1

// Node is one decision node of a serialized tree. Internal nodes split on
// Feature <= Threshold (left) vs > Threshold (right); leaves carry the class
// distribution in Value.
type Node struct {
	Feature   int       `json:"feature"` // -1 for a leaf
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"` // leaf class distribution, sums to 1
}

// Forest is a serialized random-forest classifier produced by the training
// pipeline. Read-only after load; safe for concurrent use.
type Forest struct {
	NumClasses         int       `json:"n_classes"`
	Trees              [][]Node  `json:"trees"` // each tree is a node array, root at index 0
	FeatureImportances []float64 `json:"feature_importances"`
}

// Validate checks structural invariants against the expected feature count.
func (f *Forest) Validate(numFeatures int) error {
	if f.NumClasses < 1 {
		return errors.New("classifier: n_classes must be at least 1")
	}
	if len(f.Trees) == 0 {
		return errors.New("classifier: no trees")
	}
	if len(f.FeatureImportances) != numFeatures {
		return fmt.Errorf("classifier: %d feature importances for %d features",
			len(f.FeatureImportances), numFeatures)
	}
	for ti, tree := range f.Trees {
		for ni, node := range tree {
			if node.Feature == leafNode {
				if len(node.Value) != f.NumClasses {
					return fmt.Errorf("classifier: tree %d node %d: leaf distribution has %d classes, want %d",
						ti, ni, len(node.Value), f.NumClasses)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= numFeatures {
				return fmt.Errorf("classifier: tree %d node %d: feature index %d out of range",
					ti, ni, node.Feature)
			}
			if node.Left < 0 || node.Left >= len(tree) || node.Right < 0 || node.Right >= len(tree) {
				return fmt.Errorf("classifier: tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// PredictProba averages the per-tree leaf class distributions for the given
// (already scaled) feature vector.
func (f *Forest) PredictProba(features []float64) []float64 {
	proba := make([]float64, f.NumClasses)
	for _, tree := range f.Trees {
		leaf := walk(tree, features)
		for c := range proba {
			proba[c] += leaf.Value[c]
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba
}

// walk descends one tree from the root to a leaf.
func walk(tree []Node, features []float64) Node {
	node := tree[0]
	for node.Feature != leafNode {
		if features[node.Feature] <= node.Threshold {
			node = tree[node.Left]
		} else {
			node = tree[node.Right]
		}
	}
	return node
}
