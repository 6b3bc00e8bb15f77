// Package model loads the trained fire-risk classifier artifacts and exposes
// the risk Scorer: model-backed when the artifacts are present, rule-based
// fallback otherwise. The choice is made once at construction and fixed for
// the scorer's lifetime.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Artifact file names produced by the training pipeline.
const (
	ClassifierFile = "classifier.json"
	ScalerFile     = "scaler.json"
	MetadataFile   = "metadata.json"
)

// Metadata describes the trained model: the feature column order and the
// risk-threshold bands it was evaluated against.
type Metadata struct {
	FeatureColumns []string              `json:"feature_columns"`
	RiskThresholds map[string][2]float64 `json:"risk_thresholds"`
	TrainedAt      string                `json:"trained_at,omitempty"`
}

// Artifacts bundles the three files the external training pipeline produces.
type Artifacts struct {
	Classifier *Forest
	Scaler     *Scaler
	Metadata   *Metadata
}

// LoadArtifacts reads classifier, scaler, and metadata from dir and validates
// their shapes against each other. A missing classifier or scaler file is the
// signal to run in fallback mode; the error wraps fs.ErrNotExist in that case.
// Metadata is optional — the canonical feature order is used when absent.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var forest Forest
	if err := readJSON(filepath.Join(dir, ClassifierFile), &forest); err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	var scaler Scaler
	if err := readJSON(filepath.Join(dir, ScalerFile), &scaler); err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}

	meta := &Metadata{FeatureColumns: domain.FeatureColumns}
	metaPath := filepath.Join(dir, MetadataFile)
	if _, err := os.Stat(metaPath); err == nil {
		if err := readJSON(metaPath, meta); err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		if len(meta.FeatureColumns) == 0 {
			meta.FeatureColumns = domain.FeatureColumns
		}
	}

	n := len(meta.FeatureColumns)
	if err := forest.Validate(n); err != nil {
		return nil, err
	}
	if err := scaler.Validate(n); err != nil {
		return nil, err
	}

	return &Artifacts{Classifier: &forest, Scaler: &scaler, Metadata: meta}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
