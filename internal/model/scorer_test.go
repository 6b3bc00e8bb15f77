package model

import (
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTestArtifacts writes a small, hand-built artifact set: three decision
// stumps over Temperature, RH, and FWI with an identity scaler.
func writeTestArtifacts(t *testing.T, dir string) {
	t.Helper()

	forest := Forest{
		NumClasses: 2,
		Trees: [][]Node{
			{
				{Feature: 0, Threshold: 30, Left: 1, Right: 2},
				{Feature: leafNode, Value: []float64{0.7, 0.3}},
				{Feature: leafNode, Value: []float64{0.2, 0.8}},
			},
			{
				{Feature: 1, Threshold: 40, Left: 1, Right: 2},
				{Feature: leafNode, Value: []float64{0.25, 0.75}},
				{Feature: leafNode, Value: []float64{0.7, 0.3}},
			},
			{
				{Feature: 9, Threshold: 12, Left: 1, Right: 2},
				{Feature: leafNode, Value: []float64{0.8, 0.2}},
				{Feature: leafNode, Value: []float64{0.15, 0.85}},
			},
		},
		FeatureImportances: []float64{0.3, 0.2, 0.05, 0.05, 0.1, 0.05, 0.05, 0.05, 0.05, 0.1},
	}
	scaler := Scaler{
		Mean:  make([]float64, 10),
		Scale: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	meta := Metadata{
		FeatureColumns: domain.FeatureColumns,
		RiskThresholds: map[string][2]float64{
			"low": {0, 33}, "medium": {34, 66}, "high": {67, 100},
		},
	}

	writeJSONFile(t, filepath.Join(dir, ClassifierFile), forest)
	writeJSONFile(t, filepath.Join(dir, ScalerFile), scaler)
	writeJSONFile(t, filepath.Join(dir, MetadataFile), meta)
}

func writeJSONFile(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestNewScorerModelMode(t *testing.T) {
	dir := t.TempDir()
	writeTestArtifacts(t, dir)

	scorer := NewScorer(dir, discardLogger())
	require.Equal(t, domain.ScorerModeModel, scorer.Mode())

	t.Run("hot dry cell scores high", func(t *testing.T) {
		obs := domain.Observation{Temperature: 40, Humidity: 20, WindSpeed: 25}
		idx := domain.Indices{FWI: 20}
		a := scorer.Score(obs, idx)

		// Positive-class leaves: 0.8, 0.75, 0.85 → mean 0.8.
		assert.Equal(t, 0.8, a.Probability)
		assert.Equal(t, 80.0, a.RiskScore)
		assert.Equal(t, domain.CategoryHigh, a.Category)
		assert.Equal(t, domain.ScorerModeModel, a.ScorerMode)
	})

	t.Run("mild humid cell scores low", func(t *testing.T) {
		obs := domain.Observation{Temperature: 22, Humidity: 70, WindSpeed: 10}
		idx := domain.Indices{FWI: 5}
		a := scorer.Score(obs, idx)

		// Positive-class leaves: 0.3, 0.3, 0.2 → mean 0.2667.
		assert.Equal(t, 0.2667, a.Probability)
		assert.Equal(t, 26.7, a.RiskScore)
		assert.Equal(t, domain.CategoryLow, a.Category)
	})

	t.Run("importances come from the classifier", func(t *testing.T) {
		a := scorer.Score(domain.Observation{}, domain.Indices{})
		assert.Equal(t, 0.3, a.FeatureImportance["Temperature"])
		assert.Equal(t, 0.2, a.FeatureImportance["RH"])
		assert.Len(t, a.FeatureImportance, 10)
	})
}

func TestNewScorerFallsBackWithoutArtifacts(t *testing.T) {
	scorer := NewScorer(t.TempDir(), discardLogger())
	assert.Equal(t, domain.ScorerModeFallback, scorer.Mode())
}

func TestFallbackScorerClosedForm(t *testing.T) {
	scorer := NewFallbackScorer()
	require.Equal(t, domain.ScorerModeFallback, scorer.Mode())

	t.Run("extreme conditions clamp to 100", func(t *testing.T) {
		obs := domain.Observation{Temperature: 40, Humidity: 20, WindSpeed: 25, Rainfall: 0}
		a := scorer.Score(obs, domain.Indices{FWI: 20})

		// (40−20)·2 + (80−20)·0.5 + 25·1.5 + 20·3 = 167.5 → clamped.
		assert.Equal(t, 100.0, a.RiskScore)
		assert.Equal(t, 1.0, a.Probability)
		assert.Equal(t, domain.CategoryHigh, a.Category)
		assert.Equal(t, domain.ScorerModeFallback, a.ScorerMode)
	})

	t.Run("heavy rain clamps to zero", func(t *testing.T) {
		obs := domain.Observation{Temperature: 20, Humidity: 80, WindSpeed: 0, Rainfall: 20}
		a := scorer.Score(obs, domain.Indices{})

		assert.Equal(t, 0.0, a.RiskScore)
		assert.Equal(t, 0.0, a.Probability)
		assert.Equal(t, domain.CategoryLow, a.Category)
	})

	t.Run("category boundaries", func(t *testing.T) {
		cases := []struct {
			name string
			obs  domain.Observation
			want domain.Category
		}{
			// Wind is the only non-zero term: score = wind·1.5.
			{"score 33 is Low", domain.Observation{Temperature: 20, Humidity: 80, WindSpeed: 22}, domain.CategoryLow},
			{"score 34 is Medium", domain.Observation{Temperature: 20.5, Humidity: 80, WindSpeed: 22}, domain.CategoryMedium},
			{"score 66 is Medium", domain.Observation{Temperature: 20, Humidity: 80, WindSpeed: 44}, domain.CategoryMedium},
			{"score 67 is High", domain.Observation{Temperature: 20.5, Humidity: 80, WindSpeed: 44}, domain.CategoryHigh},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				a := scorer.Score(tc.obs, domain.Indices{})
				assert.Equal(t, tc.want, a.Category, "score %v", a.RiskScore)
			})
		}
	})

	t.Run("fixed importances", func(t *testing.T) {
		a := scorer.Score(domain.Observation{}, domain.Indices{})
		assert.Equal(t, fallbackImportances, a.FeatureImportance)
	})
}

func TestLoadArtifacts(t *testing.T) {
	t.Run("missing classifier wraps fs.ErrNotExist", func(t *testing.T) {
		_, err := LoadArtifacts(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("missing scaler wraps fs.ErrNotExist", func(t *testing.T) {
		dir := t.TempDir()
		writeTestArtifacts(t, dir)
		require.NoError(t, os.Remove(filepath.Join(dir, ScalerFile)))

		_, err := LoadArtifacts(dir)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("shape mismatch is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeTestArtifacts(t, dir)
		writeJSONFile(t, filepath.Join(dir, ScalerFile), Scaler{Mean: []float64{0}, Scale: []float64{1}})

		_, err := LoadArtifacts(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scaler")
	})

	t.Run("valid set loads", func(t *testing.T) {
		dir := t.TempDir()
		writeTestArtifacts(t, dir)

		arts, err := LoadArtifacts(dir)
		require.NoError(t, err)
		assert.Len(t, arts.Classifier.Trees, 3)
		assert.Equal(t, domain.FeatureColumns, arts.Metadata.FeatureColumns)
	})
}
