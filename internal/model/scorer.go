package model

import (
	"log/slog"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
)

// Scorer turns an observation and its derived indices into a risk assessment.
// Implementations are immutable and safe for concurrent use.
type Scorer interface {
	Score(obs domain.Observation, idx domain.Indices) domain.Assessment
	Mode() string
}

// featureDefaults substitute for any model feature the observation pipeline
// did not produce. Values match the training pipeline's imputation defaults.
var featureDefaults = map[string]float64{
	"Temperature": 25, "RH": 50, "Ws": 10, "Rain": 0,
	"FFMC": 70, "DMC": 10, "DC": 100, "ISI": 5, "BUI": 15, "FWI": 10,
}

// fallbackImportances are hand-tuned constants used when no trained model is
// available. They approximate the trained model's ranking, not its values.
var fallbackImportances = map[string]float64{
	"Temperature": 0.18, "RH": 0.15, "Ws": 0.12, "Rain": 0.10,
	"FFMC": 0.15, "DMC": 0.08, "DC": 0.07, "ISI": 0.06, "BUI": 0.05, "FWI": 0.04,
}

// NewScorer loads the model artifacts from dir and returns a model-backed
// scorer. When the classifier or scaler file is absent or unreadable it
// returns the rule-based fallback instead; the decision is logged once and
// fixed for the returned scorer's lifetime.
func NewScorer(dir string, logger *slog.Logger) Scorer {
	arts, err := LoadArtifacts(dir)
	if err != nil {
		logger.Warn("model artifacts unavailable, scoring with rule-based fallback",
			"dir", dir, "error", err)
		return &fallbackScorer{}
	}
	logger.Info("fire risk model loaded",
		"dir", dir,
		"trees", len(arts.Classifier.Trees),
		"features", len(arts.Metadata.FeatureColumns),
	)
	return &modelScorer{artifacts: arts}
}

// NewFallbackScorer returns the rule-based scorer directly. Used by tests and
// by deployments that deliberately run without artifacts.
func NewFallbackScorer() Scorer {
	return &fallbackScorer{}
}

// ─── Model mode ───

type modelScorer struct {
	artifacts *Artifacts
}

func (s *modelScorer) Mode() string { return domain.ScorerModeModel }

func (s *modelScorer) Score(obs domain.Observation, idx domain.Indices) domain.Assessment {
	meta := s.artifacts.Metadata
	values := domain.FeatureVector(obs, idx)

	features := make([]float64, len(meta.FeatureColumns))
	for i, col := range meta.FeatureColumns {
		v, ok := values[col]
		if !ok {
			v = featureDefaults[col]
		}
		features[i] = v
	}

	scaled, err := s.artifacts.Scaler.Transform(features)
	if err != nil {
		// Shapes were validated at load time; this cannot happen for a
		// well-formed artifact set. Degrade to the fallback formula.
		return (&fallbackScorer{}).Score(obs, idx)
	}

	proba := s.artifacts.Classifier.PredictProba(scaled)
	fireProb := proba[0]
	if len(proba) > 1 {
		fireProb = proba[1]
	}

	importance := make(map[string]float64, len(meta.FeatureColumns))
	for i, col := range meta.FeatureColumns {
		importance[col] = domain.Round4(s.artifacts.Classifier.FeatureImportances[i])
	}

	score := domain.Round1(fireProb * 100)
	return domain.Assessment{
		RiskScore:         score,
		Category:          domain.Classify(score),
		Probability:       domain.Round4(fireProb),
		FeatureImportance: importance,
		ScorerMode:        domain.ScorerModeModel,
	}
}

// ─── Fallback mode ───

type fallbackScorer struct{}

func (s *fallbackScorer) Mode() string { return domain.ScorerModeFallback }

// Score applies the closed-form rule:
//
//	risk = (temp−20)·2 + (80−humidity)·0.5 + wind·1.5 + fwi·3 − rain·10
//
// clamped to [0, 100].
func (s *fallbackScorer) Score(obs domain.Observation, idx domain.Indices) domain.Assessment {
	risk := (obs.Temperature-20)*2 +
		(80-obs.Humidity)*0.5 +
		obs.WindSpeed*1.5 +
		idx.FWI*3 -
		obs.Rainfall*10
	risk = domain.Clamp(risk, 0, 100)

	score := domain.Round1(risk)
	importance := make(map[string]float64, len(fallbackImportances))
	for k, v := range fallbackImportances {
		importance[k] = v
	}

	return domain.Assessment{
		RiskScore:         score,
		Category:          domain.Classify(score),
		Probability:       domain.Round4(risk / 100),
		FeatureImportance: importance,
		ScorerMode:        domain.ScorerModeFallback,
	}
}
