package domain

import (
	"fmt"
	"sort"
)

// Impact tags for contributing factors.
const (
	ImpactCritical   = "critical"
	ImpactHigh       = "high"
	ImpactModerate   = "moderate"
	ImpactProtective = "protective"
)

// Factor is a single weather condition that contributed to (or mitigated) the
// assessed risk.
type Factor struct {
	Factor      string `json:"factor"`
	Value       string `json:"value"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// FeatureWeight pairs a feature name with its importance.
type FeatureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Explanation is the human-readable breakdown of an assessment.
type Explanation struct {
	Summary             string          `json:"summary"`
	ContributingFactors []Factor        `json:"contributing_factors"`
	TopFeatures         []FeatureWeight `json:"top_features"`
}

const topFeatureCount = 5

// Explain evaluates the factor rules against the observation and indices and
// produces a summary keyed to the assessment's category. All rules are
// independent; several factors can co-occur.
func Explain(obs Observation, idx Indices, assessment Assessment) Explanation {
	var factors []Factor

	switch {
	case obs.Temperature > 35:
		factors = append(factors, Factor{
			Factor:      "High Temperature",
			Value:       fmt.Sprintf("%.1f°C", obs.Temperature),
			Impact:      ImpactCritical,
			Description: "Extreme heat significantly increases fire ignition and spread risk.",
		})
	case obs.Temperature > 30:
		factors = append(factors, Factor{
			Factor:      "Elevated Temperature",
			Value:       fmt.Sprintf("%.1f°C", obs.Temperature),
			Impact:      ImpactHigh,
			Description: "Above-average temperatures increase vegetation dryness.",
		})
	}

	switch {
	case obs.Humidity < 30:
		factors = append(factors, Factor{
			Factor:      "Very Low Humidity",
			Value:       fmt.Sprintf("%.1f%%", obs.Humidity),
			Impact:      ImpactCritical,
			Description: "Low humidity allows fuels to dry rapidly, increasing flammability.",
		})
	case obs.Humidity < 50:
		factors = append(factors, Factor{
			Factor:      "Low Humidity",
			Value:       fmt.Sprintf("%.1f%%", obs.Humidity),
			Impact:      ImpactModerate,
			Description: "Below-normal humidity contributes to drier conditions.",
		})
	}

	switch {
	case obs.WindSpeed > 20:
		factors = append(factors, Factor{
			Factor:      "High Wind Speed",
			Value:       fmt.Sprintf("%.1f km/h", obs.WindSpeed),
			Impact:      ImpactCritical,
			Description: "Strong winds can rapidly spread fire and make control difficult.",
		})
	case obs.WindSpeed > 15:
		factors = append(factors, Factor{
			Factor:      "Moderate Wind",
			Value:       fmt.Sprintf("%.1f km/h", obs.WindSpeed),
			Impact:      ImpactModerate,
			Description: "Wind assists fire spread and reduces humidity.",
		})
	}

	switch {
	case obs.Rainfall > 5:
		factors = append(factors, Factor{
			Factor:      "Recent Rainfall",
			Value:       fmt.Sprintf("%.1f mm", obs.Rainfall),
			Impact:      ImpactProtective,
			Description: "Recent precipitation reduces fire risk by moistening fuels.",
		})
	case obs.Rainfall < 1:
		factors = append(factors, Factor{
			Factor:      "No Recent Rain",
			Value:       fmt.Sprintf("%.1f mm", obs.Rainfall),
			Impact:      ImpactModerate,
			Description: "Dry conditions persist without recent precipitation.",
		})
	}

	if idx.FWI > 15 {
		factors = append(factors, Factor{
			Factor:      "High Fire Weather Index",
			Value:       fmt.Sprintf("%.1f", idx.FWI),
			Impact:      ImpactCritical,
			Description: "FWI indicates severe fire weather conditions.",
		})
	}

	return Explanation{
		Summary:             summarize(assessment.Category, factors),
		ContributingFactors: factors,
		TopFeatures:         topFeatures(assessment.FeatureImportance),
	}
}

// summarize produces the single-sentence verdict. Only the category and the
// count of critical factors feed into it.
func summarize(category Category, factors []Factor) string {
	critical := 0
	for _, f := range factors {
		if f.Impact == ImpactCritical {
			critical++
		}
	}

	switch category {
	case CategoryHigh:
		return fmt.Sprintf("HIGH RISK: %d critical factors detected. Immediate preventive action recommended.", critical)
	case CategoryMedium:
		return "MEDIUM RISK: Moderate fire conditions present. Enhanced monitoring advised."
	default:
		return "LOW RISK: Current conditions are favorable. Standard monitoring sufficient."
	}
}

// topFeatures returns the five most important features sorted descending by
// weight, with ties broken by the canonical FeatureColumns order.
func topFeatures(importance map[string]float64) []FeatureWeight {
	rank := make(map[string]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		rank[name] = i
	}

	weights := make([]FeatureWeight, 0, len(importance))
	for name, w := range importance {
		weights = append(weights, FeatureWeight{Feature: name, Weight: w})
	}
	sort.Slice(weights, func(a, b int) bool {
		if weights[a].Weight != weights[b].Weight {
			return weights[a].Weight > weights[b].Weight
		}
		return rank[weights[a].Feature] < rank[weights[b].Feature]
	})

	if len(weights) > topFeatureCount {
		weights = weights[:topFeatureCount]
	}
	return weights
}
