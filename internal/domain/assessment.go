package domain

// Category is the three-level risk classification.
type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Scorer mode tags carried on every assessment.
const (
	ScorerModeModel    = "model"
	ScorerModeFallback = "fallback"
)

// Risk category thresholds: score ≤ 33 is Low, 34–66 is Medium, ≥ 67 is High.
const (
	lowMaxScore    = 33
	mediumMaxScore = 66
)

// FeatureColumns is the canonical feature order for scoring. It must match
// the column order the classifier was trained with.
var FeatureColumns = []string{
	"Temperature", "RH", "Ws", "Rain", "FFMC", "DMC", "DC", "ISI", "BUI", "FWI",
}

// Assessment is the output of a risk scorer for one (cell, weather) pair.
type Assessment struct {
	RiskScore         float64            `json:"risk_score"`  // 0–100, one decimal
	Category          Category           `json:"risk_category"`
	Probability       float64            `json:"probability"` // 0–1, four decimals
	FeatureImportance map[string]float64 `json:"feature_importance"`
	ScorerMode        string             `json:"scorer_mode"`
}

// Classify maps a risk score to its category.
func Classify(score float64) Category {
	switch {
	case score <= lowMaxScore:
		return CategoryLow
	case score <= mediumMaxScore:
		return CategoryMedium
	default:
		return CategoryHigh
	}
}

// FeatureVector flattens an observation and its indices into the canonical
// column order of FeatureColumns.
func FeatureVector(obs Observation, idx Indices) map[string]float64 {
	return map[string]float64{
		"Temperature": obs.Temperature,
		"RH":          obs.Humidity,
		"Ws":          obs.WindSpeed,
		"Rain":        obs.Rainfall,
		"FFMC":        idx.FFMC,
		"DMC":         idx.DMC,
		"DC":          idx.DC,
		"ISI":         idx.ISI,
		"BUI":         idx.BUI,
		"FWI":         idx.FWI,
	}
}
