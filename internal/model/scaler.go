package model

import "fmt"

// Scaler standardizes feature vectors: (x − mean) / scale per column.
// Mirrors the feature scaler serialized by the training pipeline.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Validate checks the vector lengths against the expected feature count.
func (s *Scaler) Validate(numFeatures int) error {
	if len(s.Mean) != numFeatures || len(s.Scale) != numFeatures {
		return fmt.Errorf("scaler: mean/scale lengths %d/%d, want %d",
			len(s.Mean), len(s.Scale), numFeatures)
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("scaler: zero scale for feature %d", i)
		}
	}
	return nil
}

// Transform returns a standardized copy of features.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: got %d features, want %d", len(features), len(s.Mean))
	}
	scaled := make([]float64, len(features))
	for i, v := range features {
		scaled[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}
