// Command genartifacts writes a deterministic set of model artifacts
// (classifier.json, scaler.json, metadata.json) for local development and
// test fixtures. The hand-built forest approximates the trained model's
// behavior: hot, dry, windy cells score high; wet cells score low.
//
// Usage:
//
//	go run ./cmd/genartifacts -out models
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "models", "output directory for model artifacts")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	if err := writeJSON(filepath.Join(*out, model.ClassifierFile), buildForest()); err != nil {
		return fmt.Errorf("writing classifier: %w", err)
	}
	if err := writeJSON(filepath.Join(*out, model.ScalerFile), buildScaler()); err != nil {
		return fmt.Errorf("writing scaler: %w", err)
	}
	if err := writeJSON(filepath.Join(*out, model.MetadataFile), buildMetadata()); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	log.Printf("wrote artifacts: %s", *out)

	// Reload through the real loader so a broken fixture fails here, not at
	// service startup.
	if _, err := model.LoadArtifacts(*out); err != nil {
		return fmt.Errorf("verify artifacts: %w", err)
	}

	printStats(*out)
	return nil
}

// leaf builds a leaf node carrying the two-class distribution.
func leaf(pLow, pHigh float64) model.Node {
	return model.Node{Feature: -1, Value: []float64{pLow, pHigh}}
}

// split builds an internal node on a scaled feature.
func split(feature int, threshold float64, left, right int) model.Node {
	return model.Node{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

// Feature indices follow the canonical column order:
// Temperature=0, RH=1, Ws=2, Rain=3, FFMC=4, DMC=5, DC=6, ISI=7, BUI=8, FWI=9.
func buildForest() *model.Forest {
	return &model.Forest{
		NumClasses: 2,
		Trees: [][]model.Node{
			// Hot cells split further on humidity.
			{
				split(0, 1.0, 1, 2),
				leaf(0.75, 0.25),
				split(1, -0.5, 3, 4),
				leaf(0.1, 0.9),
				leaf(0.35, 0.65),
			},
			// High fire weather index, refined by wind.
			{
				split(9, 0.5, 1, 2),
				leaf(0.7, 0.3),
				split(2, 0.5, 3, 4),
				leaf(0.3, 0.7),
				leaf(0.1, 0.9),
			},
			// Rain suppresses; otherwise fine fuel moisture dominates.
			{
				split(3, 1.0, 1, 2),
				split(4, 0.8, 3, 4),
				leaf(0.85, 0.15),
				leaf(0.6, 0.4),
				leaf(0.2, 0.8),
			},
		},
		FeatureImportances: []float64{0.18, 0.15, 0.12, 0.10, 0.15, 0.08, 0.07, 0.06, 0.05, 0.04},
	}
}

func buildScaler() *model.Scaler {
	return &model.Scaler{
		Mean:  []float64{25, 50, 10, 0, 70, 10, 100, 5, 15, 10},
		Scale: []float64{5, 15, 5, 2, 10, 5, 50, 3, 5, 4},
	}
}

func buildMetadata() *model.Metadata {
	return &model.Metadata{
		FeatureColumns: domain.FeatureColumns,
		RiskThresholds: map[string][2]float64{
			"Low":    {0, 33},
			"Medium": {34, 66},
			"High":   {67, 100},
		},
		TrainedAt: "2026-08-01T00:00:00Z",
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats scores every region's simulated grid so test assertions can be
// updated against the generated artifacts.
func printStats(dir string) {
	scorer := model.NewScorer(dir, slog.Default())

	fmt.Println("\n=== Simulated grid scores per region ===")
	for _, region := range domain.NewCatalog().All() {
		var high, medium, low int
		var sum, maxScore float64
		minScore := 100.0

		cells := domain.Partition(region)
		for _, cell := range cells {
			obs := domain.SimulateObservation(cell.Center.Lat, cell.Center.Lng, cell.ID)
			a := scorer.Score(obs, domain.DeriveIndices(obs))

			sum += a.RiskScore
			if a.RiskScore > maxScore {
				maxScore = a.RiskScore
			}
			if a.RiskScore < minScore {
				minScore = a.RiskScore
			}
			switch a.Category {
			case domain.CategoryHigh:
				high++
			case domain.CategoryMedium:
				medium++
			default:
				low++
			}
		}

		fmt.Printf("%s: cells=%d high=%d medium=%d low=%d min=%.1f avg=%.1f max=%.1f\n",
			region.ID, len(cells), high, medium, low,
			minScore, sum/float64(len(cells)), maxScore)
	}
}
