// Command validate performs integrity checks across the fire risk service's
// inputs: the serialized model artifacts, the region catalog and its grid
// partitions, the deterministic weather simulation, and end-to-end scoring.
//
// Usage:
//
//	go run ./cmd/validate -model-dir models
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	modelDir := flag.String("model-dir", "models", "directory containing model artifacts")
	flag.Parse()

	if code := run(*modelDir); code != 0 {
		os.Exit(code)
	}
}

func run(modelDir string) int {
	fmt.Println("=== Fire Risk Service Integrity Validation ===")
	fmt.Println()

	catalog := domain.NewCatalog()

	phases := []*phase{
		validateArtifacts(modelDir),
		validateCatalog(catalog),
		validateSimulation(catalog),
		validateScoring(modelDir, catalog),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Model Artifacts ──
// Validates the serialized classifier, scaler, and metadata shapes.

func validateArtifacts(dir string) *phase {
	p := &phase{name: "Phase 1: Model Artifacts"}

	arts, err := model.LoadArtifacts(dir)
	if err != nil {
		p.errorf("load artifacts: %v", err)
		return p
	}

	var importanceSum float64
	for _, v := range arts.Classifier.FeatureImportances {
		if v < 0 {
			p.errorf("negative feature importance %g", v)
		}
		importanceSum += v
	}
	if math.Abs(importanceSum-1) > 0.01 {
		p.errorf("feature importances sum to %g, want 1", importanceSum)
	}

	checkThresholds(p, arts.Metadata.RiskThresholds)

	if len(arts.Metadata.FeatureColumns) != len(domain.FeatureColumns) {
		p.errorf("metadata has %d feature columns, want %d",
			len(arts.Metadata.FeatureColumns), len(domain.FeatureColumns))
	}
	return p
}

func checkThresholds(p *phase, thresholds map[string][2]float64) {
	if len(thresholds) == 0 {
		return // optional in metadata
	}
	for _, band := range []string{"Low", "Medium", "High"} {
		t, ok := thresholds[band]
		if !ok {
			p.errorf("risk_thresholds missing %q band", band)
			continue
		}
		if t[0] > t[1] {
			p.errorf("%s band is inverted: [%g, %g]", band, t[0], t[1])
		}
	}
}

// ── Phase 2: Region Catalog ──
// Validates grid partitions against each region's declared shape.

var cellIDPattern = regexp.MustCompile(`^[a-z_]+_grid_\d+_\d+$`)

func validateCatalog(catalog *domain.Catalog) *phase {
	p := &phase{name: "Phase 2: Region Catalog"}

	if catalog.Len() == 0 {
		p.errorf("catalog is empty")
		return p
	}

	for _, region := range catalog.All() {
		cells := domain.Partition(region)
		if len(cells) != region.GridRows*region.GridCols {
			p.errorf("%s: %d cells for %dx%d grid", region.ID, len(cells), region.GridRows, region.GridCols)
			continue
		}

		for _, cell := range cells {
			if !cellIDPattern.MatchString(cell.ID) {
				p.errorf("%s: malformed cell id %q", region.ID, cell.ID)
			}
			if cell.AreaKm2 <= 0 {
				p.errorf("%s: cell %s has non-positive area %g", region.ID, cell.ID, cell.AreaKm2)
			}
			if cell.Center.Lat > region.Bounds.North || cell.Center.Lat < region.Bounds.South {
				p.errorf("%s: cell %s center latitude %g outside region bounds", region.ID, cell.ID, cell.Center.Lat)
			}
		}
	}
	return p
}

// ── Phase 3: Weather Simulation ──
// Validates determinism and value ranges of simulated observations.

func validateSimulation(catalog *domain.Catalog) *phase {
	p := &phase{name: "Phase 3: Weather Simulation"}

	for _, region := range catalog.All() {
		for _, cell := range domain.Partition(region) {
			a := domain.SimulateObservation(cell.Center.Lat, cell.Center.Lng, cell.ID)
			b := domain.SimulateObservation(cell.Center.Lat, cell.Center.Lng, cell.ID)

			if a.Temperature != b.Temperature || a.Humidity != b.Humidity ||
				a.WindSpeed != b.WindSpeed || a.Rainfall != b.Rainfall {
				p.errorf("%s: simulation is not deterministic", cell.ID)
			}

			if a.Temperature < 15 || a.Temperature > 45 {
				p.errorf("%s: temperature %g outside [15, 45]", cell.ID, a.Temperature)
			}
			if a.Humidity < 20 || a.Humidity > 95 {
				p.errorf("%s: humidity %g outside [20, 95]", cell.ID, a.Humidity)
			}
			if a.WindSpeed < 5 || a.WindSpeed > 25 {
				p.errorf("%s: wind speed %g outside [5, 25]", cell.ID, a.WindSpeed)
			}
			if a.Humidity <= 60 && a.Rainfall != 0 {
				p.errorf("%s: rainfall %g with humidity %g (must be dry)", cell.ID, a.Rainfall, a.Humidity)
			}
		}
	}
	return p
}

// ── Phase 4: End-to-End Scoring ──
// Runs every simulated cell through the scorer and checks the outputs.

func validateScoring(modelDir string, catalog *domain.Catalog) *phase {
	p := &phase{name: "Phase 4: End-to-End Scoring"}

	scorers := map[string]model.Scorer{
		domain.ScorerModeFallback: model.NewFallbackScorer(),
	}
	if _, err := model.LoadArtifacts(modelDir); err == nil {
		scorers[domain.ScorerModeModel] = model.NewScorer(modelDir, slog.Default())
	}

	for mode, scorer := range scorers {
		if scorer.Mode() != mode {
			p.errorf("scorer mode is %q, want %q", scorer.Mode(), mode)
		}
		for _, region := range catalog.All() {
			for _, cell := range domain.Partition(region) {
				obs := domain.SimulateObservation(cell.Center.Lat, cell.Center.Lng, cell.ID)
				a := scorer.Score(obs, domain.DeriveIndices(obs))

				if a.RiskScore < 0 || a.RiskScore > 100 {
					p.errorf("%s [%s]: risk score %g outside [0, 100]", cell.ID, mode, a.RiskScore)
				}
				if a.Probability < 0 || a.Probability > 1 {
					p.errorf("%s [%s]: probability %g outside [0, 1]", cell.ID, mode, a.Probability)
				}
				if got := domain.Classify(a.RiskScore); got != a.Category {
					p.errorf("%s [%s]: category %q does not match score %g", cell.ID, mode, a.Category, a.RiskScore)
				}
				if len(a.FeatureImportance) != len(domain.FeatureColumns) {
					p.errorf("%s [%s]: %d feature importances", cell.ID, mode, len(a.FeatureImportance))
				}
			}
		}
	}
	return p
}
