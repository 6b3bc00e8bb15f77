// Package predictor orchestrates region-wide fire risk assessment: it
// partitions a region into its grid, resolves weather per cell, scores
// every cell concurrently, and aggregates the results into a summary
// with an alert level.
package predictor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/model"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// ObservationProvider resolves the current conditions for a grid cell.
type ObservationProvider interface {
	Observe(ctx context.Context, cell domain.GridCell) domain.Observation
}

// Alert levels derived from the count of high risk cells in a region.
const (
	AlertNormal   = "NORMAL"
	AlertWarning  = "WARNING"
	AlertCritical = "CRITICAL"
)

// criticalHighCells is the high risk cell count at which a region
// escalates from WARNING to CRITICAL.
const criticalHighCells = 3

// CellPrediction is the full assessment of a single grid cell.
type CellPrediction struct {
	Cell       domain.GridCell    `json:"cell"`
	Weather    domain.Observation `json:"weather"`
	Indices    domain.Indices     `json:"indices"`
	Assessment domain.Assessment  `json:"assessment"`
}

// CellExplanation extends a cell prediction with its human readable
// contributing factors.
type CellExplanation struct {
	CellPrediction
	Explanation domain.Explanation `json:"explanation"`
}

// RegionSummary aggregates the per-cell assessments of one prediction pass.
type RegionSummary struct {
	TotalCells            int     `json:"total_cells"`
	HighRiskCells         int     `json:"high_risk_cells"`
	MediumRiskCells       int     `json:"medium_risk_cells"`
	LowRiskCells          int     `json:"low_risk_cells"`
	AverageRiskScore      float64 `json:"average_risk_score"`
	MaxRiskScore          float64 `json:"max_risk_score"`
	MinRiskScore          float64 `json:"min_risk_score"`
	LiveObservations      int     `json:"live_observations"`
	SimulatedObservations int     `json:"simulated_observations"`
	AlertLevel            string  `json:"alert_level"`
}

// RegionPrediction is the result of one region-wide prediction pass.
type RegionPrediction struct {
	RunID       string           `json:"run_id"`
	RegionID    string           `json:"region_id"`
	RegionName  string           `json:"region_name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Cells       []CellPrediction `json:"cells"`
	Summary     RegionSummary    `json:"summary"`
}

// Alert is the message published when a region's prediction pass ends at
// WARNING or CRITICAL.
type Alert struct {
	RunID         string    `json:"run_id"`
	RegionID      string    `json:"region_id"`
	RegionName    string    `json:"region_name"`
	Level         string    `json:"level"`
	HighRiskCells int       `json:"high_risk_cells"`
	MaxRiskScore  float64   `json:"max_risk_score"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// AlertPublisher delivers region alerts to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert Alert) error
}

// Predictor runs region-wide and single-cell fire risk assessments.
type Predictor struct {
	catalog   *domain.Catalog
	provider  ObservationProvider
	scorer    model.Scorer
	publisher AlertPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Predictor. publisher may be nil when alerting is disabled.
func New(catalog *domain.Catalog, provider ObservationProvider, scorer model.Scorer, publisher AlertPublisher, logger *slog.Logger, metrics *observability.Metrics) *Predictor {
	if scorer.Mode() == domain.ScorerModeModel {
		metrics.ModelLoaded.Set(1)
	} else {
		metrics.ModelLoaded.Set(0)
	}

	return &Predictor{
		catalog:   catalog,
		provider:  provider,
		scorer:    scorer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil when the predictor can serve requests.
func (p *Predictor) CheckReadiness(_ context.Context) error {
	if p.catalog.Len() == 0 {
		return errors.New("region catalog is empty")
	}
	return nil
}

// Regions returns all monitored regions in registration order.
func (p *Predictor) Regions() []domain.Region {
	return p.catalog.All()
}

// Region returns a single region by id.
func (p *Predictor) Region(regionID string) (domain.Region, error) {
	return p.catalog.Get(regionID)
}

// PredictRegion assesses every cell of the region's grid. Cells are
// processed concurrently; results keep grid order regardless of
// completion order.
func (p *Predictor) PredictRegion(ctx context.Context, regionID string) (RegionPrediction, error) {
	region, err := p.catalog.Get(regionID)
	if err != nil {
		return RegionPrediction{}, err
	}

	start := time.Now()
	cells := domain.Partition(region)
	results := make([]CellPrediction, len(cells))

	var wg sync.WaitGroup
	for i, cell := range cells {
		wg.Add(1)
		go func(i int, cell domain.GridCell) {
			defer wg.Done()
			results[i] = p.predictCell(ctx, cell)
		}(i, cell)
	}
	wg.Wait()

	p.metrics.PredictionRuns.Inc()
	p.metrics.CellPredictions.Add(float64(len(cells)))
	p.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	pred := RegionPrediction{
		RunID:       uuid.NewString(),
		RegionID:    region.ID,
		RegionName:  region.Name,
		GeneratedAt: domain.Now(),
		Cells:       results,
		Summary:     summarize(results),
	}

	p.logger.Info("region prediction complete",
		"run_id", pred.RunID,
		"region_id", region.ID,
		"cells", len(cells),
		"high_risk_cells", pred.Summary.HighRiskCells,
		"alert_level", pred.Summary.AlertLevel,
	)

	p.publishAlert(ctx, pred)
	return pred, nil
}

// ExplainCell assesses a single cell and attaches its contributing factors.
func (p *Predictor) ExplainCell(ctx context.Context, regionID, cellID string) (CellExplanation, error) {
	region, err := p.catalog.Get(regionID)
	if err != nil {
		return CellExplanation{}, err
	}

	cell, err := domain.FindCell(region, cellID)
	if err != nil {
		return CellExplanation{}, err
	}

	cp := p.predictCell(ctx, cell)
	p.metrics.CellPredictions.Inc()

	return CellExplanation{
		CellPrediction: cp,
		Explanation:    domain.Explain(cp.Weather, cp.Indices, cp.Assessment),
	}, nil
}

func (p *Predictor) predictCell(ctx context.Context, cell domain.GridCell) CellPrediction {
	obs := p.provider.Observe(ctx, cell)
	idx := domain.DeriveIndices(obs)
	return CellPrediction{
		Cell:       cell,
		Weather:    obs,
		Indices:    idx,
		Assessment: p.scorer.Score(obs, idx),
	}
}

// publishAlert sends a WARNING or CRITICAL alert when a publisher is
// configured. Publish failures never fail the prediction.
func (p *Predictor) publishAlert(ctx context.Context, pred RegionPrediction) {
	if p.publisher == nil || pred.Summary.AlertLevel == AlertNormal {
		return
	}

	alert := Alert{
		RunID:         pred.RunID,
		RegionID:      pred.RegionID,
		RegionName:    pred.RegionName,
		Level:         pred.Summary.AlertLevel,
		HighRiskCells: pred.Summary.HighRiskCells,
		MaxRiskScore:  pred.Summary.MaxRiskScore,
		GeneratedAt:   pred.GeneratedAt,
	}

	if err := p.publisher.PublishAlert(ctx, alert); err != nil {
		p.metrics.AlertPublishErrors.Inc()
		p.logger.Error("alert publish failed",
			"run_id", pred.RunID,
			"region_id", pred.RegionID,
			"level", alert.Level,
			"error", err,
		)
		return
	}

	p.metrics.AlertsPublished.WithLabelValues(alert.Level).Inc()
}

func summarize(cells []CellPrediction) RegionSummary {
	s := RegionSummary{TotalCells: len(cells), AlertLevel: AlertNormal}
	if len(cells) == 0 {
		return s
	}

	var sum float64
	s.MinRiskScore = cells[0].Assessment.RiskScore
	for _, c := range cells {
		score := c.Assessment.RiskScore
		sum += score
		if score > s.MaxRiskScore {
			s.MaxRiskScore = score
		}
		if score < s.MinRiskScore {
			s.MinRiskScore = score
		}

		switch c.Assessment.Category {
		case domain.CategoryHigh:
			s.HighRiskCells++
		case domain.CategoryMedium:
			s.MediumRiskCells++
		default:
			s.LowRiskCells++
		}

		if c.Weather.Source == domain.SourceLive {
			s.LiveObservations++
		} else {
			s.SimulatedObservations++
		}
	}

	s.AverageRiskScore = domain.Round1(sum / float64(len(cells)))
	switch {
	case s.HighRiskCells >= criticalHighCells:
		s.AlertLevel = AlertCritical
	case s.HighRiskCells >= 1:
		s.AlertLevel = AlertWarning
	}
	return s
}
