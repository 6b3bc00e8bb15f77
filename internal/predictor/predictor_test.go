package predictor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoreProvider encodes the target risk score for each cell in the
// observation's Temperature field, keyed by row-major cell index.
type scoreProvider struct {
	scores []float64
	cols   int
	live   map[int]bool
}

func (p *scoreProvider) Observe(_ context.Context, cell domain.GridCell) domain.Observation {
	i := cell.Row*p.cols + cell.Col
	source := domain.SourceSimulated
	if p.live[i] {
		source = domain.SourceLive
	}
	return domain.Observation{
		Temperature: p.scores[i],
		Humidity:    50,
		Source:      source,
	}
}

// passthroughScorer scores a cell with the observation's Temperature.
type passthroughScorer struct{}

func (passthroughScorer) Score(obs domain.Observation, _ domain.Indices) domain.Assessment {
	return domain.Assessment{
		RiskScore:   obs.Temperature,
		Category:    domain.Classify(obs.Temperature),
		Probability: obs.Temperature / 100,
		ScorerMode:  domain.ScorerModeFallback,
	}
}

func (passthroughScorer) Mode() string { return domain.ScorerModeFallback }

type recordingPublisher struct {
	alerts []Alert
	err    error
}

func (r *recordingPublisher) PublishAlert(_ context.Context, alert Alert) error {
	if r.err != nil {
		return r.err
	}
	r.alerts = append(r.alerts, alert)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegion() domain.Region {
	return domain.Region{
		ID:       "testland",
		Name:     "Testland",
		Center:   domain.Coordinate{Lat: 10, Lng: 20},
		Bounds:   domain.Bounds{North: 12, South: 8, East: 22, West: 18},
		GridRows: 3,
		GridCols: 4,
	}
}

func newTestPredictor(scores []float64, live map[int]bool, pub AlertPublisher) *Predictor {
	catalog := domain.NewCatalogWith(testRegion())
	provider := &scoreProvider{scores: scores, cols: 4, live: live}
	return New(catalog, provider, passthroughScorer{}, pub, discardLogger(), observability.NewMetricsForTesting())
}

func TestPredictRegion_SummaryAndOrder(t *testing.T) {
	// 3 high, 2 medium, 7 low.
	scores := []float64{90, 80, 70, 50, 40, 10, 10, 10, 10, 10, 5, 5}
	live := map[int]bool{0: true, 1: true}
	pub := &recordingPublisher{}

	p := newTestPredictor(scores, live, pub)
	pred, err := p.PredictRegion(context.Background(), "testland")
	require.NoError(t, err)

	assert.NotEmpty(t, pred.RunID)
	assert.Equal(t, "testland", pred.RegionID)
	assert.Equal(t, "Testland", pred.RegionName)
	assert.False(t, pred.GeneratedAt.IsZero())
	require.Len(t, pred.Cells, 12)

	// Results keep row-major grid order regardless of goroutine completion.
	for i, cp := range pred.Cells {
		assert.Equal(t, i/4, cp.Cell.Row)
		assert.Equal(t, i%4, cp.Cell.Col)
		assert.Equal(t, scores[i], cp.Assessment.RiskScore)
	}

	s := pred.Summary
	assert.Equal(t, 12, s.TotalCells)
	assert.Equal(t, 3, s.HighRiskCells)
	assert.Equal(t, 2, s.MediumRiskCells)
	assert.Equal(t, 7, s.LowRiskCells)
	assert.Equal(t, 90.0, s.MaxRiskScore)
	assert.Equal(t, 5.0, s.MinRiskScore)
	assert.Equal(t, 32.5, s.AverageRiskScore)
	assert.Equal(t, 2, s.LiveObservations)
	assert.Equal(t, 10, s.SimulatedObservations)
	assert.Equal(t, AlertCritical, s.AlertLevel)

	// A CRITICAL pass publishes exactly one alert.
	require.Len(t, pub.alerts, 1)
	assert.Equal(t, AlertCritical, pub.alerts[0].Level)
	assert.Equal(t, 3, pub.alerts[0].HighRiskCells)
	assert.Equal(t, 90.0, pub.alerts[0].MaxRiskScore)
	assert.Equal(t, pred.RunID, pub.alerts[0].RunID)
}

func TestPredictRegion_WarningAlert(t *testing.T) {
	scores := []float64{90, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	pub := &recordingPublisher{}

	p := newTestPredictor(scores, nil, pub)
	pred, err := p.PredictRegion(context.Background(), "testland")
	require.NoError(t, err)

	assert.Equal(t, AlertWarning, pred.Summary.AlertLevel)
	require.Len(t, pub.alerts, 1)
	assert.Equal(t, AlertWarning, pub.alerts[0].Level)
}

func TestPredictRegion_NormalPublishesNothing(t *testing.T) {
	scores := []float64{10, 10, 10, 10, 20, 20, 20, 20, 30, 30, 30, 30}
	pub := &recordingPublisher{}

	p := newTestPredictor(scores, nil, pub)
	pred, err := p.PredictRegion(context.Background(), "testland")
	require.NoError(t, err)

	assert.Equal(t, AlertNormal, pred.Summary.AlertLevel)
	assert.Empty(t, pub.alerts)
}

func TestPredictRegion_PublishFailureAbsorbed(t *testing.T) {
	scores := []float64{90, 90, 90, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	pub := &recordingPublisher{err: errors.New("broker unavailable")}

	p := newTestPredictor(scores, nil, pub)
	pred, err := p.PredictRegion(context.Background(), "testland")
	require.NoError(t, err)
	assert.Equal(t, AlertCritical, pred.Summary.AlertLevel)
}

func TestPredictRegion_NilPublisher(t *testing.T) {
	scores := []float64{90, 90, 90, 10, 10, 10, 10, 10, 10, 10, 10, 10}

	p := newTestPredictor(scores, nil, nil)
	_, err := p.PredictRegion(context.Background(), "testland")
	require.NoError(t, err)
}

func TestPredictRegion_UnknownRegion(t *testing.T) {
	p := newTestPredictor(make([]float64, 12), nil, nil)
	_, err := p.PredictRegion(context.Background(), "atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}

func TestExplainCell(t *testing.T) {
	scores := []float64{90, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	p := newTestPredictor(scores, nil, nil)

	ce, err := p.ExplainCell(context.Background(), "testland", "testland_grid_0_0")
	require.NoError(t, err)

	assert.Equal(t, "testland_grid_0_0", ce.Cell.ID)
	assert.Equal(t, 90.0, ce.Assessment.RiskScore)
	assert.Equal(t, domain.CategoryHigh, ce.Assessment.Category)
	assert.NotEmpty(t, ce.Explanation.Summary)
}

func TestExplainCell_UnknownCell(t *testing.T) {
	p := newTestPredictor(make([]float64, 12), nil, nil)
	_, err := p.ExplainCell(context.Background(), "testland", "testland_grid_9_9")
	assert.ErrorIs(t, err, domain.ErrUnknownCell)
}

func TestExplainCell_UnknownRegion(t *testing.T) {
	p := newTestPredictor(make([]float64, 12), nil, nil)
	_, err := p.ExplainCell(context.Background(), "atlantis", "atlantis_grid_0_0")
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}

func TestCheckReadiness(t *testing.T) {
	p := newTestPredictor(make([]float64, 12), nil, nil)
	require.NoError(t, p.CheckReadiness(context.Background()))

	empty := New(domain.NewCatalogWith(), &scoreProvider{cols: 1}, passthroughScorer{}, nil, discardLogger(), observability.NewMetricsForTesting())
	assert.Error(t, empty.CheckReadiness(context.Background()))
}

func TestRegionsAccessors(t *testing.T) {
	p := newTestPredictor(make([]float64, 12), nil, nil)

	regions := p.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, "testland", regions[0].ID)

	r, err := p.Region("testland")
	require.NoError(t, err)
	assert.Equal(t, "Testland", r.Name)

	_, err = p.Region("nowhere")
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}
