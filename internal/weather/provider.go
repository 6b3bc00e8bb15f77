// Package weather resolves the current conditions for a grid cell,
// preferring a live source and silently degrading to deterministic
// simulation when the source is absent or fails.
package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/fire-risk-service/internal/domain"
	"github.com/couchcryptid/fire-risk-service/internal/observability"
)

// Source supplies live observations for a coordinate.
type Source interface {
	Current(ctx context.Context, lat, lng float64) (domain.Observation, error)
}

// Provider returns an observation for any grid cell. A nil source means
// every observation is simulated.
type Provider struct {
	source       Source
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewProvider creates a Provider. source may be nil to force simulation.
func NewProvider(source Source, fetchTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Provider {
	return &Provider{
		source:       source,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		metrics:      metrics,
	}
}

// Observe never fails: a live fetch error is absorbed and the cell falls
// back to its deterministic simulation.
func (p *Provider) Observe(ctx context.Context, cell domain.GridCell) domain.Observation {
	if p.source != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()

		start := time.Now()
		obs, err := p.source.Current(fetchCtx, cell.Center.Lat, cell.Center.Lng)
		p.metrics.WeatherFetchDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			p.metrics.WeatherObservations.WithLabelValues(domain.SourceLive).Inc()
			return obs
		}

		p.metrics.WeatherFetchErrors.Inc()
		p.logger.Debug("live weather fetch failed, simulating",
			"cell_id", cell.ID,
			"error", err,
		)
	}

	p.metrics.WeatherObservations.WithLabelValues(domain.SourceSimulated).Inc()
	return domain.SimulateObservation(cell.Center.Lat, cell.Center.Lng, cell.ID)
}

// LiveEnabled reports whether a live source is configured.
func (p *Provider) LiveEnabled() bool {
	return p.source != nil
}
