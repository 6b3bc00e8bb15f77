package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"time"
)

// Weather observation provenance tags.
const (
	SourceLive      = "live"
	SourceSimulated = "simulated"
)

// Observation is a snapshot of current weather at a point. Produced fresh per
// request, never cached.
type Observation struct {
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // relative humidity, %
	WindSpeed   float64   `json:"wind_speed"`  // km/h
	Rainfall    float64   `json:"rainfall"`    // mm over the last hour
	Source      string    `json:"source"`      // SourceLive or SourceSimulated
	Description string    `json:"description,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// SimulateObservation generates plausible weather for a coordinate, seeded
// deterministically from the cell id so repeated calls for the same cell
// yield identical values.
//
// Base temperature correlates inversely with absolute latitude distance from
// the equator (20–40 °C band) plus bounded jitter; humidity is anti-correlated
// with temperature; wind is uniform in [5, 25] km/h; rainfall occurs only when
// humidity exceeds 60%.
func SimulateObservation(lat, _ float64, cellID string) Observation {
	rng := rand.New(rand.NewSource(int64(cellSeed(cellID))))

	latFactor := 1 - math.Abs(lat)/90
	baseTemp := 20 + latFactor*20

	temp := Clamp(baseTemp+uniform(rng, -5, 10), 15, 45)
	humidity := Clamp(90-(temp-20)*2+uniform(rng, -10, 10), 20, 95)
	wind := uniform(rng, 5, 25)
	rain := 0.0
	if humidity > 60 {
		rain = uniform(rng, 0, 5)
	}

	return Observation{
		Temperature: Round1(temp),
		Humidity:    Round1(humidity),
		WindSpeed:   Round1(wind),
		Rainfall:    Round1(rain),
		Source:      SourceSimulated,
		Description: "Simulated conditions",
		ObservedAt:  clock.Now(),
	}
}

// cellSeed maps a cell id into the generator's seed space using the first
// eight bytes of its SHA-256 digest. An explicit hash (rather than a runtime
// identity hash) keeps simulated weather reproducible across processes.
func cellSeed(cellID string) uint64 {
	sum := sha256.Sum256([]byte(cellID))
	return binary.BigEndian.Uint64(sum[:8])
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
