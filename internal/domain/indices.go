package domain

import "math"

// Indices holds the six simplified fire-weather indices derived from a single
// observation. See the package documentation for the clamp ranges.
type Indices struct {
	FFMC float64 `json:"ffmc"` // fine fuel moisture code
	DMC  float64 `json:"dmc"`  // duff moisture code
	DC   float64 `json:"dc"`   // drought code
	ISI  float64 `json:"isi"`  // initial spread index
	BUI  float64 `json:"bui"`  // build-up index
	FWI  float64 `json:"fwi"`  // fire weather index
}

// DeriveIndices computes the fire-weather indices from an observation. Pure
// function of the four primary weather fields; each index is clamped to its
// valid range before the dependent indices are computed from it, so extreme
// inputs cannot push any output outside its documented range.
func DeriveIndices(obs Observation) Indices {
	temp := obs.Temperature
	humidity := obs.Humidity
	wind := obs.WindSpeed
	rain := obs.Rainfall

	// Fine fuel moisture: rises with heat, falls with humidity and rain.
	ffmc := Clamp(60+(temp-25)*1.5-(humidity-50)*0.3-rain*3, 40, 96)

	// Duff and drought codes: accumulate with heat, suppressed by rain.
	dmc := Clamp(10+(temp-25)*0.5-humidity*0.1, 1, 30)
	dc := Clamp(150+(temp-25)*5-rain*10, 5, 400)

	// Spread scales with fuel dryness and wind.
	isi := Clamp((ffmc-60)*0.15+wind*0.2, 0, 15)

	// Available fuel combines the two moisture codes.
	bui := Clamp(dmc*0.8+dc*0.02, 1, 40)

	// Overall intensity is the geometric mean of spread and build-up.
	fwi := Clamp(math.Sqrt(isi*bui), 0, 25)

	return Indices{
		FFMC: Round1(ffmc),
		DMC:  Round1(dmc),
		DC:   Round1(dc),
		ISI:  Round1(isi),
		BUI:  Round1(bui),
		FWI:  Round1(fwi),
	}
}
