// Package domain contains the core fire-risk types and pure computation: the
// region catalog, grid partitioning, weather observations (including the
// deterministic simulation fallback), fire-weather index derivation, risk
// classification, and explanation generation.
//
// # Grid Model
//
// Each region's bounding box is subdivided into GridRows × GridCols cells in
// row-major order (top-to-bottom, left-to-right). Cells are recomputed on
// demand and never persisted — the partition is a pure function of the region
// definition, so the same cell ids and bounds come back on every request.
//
// # Weather Simulation
//
// When live weather is unavailable, observations are simulated from a
// pseudo-random generator seeded with a stable hash of the cell id (first
// eight bytes of SHA-256). Repeated calls for the same cell therefore produce
// identical values within and across process runs. The exact numeric output
// is a property of this seed function, not a cross-implementation contract.
//
// # Fire-Weather Indices
//
// The six indices (FFMC, DMC, DC, ISI, BUI, FWI) are simplified single-shot
// approximations of the Canadian Fire Weather Index components. A real FWI
// system carries state across days; these are derived from the current
// observation alone and clamped to fixed valid ranges:
//
//	FFMC 40–96 | DMC 1–30 | DC 5–400 | ISI 0–15 | BUI 1–40 | FWI 0–25
//
// Everything in this package is side-effect-free and safe for concurrent use.
// IO lives in the adapter packages; orchestration lives in internal/predictor.
package domain
