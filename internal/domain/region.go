package domain

import "errors"

var (
	// ErrUnknownRegion is returned for region ids not present in the catalog.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownCell is returned when a region exists but the cell id does not.
	ErrUnknownCell = errors.New("unknown grid cell")
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a latitude/longitude bounding box in decimal degrees.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Region is a named forest region with fixed geographic bounds and a fixed
// grid partition arity. Regions are defined at process start and never
// mutated afterwards.
type Region struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Center      Coordinate `json:"center"`
	Bounds      Bounds     `json:"bounds"`
	GridRows    int        `json:"grid_rows"`
	GridCols    int        `json:"grid_cols"`
}

// Catalog is an immutable, ordered registry of regions.
type Catalog struct {
	regions map[string]Region
	order   []string
}

// NewCatalog returns the built-in catalog of four demonstration regions.
func NewCatalog() *Catalog {
	return NewCatalogWith(
		Region{
			ID:          "amazon",
			Name:        "Amazon Rainforest",
			Description: "Brazil - World's largest tropical rainforest",
			Center:      Coordinate{Lat: -3.4653, Lng: -62.2159},
			Bounds:      Bounds{North: -2.0, South: -5.0, East: -60.0, West: -65.0},
			GridRows:    3,
			GridCols:    4,
		},
		Region{
			ID:          "california",
			Name:        "California Forests",
			Description: "USA - Sierra Nevada and coastal forests",
			Center:      Coordinate{Lat: 37.5, Lng: -119.5},
			Bounds:      Bounds{North: 39.0, South: 36.0, East: -118.0, West: -121.0},
			GridRows:    3,
			GridCols:    4,
		},
		Region{
			ID:          "australia",
			Name:        "Australian Bushland",
			Description: "Australia - Eastern forest regions",
			Center:      Coordinate{Lat: -33.5, Lng: 150.5},
			Bounds:      Bounds{North: -32.0, South: -35.0, East: 152.0, West: 149.0},
			GridRows:    3,
			GridCols:    4,
		},
		Region{
			ID:          "mediterranean",
			Name:        "Mediterranean Forests",
			Description: "Southern Europe - Portugal, Spain, Greece",
			Center:      Coordinate{Lat: 38.5, Lng: -8.0},
			Bounds:      Bounds{North: 40.0, South: 37.0, East: -6.0, West: -10.0},
			GridRows:    3,
			GridCols:    4,
		},
	)
}

// NewCatalogWith builds a catalog from explicit region definitions,
// preserving the given order. Intended for tests and alternate deployments.
func NewCatalogWith(regions ...Region) *Catalog {
	c := &Catalog{
		regions: make(map[string]Region, len(regions)),
		order:   make([]string, 0, len(regions)),
	}
	for _, r := range regions {
		if _, dup := c.regions[r.ID]; dup {
			continue
		}
		c.regions[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c
}

// Get looks up a region by id. Returns ErrUnknownRegion when absent.
func (c *Catalog) Get(id string) (Region, error) {
	r, ok := c.regions[id]
	if !ok {
		return Region{}, ErrUnknownRegion
	}
	return r, nil
}

// All returns the regions in registration order.
func (c *Catalog) All() []Region {
	out := make([]Region, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.regions[id])
	}
	return out
}

// Len reports the number of registered regions.
func (c *Catalog) Len() int {
	return len(c.order)
}
