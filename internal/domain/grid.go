package domain

import (
	"fmt"
	"math"
)

// kmPerDegreeLat is the approximate surface distance covered by one degree of
// latitude. Longitude is scaled by the cosine of the mean latitude.
const kmPerDegreeLat = 111.0

// GridCell is a single cell of a region's partition. Cells are derived
// deterministically from the region definition and never mutated.
type GridCell struct {
	ID       string     `json:"id"`
	RegionID string     `json:"region"`
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Center   Coordinate `json:"center"`
	Bounds   Bounds     `json:"bounds"`
	AreaKm2  float64    `json:"area_km2"`
}

// Partition subdivides the region's bounding box into GridRows × GridCols
// cells in row-major order. The union of the returned cells tiles the region
// bounds exactly: row r's north edge is region.North − r·latStep and column
// c's west edge is region.West + c·lngStep, so adjacent cells share edges.
func Partition(region Region) []GridCell {
	latStep := (region.Bounds.North - region.Bounds.South) / float64(region.GridRows)
	lngStep := (region.Bounds.East - region.Bounds.West) / float64(region.GridCols)

	cells := make([]GridCell, 0, region.GridRows*region.GridCols)
	for row := 0; row < region.GridRows; row++ {
		for col := 0; col < region.GridCols; col++ {
			north := region.Bounds.North - float64(row)*latStep
			south := north - latStep
			west := region.Bounds.West + float64(col)*lngStep
			east := west + lngStep

			bounds := Bounds{North: north, South: south, East: east, West: west}
			cells = append(cells, GridCell{
				ID:       CellID(region.ID, row, col),
				RegionID: region.ID,
				Row:      row,
				Col:      col,
				Center:   Coordinate{Lat: (north + south) / 2, Lng: (east + west) / 2},
				Bounds:   bounds,
				AreaKm2:  round2(approxArea(bounds)),
			})
		}
	}
	return cells
}

// CellID derives the deterministic identifier for a cell position.
func CellID(regionID string, row, col int) string {
	return fmt.Sprintf("%s_grid_%d_%d", regionID, row, col)
}

// FindCell returns the cell with the given id within region's partition.
// Returns ErrUnknownCell when no such cell exists.
func FindCell(region Region, cellID string) (GridCell, error) {
	for _, cell := range Partition(region) {
		if cell.ID == cellID {
			return cell, nil
		}
	}
	return GridCell{}, ErrUnknownCell
}

// approxArea estimates the surface area of a bounding box in km². One degree
// of latitude spans ~111 km; one degree of longitude spans 111·cos(lat) km at
// the box's mean latitude.
func approxArea(b Bounds) float64 {
	latDiff := math.Abs(b.North - b.South)
	lngDiff := math.Abs(b.East - b.West)
	avgLat := (b.North + b.South) / 2
	kmPerLng := kmPerDegreeLat * math.Cos(avgLat*math.Pi/180)
	return latDiff * kmPerDegreeLat * lngDiff * kmPerLng
}
