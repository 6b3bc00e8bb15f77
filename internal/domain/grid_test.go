package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coordTolerance = 1e-9

func TestPartitionProducesFullGrid(t *testing.T) {
	for _, region := range NewCatalog().All() {
		t.Run(region.ID, func(t *testing.T) {
			cells := Partition(region)
			require.Len(t, cells, region.GridRows*region.GridCols)

			// Row-major order with deterministic ids.
			for i, cell := range cells {
				assert.Equal(t, i/region.GridCols, cell.Row)
				assert.Equal(t, i%region.GridCols, cell.Col)
				assert.Equal(t, fmt.Sprintf("%s_grid_%d_%d", region.ID, cell.Row, cell.Col), cell.ID)
				assert.Equal(t, region.ID, cell.RegionID)
			}
		})
	}
}

func TestPartitionTilesRegionExactly(t *testing.T) {
	for _, region := range NewCatalog().All() {
		t.Run(region.ID, func(t *testing.T) {
			cells := Partition(region)
			latStep := (region.Bounds.North - region.Bounds.South) / float64(region.GridRows)
			lngStep := (region.Bounds.East - region.Bounds.West) / float64(region.GridCols)

			for _, cell := range cells {
				b := cell.Bounds
				assert.InDelta(t, region.Bounds.North-float64(cell.Row)*latStep, b.North, coordTolerance)
				assert.InDelta(t, b.North-latStep, b.South, coordTolerance)
				assert.InDelta(t, region.Bounds.West+float64(cell.Col)*lngStep, b.West, coordTolerance)
				assert.InDelta(t, b.West+lngStep, b.East, coordTolerance)

				// Center is the midpoint of the cell bounds.
				assert.InDelta(t, (b.North+b.South)/2, cell.Center.Lat, coordTolerance)
				assert.InDelta(t, (b.East+b.West)/2, cell.Center.Lng, coordTolerance)
			}

			// Outer edges of the grid coincide with the region bounds.
			first := cells[0].Bounds
			last := cells[len(cells)-1].Bounds
			assert.InDelta(t, region.Bounds.North, first.North, coordTolerance)
			assert.InDelta(t, region.Bounds.West, first.West, coordTolerance)
			assert.InDelta(t, region.Bounds.South, last.South, coordTolerance)
			assert.InDelta(t, region.Bounds.East, last.East, coordTolerance)

			// Adjacent cells share edges: no gaps, no overlaps.
			for _, cell := range cells {
				if cell.Col+1 < region.GridCols {
					right := cells[cell.Row*region.GridCols+cell.Col+1]
					assert.InDelta(t, cell.Bounds.East, right.Bounds.West, coordTolerance)
				}
				if cell.Row+1 < region.GridRows {
					below := cells[(cell.Row+1)*region.GridCols+cell.Col]
					assert.InDelta(t, cell.Bounds.South, below.Bounds.North, coordTolerance)
				}
			}
		})
	}
}

func TestPartitionCellAreas(t *testing.T) {
	for _, region := range NewCatalog().All() {
		t.Run(region.ID, func(t *testing.T) {
			regionArea := approxArea(region.Bounds)
			for _, cell := range Partition(region) {
				assert.Positive(t, cell.AreaKm2)
				assert.Less(t, cell.AreaKm2, regionArea)
				// Rounded to two decimals.
				assert.InDelta(t, cell.AreaKm2, math.Round(cell.AreaKm2*100)/100, 1e-12)
			}
		})
	}
}

func TestFindCell(t *testing.T) {
	region, err := NewCatalog().Get("california")
	require.NoError(t, err)

	cell, err := FindCell(region, "california_grid_2_3")
	require.NoError(t, err)
	assert.Equal(t, 2, cell.Row)
	assert.Equal(t, 3, cell.Col)

	_, err = FindCell(region, "california_grid_9_9")
	assert.True(t, errors.Is(err, ErrUnknownCell))
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog()

	assert.Equal(t, 4, catalog.Len())

	region, err := catalog.Get("amazon")
	require.NoError(t, err)
	assert.Equal(t, "Amazon Rainforest", region.Name)
	assert.Equal(t, 3, region.GridRows)
	assert.Equal(t, 4, region.GridCols)

	_, err = catalog.Get("atlantis")
	assert.True(t, errors.Is(err, ErrUnknownRegion))

	// All preserves registration order.
	var ids []string
	for _, r := range catalog.All() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"amazon", "california", "australia", "mediterranean"}, ids)
}
