package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultCatalog = []float64{30, 60, 100, 150, 240, 320}

func TestPackCatalogPicksSmallestSufficientSource(t *testing.T) {
	t.Parallel()

	plan, stats, err := PackCatalog([]Order{{UnitSize: 8, Count: 1}}, 10, []float64{100, 30, 60}, 1.2)
	require.NoError(t, err)
	require.Len(t, plan.Bins, 1)

	bin := plan.Bins[0]
	assert.Equal(t, 100.0, bin.Capacity)
	assert.InDelta(t, 96, bin.Used, 1e-9)
	assert.InDelta(t, 80, bin.Consumption, 1e-9)
	assert.InDelta(t, 0.96, bin.Utilization(), 1e-9)
	assert.False(t, bin.Overflow())
	assert.Equal(t, StatusNearLimit, bin.Status())

	assert.Equal(t, 1, stats.Bins)
	assert.Zero(t, stats.OverloadedBins)
	assert.InDelta(t, 0.8, stats.AverageUtilization, 1e-9)
}

func TestPackCatalogOverflowsLargestSource(t *testing.T) {
	t.Parallel()

	plan, stats, err := PackCatalog([]Order{{UnitSize: 5, Count: 1}}, 10, []float64{30}, 1)
	require.NoError(t, err)
	require.Len(t, plan.Bins, 1)

	bin := plan.Bins[0]
	assert.Equal(t, 30.0, bin.Capacity)
	assert.InDelta(t, 50, bin.Used, 1e-9)
	assert.True(t, bin.Overflow())
	assert.Equal(t, StatusOverloaded, bin.Status())
	assert.Zero(t, bin.Waste())

	assert.Equal(t, 1, stats.OverloadedBins)
	assert.Zero(t, stats.WastedCapacity)
}

func TestPackCatalogGroupsLoadsOntoSharedSources(t *testing.T) {
	t.Parallel()

	// 3 m and 1 m strips at 10 W/m with 20% margin: 36 W and 12 W adjusted.
	orders := []Order{{UnitSize: 1, Count: 3}, {UnitSize: 3, Count: 2}}
	plan, stats, err := PackCatalog(orders, 10, defaultCatalog, 1.2)
	require.NoError(t, err)
	require.Len(t, plan.Bins, 2)

	assert.Equal(t, 60.0, plan.Bins[0].Capacity)
	assert.Equal(t, []float64{30, 10, 10}, plan.Bins[0].Magnitudes())
	assert.InDelta(t, 60, plan.Bins[0].Used, 1e-9)

	assert.Equal(t, 60.0, plan.Bins[1].Capacity)
	assert.Equal(t, []float64{30, 10}, plan.Bins[1].Magnitudes())
	assert.InDelta(t, 48, plan.Bins[1].Used, 1e-9)

	assert.Equal(t, 5, stats.Units)
	assert.InDelta(t, 90, stats.RealConsumption, 1e-9)
	assert.InDelta(t, 120, stats.InstalledCapacity, 1e-9)
	assert.InDelta(t, 12, stats.WastedCapacity, 1e-9)
	assert.InDelta(t, 0.75, stats.AverageUtilization, 1e-9)

	for _, b := range plan.Bins {
		assert.LessOrEqual(t, b.Used, b.Capacity+1e-9)
	}
}

func TestPackCatalogOverflowBinAcceptsNoFurtherUnits(t *testing.T) {
	t.Parallel()

	plan, _, err := PackCatalog([]Order{{UnitSize: 5, Count: 1}, {UnitSize: 0.5, Count: 2}}, 10, []float64{30, 10}, 1)
	require.NoError(t, err)
	require.Len(t, plan.Bins, 2)

	assert.True(t, plan.Bins[0].Overflow())
	assert.Equal(t, []float64{50}, plan.Bins[0].Magnitudes())
	assert.Equal(t, 10.0, plan.Bins[1].Capacity)
	assert.Equal(t, []float64{5, 5}, plan.Bins[1].Magnitudes())
}

func TestPackCatalogEmptyOrders(t *testing.T) {
	t.Parallel()

	plan, stats, err := PackCatalog(nil, 10, nil, 1.2)
	require.NoError(t, err)
	assert.Empty(t, plan.Bins)
	assert.Equal(t, Statistics{}, stats)
}

func TestPackCatalogErrors(t *testing.T) {
	t.Parallel()

	orders := []Order{{UnitSize: 1, Count: 1}}

	tests := []struct {
		name         string
		orders       []Order
		unitRate     float64
		catalog      []float64
		safetyFactor float64
		wantErr      error
	}{
		{name: "EmptyCatalog", orders: orders, unitRate: 10, safetyFactor: 1, wantErr: ErrEmptyCatalog},
		{name: "ZeroUnitRate", orders: orders, unitRate: 0, catalog: defaultCatalog, safetyFactor: 1, wantErr: ErrInvalidParameter},
		{name: "SafetyFactorBelowOne", orders: orders, unitRate: 10, catalog: defaultCatalog, safetyFactor: 0.9, wantErr: ErrInvalidParameter},
		{name: "NegativeCatalogEntry", orders: orders, unitRate: 10, catalog: []float64{60, -30}, safetyFactor: 1, wantErr: ErrInvalidParameter},
		{name: "InvalidOrder", orders: []Order{{UnitSize: 0, Count: 2}}, unitRate: 10, catalog: defaultCatalog, safetyFactor: 1, wantErr: ErrInvalidOrder},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := PackCatalog(tc.orders, tc.unitRate, tc.catalog, tc.safetyFactor)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPackCatalogIsDeterministic(t *testing.T) {
	t.Parallel()

	orders := []Order{{UnitSize: 2.4, Count: 5}, {UnitSize: 1.1, Count: 9}, {UnitSize: 2.4, Count: 3}, {UnitSize: 30, Count: 1}}
	first, firstStats, err := PackCatalog(orders, 14.4, defaultCatalog, 1.25)
	require.NoError(t, err)

	again, againStats, err := PackCatalog(orders, 14.4, defaultCatalog, 1.25)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, firstStats, againStats)
}

func TestNormalizeCatalog(t *testing.T) {
	t.Parallel()

	got, err := NormalizeCatalog([]float64{240, 30, 60, 30, 100})
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 60, 100, 240}, got)

	empty, err := NormalizeCatalog(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func BenchmarkPackCatalog(b *testing.B) {
	orders := []Order{{UnitSize: 1.3, Count: 400}, {UnitSize: 2.7, Count: 300}, {UnitSize: 4.1, Count: 200}}
	for i := 0; i < b.N; i++ {
		if _, _, err := PackCatalog(orders, 10, defaultCatalog, 1.2); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
