package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceRows(t *testing.T) {
	t.Parallel()

	plan, err := PackFixed([]Order{{UnitSize: 2, Count: 2}, {UnitSize: 7, Count: 1}}, 10)
	require.NoError(t, err)

	assert.Equal(t, []PieceRow{
		{Bin: 1, Piece: 1, Magnitude: 7, Start: 0, End: 7},
		{Bin: 1, Piece: 2, Magnitude: 2, Start: 7, End: 9},
		{Bin: 2, Piece: 1, Magnitude: 2, Start: 0, End: 2},
	}, PieceRows(plan))
}

func TestBinRows(t *testing.T) {
	t.Parallel()

	plan, _, err := PackCatalog([]Order{{UnitSize: 8, Count: 1}, {UnitSize: 5, Count: 1}}, 10, []float64{30, 100}, 1)
	require.NoError(t, err)

	rows := BinRows(plan)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Bin)
	assert.Equal(t, 100.0, rows[0].Capacity)
	assert.Equal(t, 1, rows[0].Pieces)
	assert.InDelta(t, 20, rows[0].Headroom, 1e-9)
	assert.Equal(t, StatusOptimal, rows[0].Status)

	assert.Equal(t, 2, rows[1].Bin)
	assert.Equal(t, 100.0, rows[1].Capacity)
	assert.Equal(t, StatusUnderutilized, rows[1].Status)
	assert.InDelta(t, 0.5, rows[1].Utilization, 1e-9)
}
