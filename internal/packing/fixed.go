package packing

import (
	"fmt"
	"math"
	"slices"
)

// PackFixed packs the orders into bins of one fixed capacity, such as stock
// rolls of a single length. Pieces longer than the capacity are rejected before
// any bin is opened.
func PackFixed(orders []Order, binCapacity float64) (Plan, error) {
	if !(binCapacity > 0) || math.IsInf(binCapacity, 1) {
		return Plan{}, fmt.Errorf("%w: got %g", ErrInvalidCapacity, binCapacity)
	}

	units, err := Expand(orders)
	if err != nil {
		return Plan{}, err
	}
	if err := checkFits(units, binCapacity); err != nil {
		return Plan{}, err
	}

	return greedyFit(units, fixedPolicy{capacity: binCapacity})
}

func checkFits(units []DemandUnit, capacity float64) error {
	var oversized []float64
	for _, u := range units {
		if u.Magnitude > capacity+tolerance && !slices.Contains(oversized, u.Magnitude) {
			oversized = append(oversized, u.Magnitude)
		}
	}
	if len(oversized) == 0 {
		return nil
	}
	return &PieceExceedsCapacityError{Capacity: capacity, Magnitudes: oversized}
}
