package packing

import (
	"fmt"
	"math"
)

// Expand turns orders into one demand unit per requested piece, in input order.
func Expand(orders []Order) ([]DemandUnit, error) {
	total := 0
	for i, o := range orders {
		if err := validateOrder(o); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		total += o.Count
	}

	units := make([]DemandUnit, 0, total)
	for _, o := range orders {
		for range o.Count {
			units = append(units, DemandUnit{Magnitude: o.UnitSize, Adjusted: o.UnitSize})
		}
	}
	return units, nil
}

func validateOrder(o Order) error {
	if !(o.UnitSize > 0) || math.IsInf(o.UnitSize, 1) || o.Count < 0 {
		return fmt.Errorf("%w: unit size %g, count %d", ErrInvalidOrder, o.UnitSize, o.Count)
	}
	return nil
}
