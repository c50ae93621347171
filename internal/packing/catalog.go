package packing

import (
	"fmt"
	"math"
	"slices"
)

// PackCatalog groups power loads onto sources chosen from the catalog. Each
// order's unit size is converted with unitRate and scaled by safetyFactor; the
// scaled value is what consumes source capacity. A load larger than every
// catalog entry gets the largest source and the bin is left overflowing.
func PackCatalog(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (Plan, Statistics, error) {
	if err := validateRates(unitRate, safetyFactor); err != nil {
		return Plan{}, Statistics{}, err
	}
	capacities, err := NormalizeCatalog(catalog)
	if err != nil {
		return Plan{}, Statistics{}, err
	}

	units, err := Expand(orders)
	if err != nil {
		return Plan{}, Statistics{}, err
	}
	for i := range units {
		units[i].Magnitude *= unitRate
		units[i].Adjusted = units[i].Magnitude * safetyFactor
	}

	plan, err := greedyFit(units, catalogPolicy{capacities: capacities})
	if err != nil {
		return Plan{}, Statistics{}, err
	}
	return plan, Summarize(plan), nil
}

// NormalizeCatalog returns the capacities sorted ascending without duplicates.
// An empty catalog is not an error here.
func NormalizeCatalog(catalog []float64) ([]float64, error) {
	out := make([]float64, 0, len(catalog))
	for _, c := range catalog {
		if !(c > 0) || math.IsInf(c, 1) {
			return nil, fmt.Errorf("%w: catalog capacity %g", ErrInvalidParameter, c)
		}
		out = append(out, c)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func validateRates(unitRate, safetyFactor float64) error {
	if !(unitRate > 0) || math.IsInf(unitRate, 1) {
		return fmt.Errorf("%w: unit rate %g", ErrInvalidParameter, unitRate)
	}
	if !(safetyFactor >= 1) || math.IsInf(safetyFactor, 1) {
		return fmt.Errorf("%w: safety factor %g", ErrInvalidParameter, safetyFactor)
	}
	return nil
}
