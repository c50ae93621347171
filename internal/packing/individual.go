package packing

import (
	"fmt"
	"slices"
)

// AssignIndividual picks the smallest catalog capacity that covers
// magnitude×safetyFactor. If none does, the largest capacity is returned with
// overflowed set. ok is false only for an empty catalog.
func AssignIndividual(magnitude float64, catalog []float64, safetyFactor float64) (capacity float64, overflowed, ok bool) {
	adjusted := magnitude * safetyFactor
	capacity, err := catalogPolicy{capacities: slices.Sorted(slices.Values(catalog))}.open(adjusted)
	if err != nil {
		return 0, false, false
	}
	return capacity, adjusted > capacity+tolerance, true
}

// Assignment is the dedicated source chosen for every piece of one unit size.
type Assignment struct {
	UnitSize    float64 `json:"unitSize"`
	Count       int     `json:"count"`
	Consumption float64 `json:"consumption"`
	Adjusted    float64 `json:"adjusted"`
	Capacity    float64 `json:"capacity"`
	Overflowed  bool    `json:"overflowed"`
}

// IndividualResult lists assignments per distinct unit size and the resulting
// number of sources per capacity.
type IndividualResult struct {
	Assignments []Assignment  `json:"assignments"`
	Counts      []SourceCount `json:"counts"`
}

// AssignOrders gives every piece its own source. Orders with the same unit size
// are merged first (first appearance wins the position) and the capacity is
// chosen once per size, then multiplied by the merged count. No bin sharing
// happens in this mode.
func AssignOrders(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (IndividualResult, error) {
	if err := validateRates(unitRate, safetyFactor); err != nil {
		return IndividualResult{}, err
	}
	capacities, err := NormalizeCatalog(catalog)
	if err != nil {
		return IndividualResult{}, err
	}

	merged := make([]Order, 0, len(orders))
	for i, o := range orders {
		if err := validateOrder(o); err != nil {
			return IndividualResult{}, fmt.Errorf("order %d: %w", i, err)
		}
		idx := slices.IndexFunc(merged, func(m Order) bool { return m.UnitSize == o.UnitSize })
		if idx < 0 {
			merged = append(merged, o)
			continue
		}
		merged[idx].Count += o.Count
	}

	result := IndividualResult{Assignments: []Assignment{}, Counts: []SourceCount{}}
	counts := make(map[float64]int)
	for _, o := range merged {
		if o.Count == 0 {
			continue
		}
		consumption := o.UnitSize * unitRate
		capacity, overflowed, ok := AssignIndividual(consumption, capacities, safetyFactor)
		if !ok {
			return IndividualResult{}, ErrEmptyCatalog
		}
		result.Assignments = append(result.Assignments, Assignment{
			UnitSize:    o.UnitSize,
			Count:       o.Count,
			Consumption: consumption,
			Adjusted:    consumption * safetyFactor,
			Capacity:    capacity,
			Overflowed:  overflowed,
		})
		counts[capacity] += o.Count
	}
	result.Counts = sortedCounts(counts)
	return result, nil
}
