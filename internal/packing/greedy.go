package packing

import (
	"cmp"
	"slices"
)

// binPolicy decides the capacity of a bin opened for a unit that fits nowhere else.
type binPolicy interface {
	open(need float64) (float64, error)
}

type fixedPolicy struct {
	capacity float64
}

func (p fixedPolicy) open(float64) (float64, error) {
	return p.capacity, nil
}

// catalogPolicy holds capacities in ascending order. When nothing is large
// enough the largest capacity is used and the bin overflows.
type catalogPolicy struct {
	capacities []float64
}

func (p catalogPolicy) open(need float64) (float64, error) {
	if len(p.capacities) == 0 {
		return 0, ErrEmptyCatalog
	}
	for _, c := range p.capacities {
		if c >= need-tolerance {
			return c, nil
		}
	}
	return p.capacities[len(p.capacities)-1], nil
}

// greedyFit is First-Fit-Decreasing over adjusted magnitudes. Units with equal
// adjusted magnitude keep their input order.
func greedyFit(units []DemandUnit, policy binPolicy) (Plan, error) {
	sorted := slices.Clone(units)
	slices.SortStableFunc(sorted, func(a, b DemandUnit) int {
		return cmp.Compare(b.Adjusted, a.Adjusted)
	})

	var bins []*Bin
	for _, u := range sorted {
		placed := false
		for _, b := range bins {
			if b.fits(u) {
				b.add(u)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		capacity, err := policy.open(u.Adjusted)
		if err != nil {
			return Plan{}, err
		}
		b := newBin(capacity)
		b.add(u)
		bins = append(bins, b)
	}

	plan := Plan{Bins: make([]Bin, 0, len(bins))}
	for _, b := range bins {
		plan.Bins = append(plan.Bins, *b)
	}
	return plan, nil
}
