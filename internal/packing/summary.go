package packing

import (
	"cmp"
	"slices"
)

// Summarize derives aggregate statistics from a plan. Waste and overload are
// judged per bin; average utilization compares real consumption with installed
// capacity so the safety margin does not distort it.
func Summarize(plan Plan) Statistics {
	stats := Statistics{Bins: len(plan.Bins)}
	for _, b := range plan.Bins {
		stats.Units += len(b.Units)
		stats.RealConsumption += b.Consumption
		stats.InstalledCapacity += b.Capacity
		stats.WastedCapacity += b.Waste()
		if b.Overflow() {
			stats.OverloadedBins++
		}
	}
	if stats.InstalledCapacity > 0 {
		stats.AverageUtilization = stats.RealConsumption / stats.InstalledCapacity
	}
	return stats
}

// SourceCount is how many bins of one capacity a plan uses.
type SourceCount struct {
	Capacity float64 `json:"capacity"`
	Count    int     `json:"count"`
}

// SourceCounts breaks a plan down by bin capacity, ascending.
func SourceCounts(plan Plan) []SourceCount {
	counts := make(map[float64]int)
	for _, b := range plan.Bins {
		counts[b.Capacity]++
	}
	return sortedCounts(counts)
}

func sortedCounts(counts map[float64]int) []SourceCount {
	out := make([]SourceCount, 0, len(counts))
	for capacity, n := range counts {
		out = append(out, SourceCount{Capacity: capacity, Count: n})
	}
	slices.SortFunc(out, func(a, b SourceCount) int {
		return cmp.Compare(a.Capacity, b.Capacity)
	})
	return out
}
