package packing

import "math"

// tolerance absorbs float rounding when comparing remaining capacity with a magnitude.
const tolerance = 1e-9

// Order requests Count units of UnitSize each (metres, or watts after conversion).
type Order struct {
	UnitSize float64 `json:"unitSize" yaml:"unit_size"`
	Count    int     `json:"count" yaml:"count"`
}

// DemandUnit is a single expanded piece. Adjusted equals Magnitude unless a
// safety factor was applied.
type DemandUnit struct {
	Magnitude float64
	Adjusted  float64
}

// Bin is a stock roll or a power source. Used sums the adjusted magnitudes of
// the assigned units and Consumption sums their raw magnitudes.
type Bin struct {
	Capacity    float64
	Units       []DemandUnit
	Used        float64
	Consumption float64
}

func newBin(capacity float64) *Bin {
	return &Bin{Capacity: capacity}
}

func (b *Bin) fits(u DemandUnit) bool {
	return b.Capacity-b.Used >= u.Adjusted-tolerance
}

func (b *Bin) add(u DemandUnit) {
	b.Units = append(b.Units, u)
	b.Used += u.Adjusted
	b.Consumption += u.Magnitude
}

// Utilization is Used/Capacity as a fraction.
func (b Bin) Utilization() float64 {
	if b.Capacity <= 0 {
		return 0
	}
	return b.Used / b.Capacity
}

// Overflow reports whether more was placed than the bin is rated for.
func (b Bin) Overflow() bool {
	return b.Used > b.Capacity+tolerance
}

// Waste is the unused capacity; overflowed bins waste nothing.
func (b Bin) Waste() float64 {
	return math.Max(0, b.Capacity-b.Used)
}

// Magnitudes returns the raw magnitudes of the assigned units in placement order.
func (b Bin) Magnitudes() []float64 {
	out := make([]float64, len(b.Units))
	for i, u := range b.Units {
		out[i] = u.Magnitude
	}
	return out
}

// Plan holds the bins of one packing call in creation order.
type Plan struct {
	Bins []Bin
}

// Units returns the number of demand units placed across all bins.
func (p Plan) Units() int {
	n := 0
	for _, b := range p.Bins {
		n += len(b.Units)
	}
	return n
}

// Statistics summarises a Plan. AverageUtilization uses real consumption, not
// adjusted usage.
type Statistics struct {
	Bins               int     `json:"bins"`
	Units              int     `json:"units"`
	RealConsumption    float64 `json:"realConsumption"`
	InstalledCapacity  float64 `json:"installedCapacity"`
	WastedCapacity     float64 `json:"wastedCapacity"`
	OverloadedBins     int     `json:"overloadedBins"`
	AverageUtilization float64 `json:"averageUtilization"`
}
