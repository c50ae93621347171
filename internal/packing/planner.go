package packing

// Planner describes the packing operations the HTTP layer depends on.
type Planner interface {
	PackFixed(orders []Order, binCapacity float64) (Plan, error)
	PackCatalog(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (Plan, Statistics, error)
	AssignOrders(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (IndividualResult, error)
}

type engine struct{}

// New returns a Planner backed by the package functions. It holds no state and
// is safe for concurrent use.
func New() Planner {
	return engine{}
}

func (engine) PackFixed(orders []Order, binCapacity float64) (Plan, error) {
	return PackFixed(orders, binCapacity)
}

func (engine) PackCatalog(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (Plan, Statistics, error) {
	return PackCatalog(orders, unitRate, catalog, safetyFactor)
}

func (engine) AssignOrders(orders []Order, unitRate float64, catalog []float64, safetyFactor float64) (IndividualResult, error) {
	return AssignOrders(orders, unitRate, catalog, safetyFactor)
}
