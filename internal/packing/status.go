package packing

// Status classifies how hard a bin is loaded.
type Status string

const (
	StatusOverloaded    Status = "overloaded"
	StatusNearLimit     Status = "near_limit"
	StatusOptimal       Status = "optimal"
	StatusUnderutilized Status = "underutilized"
)

const (
	nearLimitThreshold = 0.9
	optimalThreshold   = 0.7
)

// Status reports the load class of the bin.
func (b Bin) Status() Status {
	switch u := b.Utilization(); {
	case b.Overflow():
		return StatusOverloaded
	case u >= nearLimitThreshold:
		return StatusNearLimit
	case u >= optimalThreshold:
		return StatusOptimal
	default:
		return StatusUnderutilized
	}
}
