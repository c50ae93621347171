package packing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidOrder is returned when an order has a non-positive unit size or a negative count.
	ErrInvalidOrder = errors.New("orders must have a positive unit size and a non-negative count")
	// ErrInvalidCapacity is returned when the fixed bin capacity is not positive.
	ErrInvalidCapacity = errors.New("bin capacity must be positive")
	// ErrInvalidParameter is returned for a non-positive unit rate or catalog entry, or a safety factor below 1.
	ErrInvalidParameter = errors.New("unit rate and catalog capacities must be positive and safety factor at least 1")
	// ErrPieceExceedsCapacity is returned when a single unit can never fit a bin of the configured size.
	ErrPieceExceedsCapacity = errors.New("piece exceeds bin capacity")
	// ErrEmptyCatalog is returned when a new bin must be opened but the catalog has no capacities.
	ErrEmptyCatalog = errors.New("capacity catalog is empty")
)

// PieceExceedsCapacityError lists every distinct magnitude that is larger than the bin capacity.
type PieceExceedsCapacityError struct {
	Capacity   float64
	Magnitudes []float64
}

func (e *PieceExceedsCapacityError) Error() string {
	parts := make([]string, len(e.Magnitudes))
	for i, m := range e.Magnitudes {
		parts[i] = strconv.FormatFloat(m, 'g', -1, 64)
	}
	return fmt.Sprintf("%s: %s > %s", ErrPieceExceedsCapacity.Error(),
		strings.Join(parts, ", "), strconv.FormatFloat(e.Capacity, 'g', -1, 64))
}

// Is makes errors.Is(err, ErrPieceExceedsCapacity) match.
func (e *PieceExceedsCapacityError) Is(target error) bool {
	return target == ErrPieceExceedsCapacity
}
