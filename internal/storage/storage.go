package storage

import (
	"errors"
	"math"
	"slices"
	"sync"
)

const maxCatalogSize = 20

var (
	// ErrInvalidCatalog indicates the provided source ratings violate validation rules.
	ErrInvalidCatalog = errors.New("catalog must contain between 1 and 20 positive capacities")
)

var defaultCatalog = []float64{30, 60, 100, 150, 240, 320}

// Storage provides access to the source catalog used by the planner.
type Storage interface {
	GetCatalog() ([]float64, error)
	SetCatalog(capacities []float64) error
}

// MemoryStorage keeps the catalog in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	catalog []float64
}

// NewMemoryStorage initialises storage with a copy of the default catalog.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		catalog: cloneAndSort(defaultCatalog),
	}
}

// DefaultCatalog returns a copy of the default source ratings in watts.
func DefaultCatalog() []float64 {
	return cloneAndSort(defaultCatalog)
}

// GetCatalog returns a copy of the currently configured capacities.
func (s *MemoryStorage) GetCatalog() ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAndSort(s.catalog), nil
}

// SetCatalog validates, normalises, and stores the provided capacities.
func (s *MemoryStorage) SetCatalog(capacities []float64) error {
	normalized, err := normalizeCatalog(capacities)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = normalized
	s.mu.Unlock()

	return nil
}

func cloneAndSort(src []float64) []float64 {
	if len(src) == 0 {
		return []float64{}
	}

	out := slices.Clone(src)
	slices.Sort(out)
	return out
}

func normalizeCatalog(capacities []float64) ([]float64, error) {
	if len(capacities) == 0 {
		return nil, ErrInvalidCatalog
	}

	for _, c := range capacities {
		if !(c > 0) || math.IsInf(c, 1) {
			return nil, ErrInvalidCatalog
		}
	}

	out := slices.Compact(cloneAndSort(capacities))
	if len(out) > maxCatalogSize {
		return nil, ErrInvalidCatalog
	}
	return out, nil
}
