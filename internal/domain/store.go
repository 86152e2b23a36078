package domain

import (
	"fmt"
	"sort"
)

// LevelDataStore holds the named per-level vectors of a single profile.
// Vectors are returned by reference: writes through an Ints slice land in the
// store. Float vectors are inputs and must not be modified by checks.
//
// A store is owned by one goroutine for the duration of a profile's checks.
type LevelDataStore struct {
	floats map[string][]float64
	ints   map[string][]int
}

// NewLevelDataStore returns an empty store.
func NewLevelDataStore() *LevelDataStore {
	return &LevelDataStore{
		floats: make(map[string][]float64),
		ints:   make(map[string][]int),
	}
}

// PutFloats registers (or replaces) a float vector under name.
func (s *LevelDataStore) PutFloats(name string, v []float64) {
	delete(s.ints, name)
	s.floats[name] = v
}

// PutInts registers (or replaces) an integer vector under name.
func (s *LevelDataStore) PutInts(name string, v []int) {
	delete(s.floats, name)
	s.ints[name] = v
}

// Floats returns the float vector registered under name.
func (s *LevelDataStore) Floats(name string) ([]float64, error) {
	if v, ok := s.floats[name]; ok {
		return v, nil
	}
	if _, ok := s.ints[name]; ok {
		return nil, fmt.Errorf("get float %q: %w", name, ErrWrongType)
	}
	return nil, fmt.Errorf("get float %q: %w", name, ErrMissingField)
}

// Ints returns the integer vector registered under name.
func (s *LevelDataStore) Ints(name string) ([]int, error) {
	if v, ok := s.ints[name]; ok {
		return v, nil
	}
	if _, ok := s.floats[name]; ok {
		return nil, fmt.Errorf("get int %q: %w", name, ErrWrongType)
	}
	return nil, fmt.Errorf("get int %q: %w", name, ErrMissingField)
}

// Has reports whether any vector is registered under name.
func (s *LevelDataStore) Has(name string) bool {
	_, f := s.floats[name]
	_, i := s.ints[name]
	return f || i
}

// Names returns the registered variable names in sorted order.
func (s *LevelDataStore) Names() []string {
	names := make([]string, 0, len(s.floats)+len(s.ints))
	for n := range s.floats {
		names = append(names, n)
	}
	for n := range s.ints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
