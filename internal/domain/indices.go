package domain

import (
	"errors"
	"fmt"
)

// IndicesOptions bound the levels eligible for checking.
type IndicesOptions struct {
	// MaxLevels caps the number of levels inspected. Zero means no cap.
	MaxLevels int
	// MinPressure (Pa) excludes trailing levels reported above this height.
	// Zero means no cutoff.
	MinPressure float64
}

// ProfileIndices describes the eligible-level window of one profile. It is
// computed once before checks run and stays constant for the profile.
type ProfileIndices struct {
	numLevels        int
	numLevelsToCheck int
}

// NewFixedIndices returns indices that make the first n levels eligible.
func NewFixedIndices(n int) ProfileIndices {
	if n < 0 {
		n = 0
	}
	return ProfileIndices{numLevels: n, numLevelsToCheck: n}
}

// NewProfileIndices derives the eligible window from the store: the level
// count, capped at MaxLevels, minus trailing levels above MinPressure or
// already carrying the final-reject flag.
func NewProfileIndices(store *LevelDataStore, opts IndicesOptions) (ProfileIndices, error) {
	pressures, err := store.Floats(NameAirPressure)
	if err != nil {
		return ProfileIndices{}, fmt.Errorf("profile indices: %w", err)
	}
	flags, err := store.Ints(NameQCTFlags)
	if err != nil && !errors.Is(err, ErrMissingField) {
		return ProfileIndices{}, fmt.Errorf("profile indices: %w", err)
	}

	n := len(pressures)
	total := n
	if opts.MaxLevels > 0 && n > opts.MaxLevels {
		n = opts.MaxLevels
	}
	for n > 0 && excludeTrailing(n-1, pressures, flags, opts.MinPressure) {
		n--
	}
	return ProfileIndices{numLevels: total, numLevelsToCheck: n}, nil
}

func excludeTrailing(i int, pressures []float64, flags []int, minPressure float64) bool {
	if minPressure > 0 && !IsMissing(pressures[i]) && pressures[i] < minPressure {
		return true
	}
	return i < len(flags) && HasFlag(flags[i], FinalRejectFlag)
}

// NumLevels returns the physical level count of the profile.
func (p ProfileIndices) NumLevels() int { return p.numLevels }

// NumLevelsToCheck returns the size of the eligible window [0, n).
func (p ProfileIndices) NumLevelsToCheck() int { return p.numLevelsToCheck }
