package domain

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return v == MissingFloat
}

// CorrectVector returns obs + correction element-wise. A missing observation
// stays missing; a missing correction leaves the observation unchanged.
// The vectors must have equal length.
func CorrectVector(obs, correction []float64) []float64 {
	out := make([]float64, len(obs))
	for i, v := range obs {
		switch {
		case IsMissing(v):
			out[i] = MissingFloat
		case IsMissing(correction[i]):
			out[i] = v
		default:
			out[i] = v + correction[i]
		}
	}
	return out
}

// ValidateLengths returns ErrEmptyInput if any length is zero and
// ErrSizeMismatch if the lengths differ. Emptiness is checked first.
func ValidateLengths(lengths ...int) error {
	for _, n := range lengths {
		if n == 0 {
			return ErrEmptyInput
		}
	}
	for _, n := range lengths[1:] {
		if n != lengths[0] {
			return ErrSizeMismatch
		}
	}
	return nil
}
