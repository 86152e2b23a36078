// Package qc implements the per-profile consistency checks and the machinery
// that runs them: a name-to-factory registry and a runner that applies a
// configured, ordered list of checks to one profile.
//
// Checks are synchronous and hold no state between profiles. Checks on the
// same profile must run in order because later checks may read flags written
// by earlier ones; independent profiles can be checked in parallel.
package qc

import (
	"log/slog"
	"maps"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

// Status reports whether a check ran on a profile.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = Status(domain.StatusSkipped)
)

// Outcome is the result of one check on one profile. A skipped outcome means
// the check left the store untouched; Reason says why.
type Outcome struct {
	Status     Status
	Reason     error
	Violations int
}

// Completed returns an outcome for a check that ran to the end.
func Completed(violations int) Outcome {
	return Outcome{Status: StatusCompleted, Violations: violations}
}

// Skipped returns an outcome for a check that declined to run.
func Skipped(reason error) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Check is one consistency check. Run mutates flags in the store and counters
// in the summary. Data problems produce a Skipped outcome; a returned error
// means the store is not set up for this check and the profile should be
// abandoned.
type Check interface {
	Name() string
	Run(store *domain.LevelDataStore, indices domain.ProfileIndices, summary *Summary) (Outcome, error)
}

// Options carries the parameters of every registered check. A check reads
// only the fields it needs.
type Options struct {
	// SPDTCheckTThresh is the temperature difference (K) above which two
	// levels at the same pressure are inconsistent.
	SPDTCheckTThresh float64 `koanf:"spdt_t_thresh"`

	Logger *slog.Logger `koanf:"-"`
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Summary is the profile-level QC record shared by all checks run on one
// profile. Counters only ever increase.
type Summary struct {
	counters map[string]int
}

// NewSummary returns a summary with all counters at zero.
func NewSummary() *Summary {
	return &Summary{counters: map[string]int{}}
}

// Increment adds one to the named counter.
func (s *Summary) Increment(name string) {
	s.counters[name]++
}

// Count returns the named counter.
func (s *Summary) Count(name string) int {
	return s.counters[name]
}

// NumAnyErrors returns the number of violations found by any check.
func (s *Summary) NumAnyErrors() int {
	return s.counters[domain.CounterNumAnyErrors]
}

// Counters returns a copy of all non-zero counters.
func (s *Summary) Counters() map[string]int {
	return maps.Clone(s.counters)
}
