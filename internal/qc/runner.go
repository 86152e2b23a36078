package qc

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

// Result collects the outcomes of every check run on one profile.
type Result struct {
	Outcomes []domain.CheckOutcome
	Summary  *Summary
}

// Runner applies an ordered list of checks to one profile at a time. A Runner
// holds no per-profile state and may be shared between goroutines.
type Runner struct {
	checks []Check
	logger *slog.Logger
}

// NewRunner resolves the named checks from the registry, in order.
func NewRunner(registry *Registry, names []string, opts Options) (*Runner, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("qc: no checks configured")
	}
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		c, err := registry.Resolve(name, opts)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return &Runner{checks: checks, logger: opts.logger()}, nil
}

// Names returns the configured check names in run order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.checks))
	for i, c := range r.checks {
		names[i] = c.Name()
	}
	return names
}

// Run applies every check to the store in order. A check error stops the run;
// the outcomes gathered so far are returned with it.
func (r *Runner) Run(store *domain.LevelDataStore, indices domain.ProfileIndices) (Result, error) {
	res := Result{
		Outcomes: make([]domain.CheckOutcome, 0, len(r.checks)),
		Summary:  NewSummary(),
	}
	for _, c := range r.checks {
		out, err := c.Run(store, indices, res.Summary)
		if err != nil {
			return res, fmt.Errorf("run check %s: %w", c.Name(), err)
		}
		res.Outcomes = append(res.Outcomes, toCheckOutcome(c.Name(), out))
	}
	return res, nil
}

// RunProfile derives the profile's indices, runs the checks and builds the
// report.
func (r *Runner) RunProfile(p domain.Profile, opts domain.IndicesOptions) (domain.QCReport, error) {
	indices, err := domain.NewProfileIndices(p.Store, opts)
	if err != nil {
		return domain.QCReport{}, err
	}
	res, err := r.Run(p.Store, indices)
	if err != nil {
		return domain.QCReport{}, err
	}
	report := domain.NewQCReport(p, indices, res.Outcomes, res.Summary.Counters())
	r.logger.Debug("profile checked",
		"profile_id", p.ID,
		"levels_checked", indices.NumLevelsToCheck(),
		"num_any_errors", res.Summary.NumAnyErrors(),
		"status", report.Status,
	)
	return report, nil
}

func toCheckOutcome(name string, o Outcome) domain.CheckOutcome {
	co := domain.CheckOutcome{
		Check:      name,
		Status:     string(o.Status),
		Violations: o.Violations,
	}
	if o.Reason != nil {
		co.Reason = o.Reason.Error()
	}
	return co
}
