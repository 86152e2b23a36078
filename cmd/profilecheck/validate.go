package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a fixture for structural problems before it is replayed",
		Long: `Validate reports fixture problems the QC checks would otherwise
skip silently: vectors whose lengths disagree, duplicate or missing
profile IDs, and pressures that increase with height.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := loadFixture(input)
			if err != nil {
				return err
			}
			phases := validateFixture(recs)
			if !renderPhases(cmd.OutOrStdout(), phases, len(recs)) {
				return fmt.Errorf("fixture %s failed validation", input)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON fixture of raw profiles")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func validateFixture(recs []domain.RawProfile) []*phase {
	return []*phase{
		validateShapes(recs),
		validateIdentity(recs),
		validatePressureOrder(recs),
	}
}

// validateShapes requires every per-level vector to match the observations.
func validateShapes(recs []domain.RawProfile) *phase {
	p := &phase{name: "Vector shapes"}
	for i, rec := range recs {
		n := len(rec.TObs)
		if n == 0 {
			p.errorf("profile %d (%s): no observations", i, rec.ID)
			continue
		}
		check := func(name string, got int, optional bool) {
			if optional && got == 0 {
				return
			}
			if got != n {
				p.errorf("profile %d (%s): %s has %d levels, t_obs has %d", i, rec.ID, name, got, n)
			}
		}
		check("pressure", len(rec.Pressure), false)
		check("t_bkg", len(rec.TBkg), false)
		check("t_correction", len(rec.TCorrection), true)
		check("t_flags", len(rec.TFlags), true)
	}
	return p
}

// validateIdentity requires unique IDs and a station for every profile.
func validateIdentity(recs []domain.RawProfile) *phase {
	p := &phase{name: "Identity"}
	seen := make(map[string]int, len(recs))
	for i, rec := range recs {
		if rec.StationID == "" {
			p.errorf("profile %d (%s): missing station_id", i, rec.ID)
		}
		if rec.ObservationTime.IsZero() {
			p.errorf("profile %d (%s): missing observation_time", i, rec.ID)
		}
		if rec.ID == "" {
			continue
		}
		if first, ok := seen[rec.ID]; ok {
			p.errorf("profile %d: id %q already used by profile %d", i, rec.ID, first)
			continue
		}
		seen[rec.ID] = i
	}
	return p
}

// validatePressureOrder requires reported pressures to be non-increasing.
// Repeated pressures are allowed; that is what the duplicate-level check is for.
func validatePressureOrder(recs []domain.RawProfile) *phase {
	p := &phase{name: "Pressure ordering"}
	for i, rec := range recs {
		prev := -1.0
		for j, v := range rec.Pressure {
			if v == nil {
				continue
			}
			if *v <= 0 {
				p.errorf("profile %d (%s) level %d: non-positive pressure %g", i, rec.ID, j, *v)
				continue
			}
			if prev > 0 && *v > prev {
				p.errorf("profile %d (%s) level %d: pressure %g Pa above previous %g Pa", i, rec.ID, j, *v, prev)
			}
			prev = *v
		}
	}
	return p
}

func renderPhases(w io.Writer, phases []*phase, n int) bool {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"phase", "result"})

	allPassed := true
	for _, p := range phases {
		result := "PASS"
		if !p.passed() {
			result = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		t.AppendRow(table.Row{p.name, result})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "%d profiles validated\n", n)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			_, _ = fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}
	return allPassed
}
