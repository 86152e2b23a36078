package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sounding-qc-service/internal/config"
	"github.com/couchcryptid/sounding-qc-service/internal/domain"
	"github.com/couchcryptid/sounding-qc-service/internal/observability"
	"github.com/couchcryptid/sounding-qc-service/internal/pipeline"
	"github.com/couchcryptid/sounding-qc-service/internal/qc"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Input         string
	ConfigFile    string
	Output        string
	Workers       int
	FailOnFlagged bool
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every profile in a fixture and print a summary table",
		Example: `  # Check the bundled mock soundings
  profilecheck run --input data/mock/soundings_240426.json

  # Tighter threshold, reports written to a file
  profilecheck run --input soundings.json --spdt-t-thresh 0.5 --output reports.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "JSON fixture of raw profiles")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML file with QC settings")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write QC reports as JSON to this path")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Profiles checked concurrently")
	cmd.Flags().BoolVar(&opts.FailOnFlagged, "fail-on-flagged", false, "Exit non-zero if any profile is flagged")

	// Read back through config.LoadQC; they override file and environment.
	cmd.Flags().StringSlice("checks", []string{config.DefaultChecks}, "Checks to run, in order")
	cmd.Flags().Float64("spdt-t-thresh", config.DefaultSPDTCheckTThresh, "SamePDiffT temperature threshold (K)")
	cmd.Flags().Int("max-levels", 0, "Cap on levels inspected per profile (0 = no cap)")
	cmd.Flags().Float64("min-pressure", 0, "Ignore trailing levels below this pressure in Pa (0 = no cutoff)")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runRun(cmd *cobra.Command, global *globalOptions, opts *RunOptions) error {
	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), global.logLevel, global.logFormat)

	qcCfg, err := config.LoadQC(opts.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}

	runner, err := qc.NewRunner(qc.NewDefaultRegistry(), qcCfg.Checks, qcCfg.CheckOptions(logger))
	if err != nil {
		return err
	}

	recs, err := loadFixture(opts.Input)
	if err != nil {
		return err
	}
	profiles := make([]domain.Profile, len(recs))
	for i, rec := range recs {
		profiles[i] = domain.NewProfile(rec)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reports, err := pipeline.CheckProfiles(ctx, runner, profiles, qcCfg.IndicesOptions(), opts.Workers)
	if err != nil {
		return err
	}

	renderReports(cmd, runner.Names(), reports)

	if opts.Output != "" {
		if err := writeReports(opts.Output, reports); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d reports to %s\n", len(reports), opts.Output)
	}

	if opts.FailOnFlagged {
		if n := countStatus(reports, domain.StatusFlagged); n > 0 {
			return fmt.Errorf("%d of %d profiles flagged", n, len(reports))
		}
	}
	return nil
}

func renderReports(cmd *cobra.Command, checks []string, reports []domain.QCReport) {
	w := cmd.OutOrStdout()
	if len(reports) == 0 {
		_, _ = fmt.Fprintln(w, "(0 profiles)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"profile", "station", "levels", "checked", "status", "rejected"}
	for _, c := range checks {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, r := range reports {
		row := table.Row{r.ProfileID, r.StationID, r.NumLevels, r.NumLevelsChecked, r.Status, formatLevels(r.RejectedLevels)}
		for _, o := range r.Outcomes {
			row = append(row, formatOutcome(o))
		}
		t.AppendRow(row)
	}

	t.Render()

	_, _ = fmt.Fprintf(w, "%d profiles: %d clean / %d flagged / %d skipped\n",
		len(reports),
		countStatus(reports, domain.StatusClean),
		countStatus(reports, domain.StatusFlagged),
		countStatus(reports, domain.StatusSkipped))
}

func formatOutcome(o domain.CheckOutcome) string {
	if o.Status == domain.StatusSkipped {
		return "skipped: " + o.Reason
	}
	if o.Violations == 0 {
		return "ok"
	}
	return fmt.Sprintf("%d violation(s)", o.Violations)
}

func formatLevels(levels []int) string {
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprint(l)
	}
	return strings.Join(parts, ",")
}

func countStatus(reports []domain.QCReport, status string) int {
	n := 0
	for _, r := range reports {
		if r.Status == status {
			n++
		}
	}
	return n
}

func writeReports(path string, reports []domain.QCReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
