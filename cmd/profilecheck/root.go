package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

type globalOptions struct {
	logLevel  string
	logFormat string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "profilecheck",
		Short:         "Run sounding QC checks over JSON fixtures",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newValidateCommand())
	return cmd
}

// loadFixture reads a JSON array of raw profiles.
func loadFixture(path string) ([]domain.RawProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var recs []domain.RawProfile
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return recs, nil
}
