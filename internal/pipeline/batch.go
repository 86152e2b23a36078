package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
	"github.com/couchcryptid/sounding-qc-service/internal/qc"
)

// CheckProfiles runs the checks over already-decoded profiles, at most workers
// at a time, and returns the reports in input order. The first check error
// cancels the remaining work.
func CheckProfiles(ctx context.Context, runner *qc.Runner, profiles []domain.Profile, opts domain.IndicesOptions, workers int) ([]domain.QCReport, error) {
	if workers < 1 {
		workers = 1
	}
	reports := make([]domain.QCReport, len(profiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range profiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runner.RunProfile(p, opts)
			if err != nil {
				return fmt.Errorf("check profile %s: %w", p.ID, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
