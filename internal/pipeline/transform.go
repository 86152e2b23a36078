package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
	"github.com/couchcryptid/sounding-qc-service/internal/observability"
	"github.com/couchcryptid/sounding-qc-service/internal/qc"
)

// QCTransformer implements Transformer by decoding a sounding, running the
// configured checks over it and serializing the resulting report.
type QCTransformer struct {
	runner  *qc.Runner
	indices domain.IndicesOptions
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a QCTransformer. The runner is shared across
// concurrent Transform calls.
func NewTransformer(runner *qc.Runner, indices domain.IndicesOptions, logger *slog.Logger, metrics *observability.Metrics) *QCTransformer {
	return &QCTransformer{
		runner:  runner,
		indices: indices,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *QCTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	profile, err := domain.ParseRawEvent(raw)
	if err != nil {
		t.metrics.DecodeErrors.Inc()
		return domain.OutputEvent{}, err
	}

	report, err := t.runner.RunProfile(profile, t.indices)
	if err != nil {
		t.metrics.ProfileErrors.Inc()
		return domain.OutputEvent{}, fmt.Errorf("check profile %s: %w", profile.ID, err)
	}

	t.record(report)

	return domain.SerializeReport(report)
}

func (t *QCTransformer) record(r domain.QCReport) {
	for _, o := range r.Outcomes {
		if o.Violations > 0 {
			t.metrics.CheckViolations.WithLabelValues(o.Check).Add(float64(o.Violations))
		}
		if o.Status == domain.StatusSkipped {
			t.metrics.ChecksSkipped.WithLabelValues(o.Check).Inc()
		}
	}
	t.metrics.LevelsRejected.Add(float64(len(r.RejectedLevels)))
	t.metrics.ProfilesByState.WithLabelValues(r.Status).Inc()
}
