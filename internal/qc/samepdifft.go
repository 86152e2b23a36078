package qc

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

// SamePDiffTName is the registry name of the same-pressure check.
const SamePDiffTName = "SamePDiffT"

// SamePDiffT flags pairs of levels that report the same pressure but
// temperatures differing by more than a threshold.
//
// Of each inconsistent pair, the level whose bias-corrected temperature lies
// closer to the background is kept (ties keep the later level). The kept level
// gets InterpolationFlag, the other FinalRejectFlag, and later levels at the
// same pressure are compared against the kept one.
type SamePDiffT struct {
	threshold float64
	logger    *slog.Logger
}

// NewSamePDiffT returns the check with the given temperature threshold (K).
func NewSamePDiffT(threshold float64, logger *slog.Logger) (*SamePDiffT, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, fmt.Errorf("%s: invalid temperature threshold %v", SamePDiffTName, threshold)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SamePDiffT{threshold: threshold, logger: logger}, nil
}

func newSamePDiffTFromOptions(opts Options) (Check, error) {
	return NewSamePDiffT(opts.SPDTCheckTThresh, opts.logger())
}

func (c *SamePDiffT) Name() string { return SamePDiffTName }

// Threshold returns the configured temperature threshold.
func (c *SamePDiffT) Threshold() float64 { return c.threshold }

func (c *SamePDiffT) Run(store *domain.LevelDataStore, indices domain.ProfileIndices, summary *Summary) (Outcome, error) {
	c.logger.Debug("test for same pressure and different temperature")

	pressures, err := store.Floats(domain.NameAirPressure)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", SamePDiffTName, err)
	}
	tObs, err := store.Floats(domain.NameObsTemperature)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", SamePDiffTName, err)
	}
	tBkg, err := store.Floats(domain.NameHofXTemperature)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", SamePDiffTName, err)
	}
	tFlags, err := store.Ints(domain.NameQCTFlags)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", SamePDiffTName, err)
	}
	tObsCorrection, err := store.Floats(domain.NameTObsCorrection)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", SamePDiffTName, err)
	}

	if err := domain.ValidateLengths(len(pressures), len(tObs), len(tBkg), len(tFlags), len(tObsCorrection)); err != nil {
		c.logger.Warn("check will not be performed", "check", SamePDiffTName, "reason", err)
		return Skipped(err), nil
	}

	tObsFinal := domain.CorrectVector(tObs, tObsCorrection)
	numLevelsToCheck := min(indices.NumLevelsToCheck(), len(pressures))

	numErrors := 0
	prev := -1
	for j := 0; j < numLevelsToCheck; j++ {
		if domain.IsMissing(tObs[j]) {
			continue
		}
		if prev == -1 {
			prev = j
			continue
		}
		if pressures[j] != pressures[prev] {
			prev = j
			continue
		}

		if math.Abs(tObsFinal[j]-tObsFinal[prev]) <= c.threshold {
			prev = j
			continue
		}

		numErrors++
		summary.Increment(domain.CounterNumAnyErrors)

		use := prev
		if math.Abs(tObsFinal[j]-tBkg[j]) <= math.Abs(tObsFinal[prev]-tBkg[prev]) {
			tFlags[prev] |= domain.FinalRejectFlag
			tFlags[j] |= domain.InterpolationFlag
			use = j
		} else {
			tFlags[prev] |= domain.InterpolationFlag
			tFlags[j] |= domain.FinalRejectFlag
		}
		c.logFailure(prev, j, use, pressures, tObsFinal, tBkg)
		prev = use
	}

	if numErrors > 0 {
		summary.Increment(domain.CounterNumSamePErrObs)
	}
	return Completed(numErrors), nil
}

func (c *SamePDiffT) logFailure(prev, j, use int, pressures, tObsFinal, tBkg []float64) {
	c.logger.Debug("failed same P/different T check",
		"level_prev", prev,
		"level", j,
		"pressure_hpa", pressures[prev]*0.01,
		"t_obs_prev_c", tObsFinal[prev]-domain.T0C,
		"t_bkg_prev_c", tBkg[prev]-domain.T0C,
		"t_obs_c", tObsFinal[j]-domain.T0C,
		"t_bkg_c", tBkg[j]-domain.T0C,
		"t_obs_diff", tObsFinal[j]-tObsFinal[prev],
		"use_level", use,
	)
}
