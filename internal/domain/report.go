package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Report status values carried in the qc_status header.
const (
	StatusClean   = "clean"
	StatusFlagged = "flagged"
	StatusSkipped = "skipped"
)

// CheckOutcome records how one check went on one profile.
type CheckOutcome struct {
	Check      string `json:"check"`
	Status     string `json:"status"` // "completed" or "skipped"
	Reason     string `json:"reason,omitempty"`
	Violations int    `json:"violations"`
}

// QCReport is the result of running the configured checks over one profile.
type QCReport struct {
	ProfileID        string         `json:"profile_id"`
	StationID        string         `json:"station_id,omitempty"`
	ObservationTime  time.Time      `json:"observation_time"`
	NumLevels        int            `json:"num_levels"`
	NumLevelsChecked int            `json:"num_levels_checked"`
	Flags            []int          `json:"t_flags"`
	RejectedLevels   []int          `json:"rejected_levels"`
	Outcomes         []CheckOutcome `json:"outcomes"`
	Counters         map[string]int `json:"counters"`
	Status           string         `json:"qc_status"`
	ProcessedAt      time.Time      `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// NewQCReport assembles a report from the profile's final flags and the check
// outcomes, and stamps it with the package clock.
func NewQCReport(p Profile, indices ProfileIndices, outcomes []CheckOutcome, counters map[string]int) QCReport {
	flags, _ := p.Store.Ints(NameQCTFlags)
	flags = append([]int(nil), flags...)

	rejected := []int{}
	for i, f := range flags {
		if HasFlag(f, FinalRejectFlag) {
			rejected = append(rejected, i)
		}
	}

	return QCReport{
		ProfileID:        p.ID,
		StationID:        p.StationID,
		ObservationTime:  p.ObservationTime,
		NumLevels:        indices.NumLevels(),
		NumLevelsChecked: indices.NumLevelsToCheck(),
		Flags:            flags,
		RejectedLevels:   rejected,
		Outcomes:         outcomes,
		Counters:         counters,
		Status:           deriveStatus(rejected, outcomes),
		ProcessedAt:      clock.Now(),
	}
}

// deriveStatus is flagged if any check found a violation or any level is
// rejected, skipped if any check declined to run, and clean otherwise.
func deriveStatus(rejected []int, outcomes []CheckOutcome) string {
	skipped := false
	for _, o := range outcomes {
		if o.Violations > 0 {
			return StatusFlagged
		}
		if o.Status == StatusSkipped {
			skipped = true
		}
	}
	if len(rejected) > 0 {
		return StatusFlagged
	}
	if skipped {
		return StatusSkipped
	}
	return StatusClean
}

// SerializeReport marshals a report into an OutputEvent keyed by profile ID.
func SerializeReport(r QCReport) (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize qc report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(r.ProfileID),
		Value: data,
		Headers: map[string]string{
			"profile_id":   r.ProfileID,
			"qc_status":    r.Status,
			"processed_at": r.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
