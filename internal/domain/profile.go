package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// profileNamespace scopes the name-based UUIDs of profiles that arrive
// without an ID.
var profileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:sounding-qc:profile"))

// RawProfile is the JSON document published by the upstream loader, one per
// sounding. Float arrays accept null for unreported values.
type RawProfile struct {
	ID              string     `json:"id,omitempty"`
	StationID       string     `json:"station_id"`
	ObservationTime time.Time  `json:"observation_time"`
	Pressure        []*float64 `json:"pressure"`              // Pa
	TObs            []*float64 `json:"t_obs"`                 // K
	TBkg            []*float64 `json:"t_bkg"`                 // K, background at obs location
	TCorrection     []*float64 `json:"t_correction,omitempty"` // K, additive bias correction
	TFlags          []int      `json:"t_flags,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Profile is a decoded sounding with its level data loaded into a store.
type Profile struct {
	ID              string
	StationID       string
	ObservationTime time.Time
	Store           *LevelDataStore

	RawPayload []byte
}

// ParseRawEvent deserializes a RawEvent's value into a Profile. The profile ID
// comes from the document, then the message key, then a deterministic hash of
// station and observation time.
func ParseRawEvent(raw RawEvent) (Profile, error) {
	var rec RawProfile
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Profile{}, fmt.Errorf("parse raw profile: %w", err)
	}
	if rec.ID == "" {
		rec.ID = string(raw.Key)
	}
	if rec.ObservationTime.IsZero() {
		rec.ObservationTime = raw.Timestamp
	}

	p := NewProfile(rec)
	p.RawPayload = raw.Value
	return p, nil
}

// NewProfile builds a Profile from a decoded document. Absent or empty
// corrections and flags default to zeros sized to the observations; all other vectors are
// stored as received so that length problems reach the checks.
func NewProfile(rec RawProfile) Profile {
	store := NewLevelDataStore()
	store.PutFloats(NameAirPressure, floatsOrMissing(rec.Pressure))
	store.PutFloats(NameObsTemperature, floatsOrMissing(rec.TObs))
	store.PutFloats(NameHofXTemperature, floatsOrMissing(rec.TBkg))

	if len(rec.TCorrection) == 0 {
		store.PutFloats(NameTObsCorrection, make([]float64, len(rec.TObs)))
	} else {
		store.PutFloats(NameTObsCorrection, floatsOrMissing(rec.TCorrection))
	}

	flags := make([]int, len(rec.TObs))
	if len(rec.TFlags) > 0 {
		flags = append([]int(nil), rec.TFlags...)
	}
	store.PutInts(NameQCTFlags, flags)

	id := rec.ID
	if id == "" {
		id = generateID(rec.StationID, rec.ObservationTime)
	}

	return Profile{
		ID:              id,
		StationID:       rec.StationID,
		ObservationTime: rec.ObservationTime.UTC(),
		Store:           store,
	}
}

// floatsOrMissing replaces null entries with MissingFloat.
func floatsOrMissing(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = MissingFloat
			continue
		}
		out[i] = *v
	}
	return out
}

// generateID produces a deterministic ID so that replays of the same sounding
// map to the same report key.
func generateID(stationID string, obsTime time.Time) string {
	input := fmt.Sprintf("%s|%s", stationID, obsTime.UTC().Format(time.RFC3339))
	id := uuid.NewSHA1(profileNamespace, []byte(input)).String()
	if stationID == "" {
		return id
	}
	return stationID + "-" + id
}
