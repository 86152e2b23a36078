package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStation = "03743"

func TestParseRawEvent(t *testing.T) {
	obsTime := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

	t.Run("full profile", func(t *testing.T) {
		data := []byte(`{"id":"snd-1","station_id":"03743","observation_time":"2024-04-26T12:00:00Z",
			"pressure":[50000,50000,40000],"t_obs":[270,280,null],"t_bkg":[269,269.5,250],
			"t_correction":[0.5,null,0],"t_flags":[0,4,0]}`)
		p, err := ParseRawEvent(RawEvent{Value: data})
		require.NoError(t, err)

		assert.Equal(t, "snd-1", p.ID)
		assert.Equal(t, testStation, p.StationID)
		assert.Equal(t, obsTime, p.ObservationTime)
		assert.Equal(t, data, p.RawPayload)

		tObs, err := p.Store.Floats(NameObsTemperature)
		require.NoError(t, err)
		assert.Equal(t, []float64{270, 280, MissingFloat}, tObs)

		corr, err := p.Store.Floats(NameTObsCorrection)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, MissingFloat, 0}, corr)

		flags, err := p.Store.Ints(NameQCTFlags)
		require.NoError(t, err)
		assert.Equal(t, []int{0, PermRejectFlag, 0}, flags)
	})

	t.Run("defaults for corrections and flags", func(t *testing.T) {
		data := []byte(`{"station_id":"03743","pressure":[50000,40000],"t_obs":[270,260],"t_bkg":[270,260]}`)
		p, err := ParseRawEvent(RawEvent{Value: data, Key: []byte("key-1"), Timestamp: obsTime})
		require.NoError(t, err)

		assert.Equal(t, "key-1", p.ID)
		assert.Equal(t, obsTime, p.ObservationTime)

		corr, err := p.Store.Floats(NameTObsCorrection)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, corr)

		flags, err := p.Store.Ints(NameQCTFlags)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 0}, flags)
	})

	t.Run("deterministic ID without key", func(t *testing.T) {
		data := []byte(`{"station_id":"03743","observation_time":"2024-04-26T12:00:00Z","pressure":[],"t_obs":[],"t_bkg":[]}`)
		p1, err := ParseRawEvent(RawEvent{Value: data})
		require.NoError(t, err)
		p2, err := ParseRawEvent(RawEvent{Value: data})
		require.NoError(t, err)

		assert.Equal(t, p1.ID, p2.ID)
		assert.True(t, strings.HasPrefix(p1.ID, testStation+"-"))
		_, err = uuid.Parse(strings.TrimPrefix(p1.ID, testStation+"-"))
		assert.NoError(t, err)
	})

	t.Run("mismatched lengths are kept", func(t *testing.T) {
		data := []byte(`{"id":"x","pressure":[50000],"t_obs":[270,271],"t_bkg":[270]}`)
		p, err := ParseRawEvent(RawEvent{Value: data})
		require.NoError(t, err)

		pressure, err := p.Store.Floats(NameAirPressure)
		require.NoError(t, err)
		assert.Len(t, pressure, 1)
		tObs, err := p.Store.Floats(NameObsTemperature)
		require.NoError(t, err)
		assert.Len(t, tObs, 2)
	})

	t.Run("empty corrections and flags default like absent ones", func(t *testing.T) {
		data := []byte(`{"id":"e","pressure":[50000,50000],"t_obs":[270,280],"t_bkg":[270,279],
			"t_correction":[],"t_flags":[]}`)
		p, err := ParseRawEvent(RawEvent{Value: data})
		require.NoError(t, err)

		corr, err := p.Store.Floats(NameTObsCorrection)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, corr)

		flags, err := p.Store.Ints(NameQCTFlags)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 0}, flags)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawEvent(RawEvent{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw profile")
	})
}

func TestNewProfile_CopiesFlags(t *testing.T) {
	rec := RawProfile{ID: "p", TObs: []*float64{ptr(1)}, TFlags: []int{0}}
	p := NewProfile(rec)

	flags, err := p.Store.Ints(NameQCTFlags)
	require.NoError(t, err)
	flags[0] = FinalRejectFlag
	assert.Equal(t, []int{0}, rec.TFlags)
}

func ptr(v float64) *float64 { return &v }
