package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

func testOptions() genOptions {
	return genOptions{count: 30, seed: 7, dupRate: 0.3, conflictPct: 0.5, missingRate: 0.05}
}

func TestGenerate_Deterministic(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC))

	a := generate(clock, testOptions())
	b := generate(clock, testOptions())
	assert.Equal(t, a, b)
}

func TestGenerate_ProfilesAreWellFormed(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC))
	recs := generate(clock, testOptions())
	require.Len(t, recs, 30)

	ids := map[string]bool{}
	for _, rec := range recs {
		assert.False(t, ids[rec.ID], "duplicate id %s", rec.ID)
		ids[rec.ID] = true

		n := len(rec.Pressure)
		assert.GreaterOrEqual(t, n, len(mandatoryLevels))
		assert.Len(t, rec.TObs, n)
		assert.Len(t, rec.TBkg, n)
		assert.Len(t, rec.TCorrection, n)
		assert.Len(t, rec.TFlags, n)

		for j := 1; j < n; j++ {
			assert.LessOrEqual(t, *rec.Pressure[j], *rec.Pressure[j-1], "pressure must not increase")
		}
	}

	s := collectStats(recs)
	assert.Positive(t, s.repeatedLevels)
}

func TestGenerate_ProfilesDecode(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC))
	for _, rec := range generate(clock, testOptions()) {
		p := domain.NewProfile(rec)
		tObs, err := p.Store.Floats(domain.NameObsTemperature)
		require.NoError(t, err)
		for j, v := range rec.TObs {
			assert.Equal(t, v == nil, domain.IsMissing(tObs[j]))
		}
	}
}

func TestStandardTemperature(t *testing.T) {
	assert.InDelta(t, 288.15, standardTemperature(288.15, 100000), 1e-9)
	assert.Less(t, standardTemperature(288.15, 50000), 288.15)
	assert.InDelta(t, 216.65, standardTemperature(288.15, 10000), 1e-9)
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, []domain.RawProfile{{
		Pressure: []*float64{ptr(85000), ptr(85000)},
		TObs:     []*float64{ptr(280), nil},
	}})
	out := buf.String()
	assert.Contains(t, out, "repeated pressure levels")
	assert.Contains(t, out, "missing temperatures")
}
