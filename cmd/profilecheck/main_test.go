package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

const mockFixture = "../../data/mock/soundings_240426.json"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_PrintsTable(t *testing.T) {
	out, err := execute(t, "run", "--input", mockFixture)
	require.NoError(t, err)

	assert.Contains(t, out, "72357-2024042612")
	assert.Contains(t, out, "flagged")
	assert.Contains(t, out, "1 violation(s)")
	assert.Contains(t, out, "2 clean / 1 flagged / 1 skipped")
}

func TestRun_WritesReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "reports.json")

	out, err := execute(t, "run", "--input", mockFixture, "--output", path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 4 reports")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var reports []domain.QCReport
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 4)
	assert.Equal(t, []int{2}, reports[1].RejectedLevels)
}

func TestRun_ThresholdFlagOverridesDefault(t *testing.T) {
	// The flagged pair differs by 3 K; a 5 K threshold accepts it.
	out, err := execute(t, "run", "--input", mockFixture, "--spdt-t-thresh", "5", "--fail-on-flagged")
	require.NoError(t, err)
	assert.Contains(t, out, "3 clean / 0 flagged / 1 skipped")
}

func TestRun_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "qc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("spdt_t_thresh: 5\n"), 0o600))

	out, err := execute(t, "run", "--input", mockFixture, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 flagged")
}

func TestRun_FailOnFlagged(t *testing.T) {
	_, err := execute(t, "run", "--input", mockFixture, "--fail-on-flagged")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 profiles flagged")
}

func TestRun_UnknownCheck(t *testing.T) {
	_, err := execute(t, "run", "--input", mockFixture, "--checks", "NoSuchCheck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchCheck")
}

func TestRun_RequiresInput(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}

func TestValidate_ReportsShortVector(t *testing.T) {
	out, err := execute(t, "validate", "--input", mockFixture)
	require.Error(t, err)

	assert.Contains(t, out, "Vector shapes")
	assert.Contains(t, out, "t_bkg has 3 levels, t_obs has 4")
	assert.Contains(t, out, "Identity")
}

func TestValidateFixture(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	recs := []domain.RawProfile{
		{
			ID:        "a",
			StationID: "72249",
			Pressure:  []*float64{p(100000), p(85000), p(85000)},
			TObs:      []*float64{p(290), p(280), p(281)},
			TBkg:      []*float64{p(290), p(280), p(281)},
		},
		{
			ID:       "a",
			Pressure: []*float64{p(85000), nil, p(90000)},
			TObs:     []*float64{p(280), p(279), p(281)},
			TBkg:     []*float64{p(280), p(279), p(281)},
			TFlags:   []int{0},
		},
	}

	phases := validateFixture(recs)
	require.Len(t, phases, 3)

	shapes, identity, order := phases[0], phases[1], phases[2]
	assert.Equal(t, []string{"profile 1 (a): t_flags has 1 levels, t_obs has 3"}, shapes.errors)
	assert.Contains(t, identity.errors, `profile 1: id "a" already used by profile 0`)
	assert.Equal(t, []string{"profile 1 (a) level 2: pressure 90000 Pa above previous 85000 Pa"}, order.errors)
}

func TestValidateFixture_EmptyOptionalVectors(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	recs := []domain.RawProfile{{
		ID:          "e",
		Pressure:    []*float64{p(50000), p(50000)},
		TObs:        []*float64{p(270), p(280)},
		TBkg:        []*float64{p(270), p(279)},
		TCorrection: []*float64{},
		TFlags:      []int{},
	}}

	// Empty optional vectors decode to zero defaults, so they are not shape errors.
	assert.Empty(t, validateFixture(recs)[0].errors)

	prof := domain.NewProfile(recs[0])
	corr, err := prof.Store.Floats(domain.NameTObsCorrection)
	require.NoError(t, err)
	assert.Len(t, corr, 2)
}
