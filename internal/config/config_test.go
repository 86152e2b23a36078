package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-soundings", cfg.KafkaSourceTopic)
	assert.Equal(t, "qc-soundings", cfg.KafkaSinkTopic)
	assert.Equal(t, "sounding-qc", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"SamePDiffT"}, cfg.QC.Checks)
	assert.InDelta(t, DefaultSPDTCheckTThresh, cfg.QC.SPDTCheckTThresh, 1e-12)
	assert.Zero(t, cfg.QC.MaxLevels)
	assert.Zero(t, cfg.QC.MinPressure)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("QC_WORKERS", "8")
	t.Setenv("QC_SPDT_T_THRESH", "2.5")
	t.Setenv("QC_MAX_LEVELS", "120")
	t.Setenv("QC_MIN_PRESSURE", "1000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 8, cfg.Workers)
	assert.InDelta(t, 2.5, cfg.QC.SPDTCheckTThresh, 1e-12)
	assert.Equal(t, 120, cfg.QC.MaxLevels)
	assert.InDelta(t, 1000.0, cfg.QC.MinPressure, 1e-12)

	idx := cfg.QC.IndicesOptions()
	assert.Equal(t, 120, idx.MaxLevels)
	opts := cfg.QC.CheckOptions(nil)
	assert.InDelta(t, 2.5, opts.SPDTCheckTThresh, 1e-12)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	for _, v := range []string{"0", "-3", "many", "1000"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("QC_WORKERS", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "QC_WORKERS")
		})
	}
}

func TestLoad_NegativeThreshold(t *testing.T) {
	t.Setenv("QC_SPDT_T_THRESH", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QC_SPDT_T_THRESH")
}

func TestLoadQC_ChecksFromEnv(t *testing.T) {
	t.Setenv("QC_CHECKS", "SamePDiffT, Other ,")
	cfg, err := LoadQC("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"SamePDiffT", "Other"}, cfg.Checks)
}

func TestLoadQC_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
checks:
  - SamePDiffT
spdt_t_thresh: 5.0
max_levels: 200
min_pressure: 500
`), 0o600))

	cfg, err := LoadQC(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"SamePDiffT"}, cfg.Checks)
	assert.InDelta(t, 5.0, cfg.SPDTCheckTThresh, 1e-12)
	assert.Equal(t, 200, cfg.MaxLevels)
	assert.InDelta(t, 500.0, cfg.MinPressure, 1e-12)
}

func TestLoadQC_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spdt_t_thresh: 5.0\nmax_levels: 200\n"), 0o600))
	t.Setenv("QC_SPDT_T_THRESH", "3.0")
	t.Setenv("QC_MAX_LEVELS", "150")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("spdt-t-thresh", 0, "")
	flags.Int("max-levels", 0, "")
	require.NoError(t, flags.Parse([]string{"--spdt-t-thresh=7.5"}))

	cfg, err := LoadQC(path, flags)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, cfg.SPDTCheckTThresh, 1e-12, "flag beats env and file")
	assert.Equal(t, 150, cfg.MaxLevels, "env beats file; unset flag ignored")
}

func TestLoadQC_MissingFile(t *testing.T) {
	_, err := LoadQC(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read qc config file")
}

func TestQCConfig_Validate(t *testing.T) {
	valid := QCConfig{Checks: []string{"SamePDiffT"}, SPDTCheckTThresh: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*QCConfig)
		want   string
	}{
		{"no checks", func(c *QCConfig) { c.Checks = nil }, "QC_CHECKS"},
		{"negative threshold", func(c *QCConfig) { c.SPDTCheckTThresh = -0.1 }, "QC_SPDT_T_THRESH"},
		{"negative max levels", func(c *QCConfig) { c.MaxLevels = -1 }, "QC_MAX_LEVELS"},
		{"negative min pressure", func(c *QCConfig) { c.MinPressure = -1 }, "QC_MIN_PRESSURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
