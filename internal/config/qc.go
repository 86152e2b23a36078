package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
	"github.com/couchcryptid/sounding-qc-service/internal/qc"
)

// Defaults for the QC settings.
const (
	DefaultSPDTCheckTThresh = 1.0
	DefaultChecks           = qc.SamePDiffTName
)

// QCConfig selects the checks to run and their parameters.
type QCConfig struct {
	Checks           []string `koanf:"checks"`
	SPDTCheckTThresh float64  `koanf:"spdt_t_thresh"`
	MaxLevels        int      `koanf:"max_levels"`
	MinPressure      float64  `koanf:"min_pressure"`
}

// CheckOptions returns the options handed to every check factory.
func (c QCConfig) CheckOptions(logger *slog.Logger) qc.Options {
	return qc.Options{SPDTCheckTThresh: c.SPDTCheckTThresh, Logger: logger}
}

// IndicesOptions returns the eligible-level bounds.
func (c QCConfig) IndicesOptions() domain.IndicesOptions {
	return domain.IndicesOptions{MaxLevels: c.MaxLevels, MinPressure: c.MinPressure}
}

// LoadQC layers defaults, the optional YAML file at path, QC_* environment
// variables, and explicitly set flags (highest priority). Flags use kebab-case
// names: --checks, --spdt-t-thresh, --max-levels, --min-pressure.
func LoadQC(path string, flags *pflag.FlagSet) (QCConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"checks":        []string{DefaultChecks},
		"spdt_t_thresh": DefaultSPDTCheckTThresh,
		"max_levels":    0,
		"min_pressure":  0.0,
	}, "."), nil); err != nil {
		return QCConfig{}, fmt.Errorf("load qc defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return QCConfig{}, fmt.Errorf("read qc config file %s: %w", path, err)
		}
	}

	// QC_SPDT_T_THRESH -> spdt_t_thresh, QC_CHECKS=a,b -> [a b]
	if err := k.Load(env.ProviderWithValue("QC_", ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, "QC_"))
		switch key {
		case "config_file", "workers":
			return "", nil
		case "checks":
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return QCConfig{}, fmt.Errorf("load qc env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return QCConfig{}, fmt.Errorf("load qc flags: %w", err)
		}
	}

	var cfg QCConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return QCConfig{}, fmt.Errorf("decode qc config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return QCConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings no check could run with.
func (c QCConfig) Validate() error {
	if len(c.Checks) == 0 {
		return fmt.Errorf("QC_CHECKS must name at least one check")
	}
	if c.SPDTCheckTThresh < 0 {
		return fmt.Errorf("invalid QC_SPDT_T_THRESH %v: must not be negative", c.SPDTCheckTThresh)
	}
	if c.MaxLevels < 0 {
		return fmt.Errorf("invalid QC_MAX_LEVELS %d: must not be negative", c.MaxLevels)
	}
	if c.MinPressure < 0 {
		return fmt.Errorf("invalid QC_MIN_PRESSURE %v: must not be negative", c.MinPressure)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
