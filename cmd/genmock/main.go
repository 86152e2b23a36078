// Command genmock generates deterministic mock sounding fixtures for the QC
// service tests and for replaying into the source topic. Profiles follow a
// standard-atmosphere lapse rate and include repeated pressure levels,
// unreported temperatures and bias corrections.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/generated_soundings.json -count 50 -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sounding-qc-service/internal/domain"
)

// Mandatory levels (Pa) reported by every synthetic sounding.
var mandatoryLevels = []float64{100000, 92500, 85000, 70000, 50000, 40000, 30000, 25000, 20000, 15000, 10000}

var stations = []string{"72249", "72357", "72451", "72558", "72649", "72764"}

type genOptions struct {
	count       int
	seed        uint64
	dupRate     float64 // chance a level is reported twice
	conflictPct float64 // chance a repeated level disagrees beyond the threshold
	missingRate float64 // chance a temperature is unreported
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the JSON fixture")
	count := flag.Int("count", 20, "number of profiles")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock for reproducible observation times.
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC))

	recs := generate(clock, genOptions{
		count:       *count,
		seed:        *seed,
		dupRate:     0.15,
		conflictPct: 0.5,
		missingRate: 0.05,
	})

	if err := writeJSON(*out, recs); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d profiles to %s", len(recs), *out)

	printStats(os.Stdout, recs)
	return nil
}

// generate builds count profiles. Output depends only on the clock and
// options, so fixtures can be regenerated byte for byte.
func generate(clock clockwork.Clock, opts genOptions) []domain.RawProfile {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	recs := make([]domain.RawProfile, 0, opts.count)

	for i := range opts.count {
		station := stations[i%len(stations)]
		obsTime := clock.Now().Add(time.Duration(i/len(stations)) * 12 * time.Hour)
		id, err := uuid.NewRandomFromReader(rngReader{rng})
		if err != nil {
			// rngReader never fails.
			panic(err)
		}
		recs = append(recs, generateProfile(rng, id.String(), station, obsTime, opts))
	}
	return recs
}

func generateProfile(rng *rand.Rand, id, station string, obsTime time.Time, opts genOptions) domain.RawProfile {
	surfaceT := 285 + rng.Float64()*15
	bias := rng.NormFloat64() * 0.3

	rec := domain.RawProfile{
		ID:              id,
		StationID:       station,
		ObservationTime: obsTime,
	}
	appendLevel := func(p, t, bkg, corr float64) {
		rec.Pressure = append(rec.Pressure, ptr(p))
		if rng.Float64() < opts.missingRate {
			rec.TObs = append(rec.TObs, nil)
		} else {
			rec.TObs = append(rec.TObs, ptr(round(t)))
		}
		rec.TBkg = append(rec.TBkg, ptr(round(bkg)))
		rec.TCorrection = append(rec.TCorrection, ptr(round(corr)))
		rec.TFlags = append(rec.TFlags, 0)
	}

	for _, p := range mandatoryLevels {
		truth := standardTemperature(surfaceT, p)
		bkg := truth + rng.NormFloat64()*0.5
		obs := truth + rng.NormFloat64()*0.3 + bias
		appendLevel(p, obs, bkg, -bias)

		if rng.Float64() < opts.dupRate {
			dup := obs + rng.NormFloat64()*0.2
			if rng.Float64() < opts.conflictPct {
				dup = obs + math.Copysign(2+rng.Float64()*3, rng.NormFloat64())
			}
			appendLevel(p, dup, bkg, -bias)
		}
	}
	return rec
}

// standardTemperature approximates temperature at pressure p (Pa) for a
// 6.5 K/km lapse rate from the given surface temperature, isothermal above
// the tropopause.
func standardTemperature(surfaceT, p float64) float64 {
	const (
		lapse = 0.0065
		r     = 287.05
		g     = 9.80665
	)
	t := surfaceT * math.Pow(p/100000, r*lapse/g)
	return math.Max(t, 216.65)
}

type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

func ptr(v float64) *float64 { return &v }

func round(v float64) float64 { return math.Round(v*100) / 100 }

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// fixtureStats summarises what a fixture exercises.
type fixtureStats struct {
	profiles       int
	levels         int
	repeatedLevels int
	missingTemps   int
}

func collectStats(recs []domain.RawProfile) fixtureStats {
	s := fixtureStats{profiles: len(recs)}
	for _, rec := range recs {
		s.levels += len(rec.Pressure)
		for j := 1; j < len(rec.Pressure); j++ {
			if *rec.Pressure[j] == *rec.Pressure[j-1] {
				s.repeatedLevels++
			}
		}
		for _, t := range rec.TObs {
			if t == nil {
				s.missingTemps++
			}
		}
	}
	return s
}

func printStats(w io.Writer, recs []domain.RawProfile) {
	s := collectStats(recs)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"stat", "count"})
	t.AppendRows([]table.Row{
		{"profiles", s.profiles},
		{"levels", s.levels},
		{"repeated pressure levels", s.repeatedLevels},
		{"missing temperatures", s.missingTemps},
	})
	t.Render()
}
