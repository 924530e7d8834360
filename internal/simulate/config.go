// Package simulate implements the generative model: sharp picks, the
// population partition into tailer groups, and the synthetic bet stream.
package simulate

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tailer-cli/internal/config"
)

// ErrInsufficientPopulation is returned when the user universe cannot hold
// the requested tailer groups.
var ErrInsufficientPopulation = eris.New("simulate: insufficient population")

// DefaultConfig returns a config.SimConfig with the reference workload.
func DefaultConfig() config.SimConfig {
	return config.SimConfig{
		Seed:             42,
		Users:            300,
		Sharps:           8,
		Props:            120,
		Groups:           5,
		UsersPerGroup:    10,
		PostIntervalSecs: 30,

		TailProbability: 0.8,
		TailJitter:      0.1,
		TailLagMeanSecs: 8,
		TailLagStdSecs:  3,

		NoiseProbability:  0.05,
		NoiseDelayMinSecs: 30,
		NoiseDelayMaxSecs: 3600,

		Workers: 4,
	}
}

// ValidateConfig checks that a SimConfig can drive a run. Population size is
// checked first and reported as ErrInsufficientPopulation.
func ValidateConfig(c config.SimConfig) error {
	if c.Groups > 0 && c.UsersPerGroup > 0 && c.Users < c.Groups*c.UsersPerGroup {
		return eris.Wrapf(ErrInsufficientPopulation, "%d users cannot hold %d groups of %d",
			c.Users, c.Groups, c.UsersPerGroup)
	}

	var errs []string

	counts := []struct {
		name string
		v    int
	}{
		{"users", c.Users},
		{"sharps", c.Sharps},
		{"props", c.Props},
		{"groups", c.Groups},
		{"users_per_group", c.UsersPerGroup},
		{"noise_delay_min_secs", c.NoiseDelayMinSecs},
	}
	for _, n := range counts {
		if n.v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", n.name))
		}
	}
	if c.Props > 0 && c.Sharps < 1 {
		errs = append(errs, "sharps must be >= 1 when props > 0")
	}
	if c.PostIntervalSecs < 1 {
		errs = append(errs, "post_interval_secs must be >= 1")
	}

	// Probabilities.
	if c.TailProbability < 0 || c.TailProbability > 1 {
		errs = append(errs, "tail_probability must be between 0 and 1")
	}
	if c.TailJitter < 0 {
		errs = append(errs, "tail_jitter must be >= 0")
	}
	if c.NoiseProbability < 0 || c.NoiseProbability > 1 {
		errs = append(errs, "noise_probability must be between 0 and 1")
	}

	// Delays.
	if c.TailLagStdSecs < 0 {
		errs = append(errs, "tail_lag_std_secs must be >= 0")
	}
	if c.NoiseDelayMaxSecs < c.NoiseDelayMinSecs {
		errs = append(errs, "noise_delay_max_secs must be >= noise_delay_min_secs")
	}

	if c.Workers < 1 {
		errs = append(errs, "workers must be >= 1")
	}
	if c.StartTime != "" {
		if _, err := time.Parse(time.RFC3339, c.StartTime); err != nil {
			errs = append(errs, fmt.Sprintf("start_time must be RFC3339 (got %q)", c.StartTime))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("simulate: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StartTime resolves the configured start time. An empty value means now,
// truncated to the second and in UTC.
func StartTime(c config.SimConfig, now time.Time) (time.Time, error) {
	if c.StartTime == "" {
		return now.UTC().Truncate(time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "simulate: parse start_time %q", c.StartTime)
	}
	return t, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
