// Package detect re-identifies likely tailers from bet timing alone. Bets are
// joined to the picks they reference, filtered to a lag window after the
// post, and aggregated per user and per sharp.
package detect

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tailer-cli/internal/config"
)

// DefaultConfig returns a config.DetectConfig with the reference thresholds.
func DefaultConfig() config.DetectConfig {
	return config.DetectConfig{
		LagThresholdSecs:   30,
		MinCount:           5,
		TailScoreThreshold: 0.6,
		Epsilon:            1e-6,
	}
}

// ValidateConfig checks that a DetectConfig is usable. A tail score
// threshold above 1 is accepted and flags nobody.
func ValidateConfig(c config.DetectConfig) error {
	var errs []string

	if c.LagThresholdSecs < 0 {
		errs = append(errs, "lag_threshold_secs must be >= 0")
	}
	if c.MinCount < 0 {
		errs = append(errs, "min_count must be >= 0")
	}
	if c.TailScoreThreshold < 0 {
		errs = append(errs, "tail_score_threshold must be >= 0")
	}
	if c.Epsilon <= 0 {
		errs = append(errs, "epsilon must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("detect: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func lagWindow(c config.DetectConfig) time.Duration {
	return time.Duration(c.LagThresholdSecs * float64(time.Second))
}
