package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/tailer-cli/internal/config"
)

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint64("seed", 0, "random seed (overrides config)")
	f.Int("users", 0, "size of the user universe")
	f.Int("sharps", 0, "size of the sharp pool")
	f.Int("props", 0, "number of picks to generate")
	f.Int("groups", 0, "number of tailer groups")
	f.Int("users-per-group", 0, "members per tailer group")
	f.String("start-time", "", "RFC3339 time of the first pick (default: now)")
	f.Int("workers", 0, "concurrent pick workers")
	f.Int("post-interval", 0, "seconds between consecutive picks")
	f.Float64("tail-probability", 0, "base probability a tailer copies a pick")
	f.Float64("tail-jitter", 0, "per-bet uniform jitter on the tail probability")
	f.Float64("tail-lag-mean", 0, "mean tail lag in seconds")
	f.Float64("tail-lag-std", 0, "tail lag standard deviation in seconds")
	f.Float64("noise-probability", 0, "probability a normal user bets on a pick")
	f.Int("noise-delay-min", 0, "minimum noise bet delay in seconds")
	f.Int("noise-delay-max", 0, "maximum noise bet delay in seconds")
}

func addDetectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("lag-threshold", 0, "lag window in seconds (overrides config)")
	f.Int("min-count", 0, "minimum in-window bets to flag a user")
	f.Float64("tail-score-threshold", 0, "minimum tail score to flag a user")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("out-dir", "", "output directory (overrides config)")
	f.String("format", "", "result format: csv, xlsx or json")
	f.Int("top", 0, "rows shown per console table")
}

// applySimOverrides returns a copy of base with the sim flags the user set.
func applySimOverrides(cmd *cobra.Command, base config.SimConfig) config.SimConfig {
	c := base
	f := cmd.Flags()

	if f.Changed("seed") {
		c.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("users") {
		c.Users, _ = f.GetInt("users")
	}
	if f.Changed("sharps") {
		c.Sharps, _ = f.GetInt("sharps")
	}
	if f.Changed("props") {
		c.Props, _ = f.GetInt("props")
	}
	if f.Changed("groups") {
		c.Groups, _ = f.GetInt("groups")
	}
	if f.Changed("users-per-group") {
		c.UsersPerGroup, _ = f.GetInt("users-per-group")
	}
	if f.Changed("start-time") {
		c.StartTime, _ = f.GetString("start-time")
	}
	if f.Changed("workers") {
		c.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("post-interval") {
		c.PostIntervalSecs, _ = f.GetInt("post-interval")
	}
	if f.Changed("tail-probability") {
		c.TailProbability, _ = f.GetFloat64("tail-probability")
	}
	if f.Changed("tail-jitter") {
		c.TailJitter, _ = f.GetFloat64("tail-jitter")
	}
	if f.Changed("tail-lag-mean") {
		c.TailLagMeanSecs, _ = f.GetFloat64("tail-lag-mean")
	}
	if f.Changed("tail-lag-std") {
		c.TailLagStdSecs, _ = f.GetFloat64("tail-lag-std")
	}
	if f.Changed("noise-probability") {
		c.NoiseProbability, _ = f.GetFloat64("noise-probability")
	}
	if f.Changed("noise-delay-min") {
		c.NoiseDelayMinSecs, _ = f.GetInt("noise-delay-min")
	}
	if f.Changed("noise-delay-max") {
		c.NoiseDelayMaxSecs, _ = f.GetInt("noise-delay-max")
	}

	return c
}

// applyDetectOverrides returns a copy of base with the detect flags the user set.
func applyDetectOverrides(cmd *cobra.Command, base config.DetectConfig) config.DetectConfig {
	c := base
	f := cmd.Flags()

	if f.Changed("lag-threshold") {
		c.LagThresholdSecs, _ = f.GetFloat64("lag-threshold")
	}
	if f.Changed("min-count") {
		c.MinCount, _ = f.GetInt("min-count")
	}
	if f.Changed("tail-score-threshold") {
		c.TailScoreThreshold, _ = f.GetFloat64("tail-score-threshold")
	}

	return c
}

// applyOutputOverrides returns a copy of base with the output flags the user set.
func applyOutputOverrides(cmd *cobra.Command, base config.OutputConfig) config.OutputConfig {
	c := base
	f := cmd.Flags()

	if f.Changed("out-dir") {
		c.Dir, _ = f.GetString("out-dir")
	}
	if f.Changed("format") {
		c.Format, _ = f.GetString("format")
	}
	if f.Changed("top") {
		c.Top, _ = f.GetInt("top")
	}

	return c
}
