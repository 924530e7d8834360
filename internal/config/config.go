package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sim    SimConfig    `yaml:"sim" mapstructure:"sim"`
	Detect DetectConfig `yaml:"detect" mapstructure:"detect"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SimConfig configures the generative model: population, picks, tailing
// behavior and noise.
type SimConfig struct {
	Seed             uint64 `yaml:"seed" mapstructure:"seed"`
	Users            int    `yaml:"users" mapstructure:"users"`
	Sharps           int    `yaml:"sharps" mapstructure:"sharps"`
	Props            int    `yaml:"props" mapstructure:"props"`
	Groups           int    `yaml:"groups" mapstructure:"groups"`
	UsersPerGroup    int    `yaml:"users_per_group" mapstructure:"users_per_group"`
	PostIntervalSecs int    `yaml:"post_interval_secs" mapstructure:"post_interval_secs"`
	StartTime        string `yaml:"start_time" mapstructure:"start_time"` // RFC3339; empty = now

	TailProbability float64 `yaml:"tail_probability" mapstructure:"tail_probability"`
	TailJitter      float64 `yaml:"tail_jitter" mapstructure:"tail_jitter"`
	TailLagMeanSecs float64 `yaml:"tail_lag_mean_secs" mapstructure:"tail_lag_mean_secs"`
	TailLagStdSecs  float64 `yaml:"tail_lag_std_secs" mapstructure:"tail_lag_std_secs"`

	NoiseProbability  float64 `yaml:"noise_probability" mapstructure:"noise_probability"`
	NoiseDelayMinSecs int     `yaml:"noise_delay_min_secs" mapstructure:"noise_delay_min_secs"`
	NoiseDelayMaxSecs int     `yaml:"noise_delay_max_secs" mapstructure:"noise_delay_max_secs"`

	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DetectConfig holds the fixed thresholds of the detection engine.
type DetectConfig struct {
	LagThresholdSecs   float64 `yaml:"lag_threshold_secs" mapstructure:"lag_threshold_secs"`
	MinCount           int     `yaml:"min_count" mapstructure:"min_count"`
	TailScoreThreshold float64 `yaml:"tail_score_threshold" mapstructure:"tail_score_threshold"`
	Epsilon            float64 `yaml:"epsilon" mapstructure:"epsilon"`
}

// OutputConfig configures result export and console reporting.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"` // csv, xlsx or json
	Top    int    `yaml:"top" mapstructure:"top"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Output formats accepted by OutputConfig.Format.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TAILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sim.seed", 42)
	v.SetDefault("sim.users", 300)
	v.SetDefault("sim.sharps", 8)
	v.SetDefault("sim.props", 120)
	v.SetDefault("sim.groups", 5)
	v.SetDefault("sim.users_per_group", 10)
	v.SetDefault("sim.post_interval_secs", 30)
	v.SetDefault("sim.start_time", "")
	v.SetDefault("sim.tail_probability", 0.8)
	v.SetDefault("sim.tail_jitter", 0.1)
	v.SetDefault("sim.tail_lag_mean_secs", 8.0)
	v.SetDefault("sim.tail_lag_std_secs", 3.0)
	v.SetDefault("sim.noise_probability", 0.05)
	v.SetDefault("sim.noise_delay_min_secs", 30)
	v.SetDefault("sim.noise_delay_max_secs", 3600)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("detect.lag_threshold_secs", 30.0)
	v.SetDefault("detect.min_count", 5)
	v.SetDefault("detect.tail_score_threshold", 0.6)
	v.SetDefault("detect.epsilon", 1e-6)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", FormatCSV)
	v.SetDefault("output.top", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the sections a command depends on. Domain rules for the
// sim and detect sections live with the packages that consume them.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Output.Format {
	case FormatCSV, FormatXLSX, FormatJSON:
	default:
		errs = append(errs, fmt.Sprintf("output.format must be csv, xlsx or json (got %q)", c.Output.Format))
	}
	if c.Output.Top < 0 {
		errs = append(errs, "output.top must be >= 0")
	}

	switch mode {
	case "run", "detect", "simulate":
		if c.Output.Dir == "" {
			errs = append(errs, "output.dir is required")
		}
	case "config":
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
