package detect

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tailer-cli/internal/config"
)

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.DetectConfig)
		wantErr string
	}{
		{"negative lag", func(c *config.DetectConfig) { c.LagThresholdSecs = -1 }, "lag_threshold_secs"},
		{"negative min count", func(c *config.DetectConfig) { c.MinCount = -2 }, "min_count"},
		{"negative threshold", func(c *config.DetectConfig) { c.TailScoreThreshold = -0.5 }, "tail_score_threshold"},
		{"zero epsilon", func(c *config.DetectConfig) { c.Epsilon = 0 }, "epsilon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			err := ValidateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_ThresholdAboveOne(t *testing.T) {
	c := DefaultConfig()
	c.TailScoreThreshold = 2
	assert.NoError(t, ValidateConfig(c))
}

func TestDefaultConfigMatchesLoad(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg.Detect)
}
