package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/export"
	"github.com/sells-group/tailer-cli/internal/simulate"
)

const fixedStart = "2025-01-01T00:00:00Z"

// chdirTemp moves the test into an empty directory so no config.yaml or
// .env from the repository is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func readResult(t *testing.T, path string) *detect.Result {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var res detect.Result
	require.NoError(t, json.Unmarshal(data, &res))
	return &res
}

func TestRunCmd_CSV(t *testing.T) {
	dir := chdirTemp(t)
	out := filepath.Join(dir, "out")

	stdout, err := execute(t, "run", "--start-time", fixedStart, "--out-dir", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Flagged Tailers")
	assert.Contains(t, stdout, "--- Summary ---")
	for _, name := range []string{export.FlaggedFile, export.SharpsFile, export.ScoresFile} {
		assert.FileExists(t, filepath.Join(out, name))
		assert.Contains(t, stdout, filepath.Join(out, name))
	}
	assert.NoFileExists(t, filepath.Join(out, export.PicksFile), "dataset is only written on request")
}

func TestRunCmd_XLSX(t *testing.T) {
	dir := chdirTemp(t)

	_, err := execute(t, "run", "--start-time", fixedStart, "--out-dir", dir, "--format", "xlsx", "--props", "30")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, export.WorkbookFile))
}

func TestRunCmd_DumpDatasetRoundTrip(t *testing.T) {
	dir := chdirTemp(t)
	runOut := filepath.Join(dir, "run")
	detectOut := filepath.Join(dir, "detect")

	_, err := execute(t, "run", "--start-time", fixedStart, "--out-dir", runOut, "--format", "json", "--dump-dataset")
	require.NoError(t, err)

	for _, name := range []string{export.PicksFile, export.BetsFile, export.GroupsFile, export.ResultFile} {
		assert.FileExists(t, filepath.Join(runOut, name))
	}

	_, err = execute(t, "detect",
		"--picks", filepath.Join(runOut, export.PicksFile),
		"--bets", filepath.Join(runOut, export.BetsFile),
		"--out-dir", detectOut, "--format", "json")
	require.NoError(t, err)

	fromRun := readResult(t, filepath.Join(runOut, export.ResultFile))
	fromFiles := readResult(t, filepath.Join(detectOut, export.ResultFile))

	assert.NotEmpty(t, fromRun.Flagged)
	assert.Equal(t, fromRun, fromFiles, "detection on exported files must match the in-memory run")
}

func TestSimulateThenDetect(t *testing.T) {
	dir := chdirTemp(t)

	stdout, err := execute(t, "simulate", "--start-time", fixedStart, "--seed", "3", "--out-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 120 picks")

	stdout, err = execute(t, "detect",
		"--picks", filepath.Join(dir, export.PicksFile),
		"--bets", filepath.Join(dir, export.BetsFile),
		"--out-dir", dir, "--min-count", "3", "--top", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Picks:          120")
	assert.FileExists(t, filepath.Join(dir, export.FlaggedFile))
}

func TestSimulateCmd_BehaviorFlags(t *testing.T) {
	dir := chdirTemp(t)

	_, err := execute(t, "simulate", "--start-time", fixedStart, "--out-dir", dir,
		"--props", "20", "--noise-probability", "0", "--tail-probability", "1", "--tail-jitter", "0")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, export.BetsFile))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	bets, err := export.ReadBetsCSV(context.Background(), f)
	require.NoError(t, err)
	require.NotEmpty(t, bets)
	for _, b := range bets {
		assert.NotEmpty(t, b.SharpFollowed, "bet %s should come from a tailer", b.BetID)
	}
}

func TestSimulateCmd_Deterministic(t *testing.T) {
	dir := chdirTemp(t)
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	_, err := execute(t, "simulate", "--start-time", fixedStart, "--out-dir", a, "--workers", "1")
	require.NoError(t, err)
	_, err = execute(t, "simulate", "--start-time", fixedStart, "--out-dir", b, "--workers", "8")
	require.NoError(t, err)

	for _, name := range []string{export.PicksFile, export.BetsFile, export.GroupsFile} {
		want, err := os.ReadFile(filepath.Join(a, name))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(b, name))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), name)
	}
}

func TestRunCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad format", []string{"run", "--format", "parquet"}, "output.format"},
		{"bad start time", []string{"run", "--start-time", "yesterday"}, "start_time"},
		{"tail probability above one", []string{"run", "--start-time", fixedStart, "--tail-probability", "1.5"}, "tail_probability"},
		{"noise delay inverted", []string{"simulate", "--start-time", fixedStart, "--noise-delay-min", "100", "--noise-delay-max", "10"}, "noise_delay_max_secs"},
		{"negative lag", []string{"run", "--start-time", fixedStart, "--lag-threshold", "-1"}, "lag_threshold_secs"},
		{"detect missing bets", []string{"detect", "--picks", "picks.csv"}, "required flag"},
		{"detect missing file", []string{"detect", "--picks", "nope.csv", "--bets", "nope.csv"}, "nope.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunCmd_InsufficientPopulation(t *testing.T) {
	chdirTemp(t)

	_, err := execute(t, "run", "--start-time", fixedStart, "--users", "20")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simulate.ErrInsufficientPopulation))
}

func TestConfigCmd(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sim:\n  users: 900\n"), 0o644))
	t.Setenv("TAILER_DETECT_MIN_COUNT", "7")

	stdout, err := execute(t, "config")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, uint64(42), got.Sim.Seed)
	assert.Equal(t, 900, got.Sim.Users)
	assert.Equal(t, 7, got.Detect.MinCount)
	assert.Equal(t, "error", got.Log.Level)
}
