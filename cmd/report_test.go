package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/model"
)

func sampleResult() *detect.Result {
	flagged := []model.FlaggedUser{
		{UserID: "user_3", TailCount: 9, TotalSharedBets: 9, TailScore: 0.9999999},
		{UserID: "user_7", TailCount: 6, TotalSharedBets: 8, TailScore: 0.75},
	}
	return &detect.Result{
		Flagged: flagged,
		Scores:  flagged,
		Sharps: []model.SharpSummary{
			{SharpID: "sharp_1", TailersDetected: 2, TotalTailBets: 12},
			{SharpID: "sharp_4", TailersDetected: 1, TotalTailBets: 3},
		},
		Stats: detect.Stats{Picks: 120, Bets: 12345, Unmatched: 2, OutOfWindow: 400, Candidates: 11943, Users: 2},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleResult(), 0))
	out := buf.String()

	assert.Contains(t, out, "Flagged Tailers")
	assert.Contains(t, out, "Most Tailed Sharps")
	assert.Contains(t, out, "user_3")
	assert.Contains(t, out, "user_7")
	assert.Contains(t, out, "sharp_4")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "12,345", "counts use thousands separators")
	assert.Contains(t, out, "11,943")
	assert.Less(t, strings.Index(out, "user_3"), strings.Index(out, "user_7"))
}

func TestPrintReport_Top(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleResult(), 1))
	out := buf.String()

	assert.Contains(t, out, "user_3")
	assert.NotContains(t, out, "user_7")
	assert.Contains(t, out, "sharp_1")
	assert.NotContains(t, out, "sharp_4")
	assert.Contains(t, out, "Users flagged:  2", "summary counts are not truncated")
}

func TestPrintReport_Empty(t *testing.T) {
	res := &detect.Result{Flagged: []model.FlaggedUser{}, Scores: []model.FlaggedUser{}, Sharps: []model.SharpSummary{}}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, res, 20))
	assert.Equal(t, 2, strings.Count(buf.String(), "(none)"))
}

func TestLimitRows(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2, 3}, limitRows(rows, 0))
	assert.Equal(t, []int{1, 2}, limitRows(rows, 2))
	assert.Equal(t, []int{1, 2, 3}, limitRows(rows, 5))
}
