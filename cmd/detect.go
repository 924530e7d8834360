package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/export"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect likely tailers in a pick and bet dataset",
	Long: `Reads a pick stream (prop_id, sharp_id, post_time) and a bet stream
(bet_id, timestamp, user_id, prop_id) from CSV and flags users whose bets
consistently land inside the lag window after the referenced pick. Any
sharp_followed column is read but never used for detection. Bets whose
prop_id has no pick are skipped.

Examples:
  tailer-cli detect --picks data/picks.csv --bets data/bets.csv
  tailer-cli detect --picks data/picks.csv --bets data/bets.csv --lag-threshold 15 --format json`,
	RunE: runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.String("picks", "", "path to picks CSV")
	f.String("bets", "", "path to bets CSV")
	_ = detectCmd.MarkFlagRequired("picks")
	_ = detectCmd.MarkFlagRequired("bets")
	addDetectFlags(detectCmd)
	addOutputFlags(detectCmd)

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outCfg := applyOutputOverrides(cmd, cfg.Output)
	detectCfg := applyDetectOverrides(cmd, cfg.Detect)

	c := *cfg
	c.Output = outCfg
	if err := c.Validate("detect"); err != nil {
		return err
	}
	if err := detect.ValidateConfig(detectCfg); err != nil {
		return err
	}

	picksPath, _ := cmd.Flags().GetString("picks")
	betsPath, _ := cmd.Flags().GetString("bets")

	picks, bets, err := export.ReadDataset(ctx, picksPath, betsPath)
	if err != nil {
		return eris.Wrap(err, "detect: load dataset")
	}

	res := detect.New(detectCfg).Detect(picks, bets)

	zap.L().Info("detection complete",
		zap.String("command", "detect"),
		zap.Int("unmatched", res.Stats.Unmatched),
		zap.Int("candidates", res.Stats.Candidates),
		zap.Int("flagged", len(res.Flagged)),
	)

	out := cmd.OutOrStdout()
	if err := printReport(out, res, outCfg.Top); err != nil {
		return err
	}

	paths, err := export.WriteResult(outCfg.Dir, outCfg.Format, res)
	if err != nil {
		return eris.Wrap(err, "detect: export results")
	}
	return writePaths(out, "Saved", paths)
}
