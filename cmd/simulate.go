package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/export"
	"github.com/sells-group/tailer-cli/internal/simulate"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a synthetic pick and bet dataset",
	Long: `Writes picks.csv, bets.csv and groups.csv (ground truth) to --out-dir.
The picks and bets files are the input format of the detect command.

Examples:
  tailer-cli simulate --out-dir data
  tailer-cli simulate --seed 1 --props 500 --start-time 2025-01-01T00:00:00Z --out-dir data`,
	RunE: runSimulate,
}

func init() {
	addSimFlags(simulateCmd)
	simulateCmd.Flags().String("out-dir", "", "output directory (overrides config)")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	simCfg := applySimOverrides(cmd, cfg.Sim)
	c := *cfg
	if cmd.Flags().Changed("out-dir") {
		c.Output.Dir, _ = cmd.Flags().GetString("out-dir")
	}
	if err := c.Validate("simulate"); err != nil {
		return err
	}

	start, err := simulate.StartTime(simCfg, time.Now())
	if err != nil {
		return err
	}

	ds, err := simulate.Run(ctx, simCfg, start)
	if err != nil {
		return eris.Wrap(err, "simulate: run")
	}

	paths, err := export.WriteDataset(c.Output.Dir, ds)
	if err != nil {
		return eris.Wrap(err, "simulate: export dataset")
	}

	zap.L().Info("dataset written",
		zap.String("command", "simulate"),
		zap.String("dir", c.Output.Dir),
		zap.Int("picks", len(ds.Picks)),
		zap.Int("bets", len(ds.Bets)),
	)

	out := cmd.OutOrStdout()
	if _, err := printer.Fprintf(out, "Generated %d picks, %d bets (%d tail bets), %d groups, %d normal users\n",
		len(ds.Picks), len(ds.Bets), ds.TailBets(), len(ds.Population.Groups), len(ds.Population.Normal)); err != nil {
		return eris.Wrap(err, "simulate: write summary")
	}
	return writePaths(out, "Saved", paths)
}
