package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/export"
	"github.com/sells-group/tailer-cli/internal/simulate"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a marketplace and detect tailers end to end",
	Long: `Generates sharp picks, partitions the user universe into tailer groups and
normal users, synthesizes the bet stream, then runs detection on the picks and
bets only. The ground truth stays inside the simulator unless --dump-dataset
writes it out.

Examples:
  # Reference workload, CSV results in the current directory
  tailer-cli run

  # Larger population, stricter thresholds, XLSX workbook
  tailer-cli run --users 2000 --groups 20 --min-count 8 --format xlsx --out-dir out

  # Keep the generated dataset next to the results
  tailer-cli run --seed 7 --dump-dataset --out-dir out`,
	RunE: runRun,
}

func init() {
	addSimFlags(runCmd)
	addDetectFlags(runCmd)
	addOutputFlags(runCmd)
	runCmd.Flags().Bool("dump-dataset", false, "also write picks.csv, bets.csv and groups.csv")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outCfg := applyOutputOverrides(cmd, cfg.Output)
	simCfg := applySimOverrides(cmd, cfg.Sim)
	detectCfg := applyDetectOverrides(cmd, cfg.Detect)
	dump, _ := cmd.Flags().GetBool("dump-dataset")

	c := *cfg
	c.Output = outCfg
	if err := c.Validate("run"); err != nil {
		return err
	}
	if err := simulate.ValidateConfig(simCfg); err != nil {
		return err
	}
	if err := detect.ValidateConfig(detectCfg); err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "run"))

	start, err := simulate.StartTime(simCfg, time.Now())
	if err != nil {
		return err
	}

	log.Info("starting simulation",
		zap.Uint64("seed", simCfg.Seed),
		zap.Int("users", simCfg.Users),
		zap.Int("props", simCfg.Props),
		zap.Int("groups", simCfg.Groups),
		zap.Time("start_time", start),
	)

	ds, err := simulate.Run(ctx, simCfg, start)
	if err != nil {
		return eris.Wrap(err, "run: simulate")
	}

	res := detect.New(detectCfg).Detect(ds.Picks, ds.Bets)

	log.Info("detection complete",
		zap.Int("candidates", res.Stats.Candidates),
		zap.Int("flagged", len(res.Flagged)),
		zap.Int("sharps", len(res.Sharps)),
	)

	out := cmd.OutOrStdout()
	if err := printReport(out, res, outCfg.Top); err != nil {
		return err
	}

	paths, err := export.WriteResult(outCfg.Dir, outCfg.Format, res)
	if err != nil {
		return eris.Wrap(err, "run: export results")
	}
	if err := writePaths(out, "Saved", paths); err != nil {
		return err
	}

	if dump {
		paths, err := export.WriteDataset(outCfg.Dir, ds)
		if err != nil {
			return eris.Wrap(err, "run: export dataset")
		}
		if err := writePaths(out, "Dataset", paths); err != nil {
			return err
		}
	}

	return nil
}
