package simulate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/model"
)

// Dataset is the complete output of one simulated run. Population carries
// the ground truth and is not an input to detection.
type Dataset struct {
	Picks      []model.Pick      `json:"picks"`
	Bets       []model.Bet       `json:"bets"`
	Population *model.Population `json:"population"`
}

// TailBets returns the number of bets emitted by tailer group members.
func (d *Dataset) TailBets() int {
	n := 0
	for _, b := range d.Bets {
		if b.IsTail() {
			n++
		}
	}
	return n
}

// Run validates cfg and generates picks, the population partition and the
// bet stream. Configuration errors fail before any generation.
func Run(ctx context.Context, cfg config.SimConfig, start time.Time) (*Dataset, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	src := NewSource(cfg.Seed)
	log := zap.L().With(zap.Uint64("seed", cfg.Seed))

	picks := GeneratePicks(src.Stream(streamPicks, 0), cfg.Props, cfg.Sharps, start,
		time.Duration(cfg.PostIntervalSecs)*time.Second)

	pop, err := Partition(src.Stream(streamPopulation, 0), cfg.Users, cfg.Groups, cfg.UsersPerGroup)
	if err != nil {
		return nil, err
	}

	log.Info("simulate: population partitioned",
		zap.Int("groups", len(pop.Groups)),
		zap.Int("tailers", pop.Tailers()),
		zap.Int("normal_users", len(pop.Normal)),
	)

	bets, err := NewSynthesizer(cfg, src).Synthesize(ctx, picks, pop)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Picks: picks, Bets: bets, Population: pop}

	log.Info("simulate: dataset generated",
		zap.Int("picks", len(picks)),
		zap.Int("bets", len(bets)),
		zap.Int("tail_bets", ds.TailBets()),
	)

	return ds, nil
}
