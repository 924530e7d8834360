package simulate

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/model"
)

// Synthesizer turns picks and a partitioned population into a bet stream.
// Tailer group members copy their assigned sharp's picks with a short
// Gaussian delay; normal users place sparse noise bets with long delays.
type Synthesizer struct {
	cfg config.SimConfig
	src *Source
}

// NewSynthesizer creates a Synthesizer drawing from src.
func NewSynthesizer(cfg config.SimConfig, src *Source) *Synthesizer {
	return &Synthesizer{cfg: cfg, src: src}
}

// AssignSharps binds each group to a sharp drawn uniformly from the distinct
// sharps in picks. Groups may share a sharp. With no picks every group stays
// unassigned.
func (s *Synthesizer) AssignSharps(picks []model.Pick, pop *model.Population) {
	sharps := model.DistinctSharps(picks)
	if len(sharps) == 0 {
		return
	}

	st := s.src.Stream(streamAssign, 0)
	for i := range pop.Groups {
		pop.Groups[i].SharpID = sharps[st.IntN(len(sharps))]
	}
}

// Synthesize assigns groups to sharps and emits the bet stream. Picks are
// processed concurrently, each on its own stream, and the result is returned
// in pick order so the output does not depend on the worker count.
func (s *Synthesizer) Synthesize(ctx context.Context, picks []model.Pick, pop *model.Population) ([]model.Bet, error) {
	s.AssignSharps(picks, pop)

	for _, g := range pop.Groups {
		zap.L().Debug("simulate: group assigned",
			zap.Int("group", g.Index),
			zap.String("sharp_id", g.SharpID),
			zap.Int("members", len(g.Members)),
		)
	}

	perPick := make([][]model.Bet, len(picks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Workers))

	for i, pick := range picks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "simulate: context cancelled")
			}
			bets, err := s.betsForPick(s.src.Stream(streamBets, i), pick, pop)
			if err != nil {
				return eris.Wrapf(err, "simulate: pick %s", pick.PropID)
			}
			perPick[i] = bets
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, b := range perPick {
		total += len(b)
	}
	bets := make([]model.Bet, 0, total)
	for _, b := range perPick {
		bets = append(bets, b...)
	}

	return bets, nil
}

// betsForPick draws every bet referencing pick: group members in group
// order first, then normal users in pool order.
func (s *Synthesizer) betsForPick(st *Stream, pick model.Pick, pop *model.Population) ([]model.Bet, error) {
	var bets []model.Bet

	for _, group := range pop.Groups {
		if group.SharpID == "" || group.SharpID != pick.SharpID {
			continue
		}
		for _, user := range group.Members {
			p := s.cfg.TailProbability + st.Uniform(-s.cfg.TailJitter, s.cfg.TailJitter)
			if st.Float64() >= p {
				continue
			}
			lag := math.Max(0, st.NormFloat64()*s.cfg.TailLagStdSecs+s.cfg.TailLagMeanSecs)
			bet, err := newBet(st, pick, user, seconds(lag), pick.SharpID)
			if err != nil {
				return nil, err
			}
			bets = append(bets, bet)
		}
	}

	span := max(1, s.cfg.NoiseDelayMaxSecs-s.cfg.NoiseDelayMinSecs+1)
	for _, user := range pop.Normal {
		if st.Float64() >= s.cfg.NoiseProbability {
			continue
		}
		delay := time.Duration(s.cfg.NoiseDelayMinSecs+st.IntN(span)) * time.Second
		bet, err := newBet(st, pick, user, delay, "")
		if err != nil {
			return nil, err
		}
		bets = append(bets, bet)
	}

	return bets, nil
}

func newBet(st *Stream, pick model.Pick, user string, delay time.Duration, sharp string) (model.Bet, error) {
	id, err := st.NewID()
	if err != nil {
		return model.Bet{}, err
	}
	return model.Bet{
		BetID:         id,
		Timestamp:     pick.PostTime.Add(delay),
		UserID:        user,
		PropID:        pick.PropID,
		SharpFollowed: sharp,
	}, nil
}
