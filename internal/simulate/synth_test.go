package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/model"
)

// fixture builds picks and a partition from the default config and seed.
func fixture(t *testing.T, cfg config.SimConfig) ([]model.Pick, *model.Population) {
	t.Helper()
	src := NewSource(cfg.Seed)
	picks := GeneratePicks(src.Stream(streamPicks, 0), cfg.Props, cfg.Sharps, testStart,
		time.Duration(cfg.PostIntervalSecs)*time.Second)
	pop, err := Partition(src.Stream(streamPopulation, 0), cfg.Users, cfg.Groups, cfg.UsersPerGroup)
	require.NoError(t, err)
	return picks, pop
}

func synthesize(t *testing.T, cfg config.SimConfig) ([]model.Pick, *model.Population, []model.Bet) {
	t.Helper()
	picks, pop := fixture(t, cfg)
	bets, err := NewSynthesizer(cfg, NewSource(cfg.Seed)).Synthesize(context.Background(), picks, pop)
	require.NoError(t, err)
	return picks, pop, bets
}

func TestSynthesize_AssignsEveryGroup(t *testing.T) {
	picks, pop, _ := synthesize(t, DefaultConfig())

	sharps := make(map[string]bool)
	for _, s := range model.DistinctSharps(picks) {
		sharps[s] = true
	}
	for _, g := range pop.Groups {
		assert.True(t, sharps[g.SharpID], "group %d assigned to %q, not a posting sharp", g.Index, g.SharpID)
	}
}

func TestSynthesize_TailBetsFollowAssignedSharp(t *testing.T) {
	cfg := DefaultConfig()
	picks, pop, bets := synthesize(t, cfg)

	byProp := make(map[string]model.Pick, len(picks))
	for _, p := range picks {
		byProp[p.PropID] = p
	}

	var tail, noise int
	for _, b := range bets {
		pick, ok := byProp[b.PropID]
		require.True(t, ok, "bet %s references unknown prop %s", b.BetID, b.PropID)
		lag := b.Timestamp.Sub(pick.PostTime)
		assert.GreaterOrEqual(t, lag, time.Duration(0), "bet %s placed before its pick", b.BetID)

		group := pop.GroupOf(b.UserID)
		if b.IsTail() {
			tail++
			require.NotNil(t, group, "tail bet %s from normal user %s", b.BetID, b.UserID)
			assert.Equal(t, group.SharpID, b.SharpFollowed)
			assert.Equal(t, pick.SharpID, b.SharpFollowed)
			continue
		}
		noise++
		assert.Nil(t, group, "noise bet %s from tailer %s", b.BetID, b.UserID)
		assert.GreaterOrEqual(t, lag, time.Duration(cfg.NoiseDelayMinSecs)*time.Second)
		assert.LessOrEqual(t, lag, time.Duration(cfg.NoiseDelayMaxSecs)*time.Second)
		assert.Zero(t, lag%time.Second, "noise delay is whole seconds")
	}

	assert.Positive(t, tail)
	assert.Positive(t, noise)
}

func TestSynthesize_UniqueIDs(t *testing.T) {
	_, _, bets := synthesize(t, DefaultConfig())

	seen := make(map[string]bool, len(bets))
	for _, b := range bets {
		assert.False(t, seen[b.BetID], "duplicate bet id %s", b.BetID)
		seen[b.BetID] = true
	}
}

func TestSynthesize_DeterministicAcrossWorkers(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Workers = 1
	_, _, serial := synthesize(t, cfg)

	cfg.Workers = 16
	_, _, parallel := synthesize(t, cfg)

	assert.Equal(t, serial, parallel)
}

func TestSynthesize_SeedChangesOutput(t *testing.T) {
	cfg := DefaultConfig()
	_, _, a := synthesize(t, cfg)
	_, _, b := synthesize(t, cfg)
	assert.Equal(t, a, b)

	cfg.Seed = 43
	_, _, c := synthesize(t, cfg)
	assert.NotEqual(t, a, c)
}

func TestSynthesize_CertainTailing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TailProbability = 1
	cfg.TailJitter = 0
	cfg.NoiseProbability = 0

	picks, pop, bets := synthesize(t, cfg)

	want := 0
	for _, p := range picks {
		for _, g := range pop.Groups {
			if g.SharpID == p.SharpID {
				want += len(g.Members)
			}
		}
	}
	assert.Len(t, bets, want)
	for _, b := range bets {
		assert.True(t, b.IsTail())
	}
}

func TestSynthesize_NegativeLagTruncatedToZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TailProbability = 1
	cfg.TailJitter = 0
	cfg.TailLagMeanSecs = -5
	cfg.TailLagStdSecs = 0
	cfg.NoiseProbability = 0

	picks, _, bets := synthesize(t, cfg)
	require.NotEmpty(t, bets)

	byProp := make(map[string]model.Pick, len(picks))
	for _, p := range picks {
		byProp[p.PropID] = p
	}
	for _, b := range bets {
		assert.Equal(t, byProp[b.PropID].PostTime, b.Timestamp)
	}
}

func TestSynthesize_NoTailingWithoutPicks(t *testing.T) {
	cfg := DefaultConfig()
	_, pop := fixture(t, cfg)

	bets, err := NewSynthesizer(cfg, NewSource(cfg.Seed)).Synthesize(context.Background(), nil, pop)
	require.NoError(t, err)
	assert.Empty(t, bets)
	for _, g := range pop.Groups {
		assert.Empty(t, g.SharpID)
	}
}

func TestSynthesize_UnmatchedSharpYieldsNoTailBets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoiseProbability = 0

	pop := &model.Population{Groups: []model.TailerGroup{{Index: 0, Members: []string{"user_0"}, SharpID: "sharp_9"}}}
	picks := []model.Pick{{PropID: "prop_0", SharpID: "sharp_1", PostTime: testStart}}

	s := NewSynthesizer(cfg, NewSource(cfg.Seed))
	bets, err := s.betsForPick(NewSource(1).Stream(streamBets, 0), picks[0], pop)
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestSynthesize_Cancelled(t *testing.T) {
	cfg := DefaultConfig()
	picks, pop := fixture(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSynthesizer(cfg, NewSource(cfg.Seed)).Synthesize(ctx, picks, pop)
	assert.Error(t, err)
}
