package simulate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	cfg := DefaultConfig()

	ds, err := Run(context.Background(), cfg, testStart)
	require.NoError(t, err)

	assert.Len(t, ds.Picks, cfg.Props)
	assert.Len(t, ds.Population.Groups, cfg.Groups)
	assert.Equal(t, cfg.Users, ds.Population.Size())
	assert.NotEmpty(t, ds.Bets)
	assert.Positive(t, ds.TailBets())
	assert.Less(t, ds.TailBets(), len(ds.Bets))

	again, err := Run(context.Background(), cfg, testStart)
	require.NoError(t, err)
	assert.Equal(t, ds, again)
}

func TestRun_ConfigErrorBeforeGeneration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users = 10

	ds, err := Run(context.Background(), cfg, testStart)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, ErrInsufficientPopulation))
}
