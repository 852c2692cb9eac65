package priobench_test

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neilotoole/priobench"
)

func TestSweepConfigValidation(t *testing.T) {
	valid := priobench.SweepConfig{
		RunFor:    10 * time.Millisecond,
		Durations: []time.Duration{time.Millisecond},
	}

	testCases := []struct {
		name   string
		mutate func(*priobench.SweepConfig)
		errStr string
	}{
		{"zero run duration", func(c *priobench.SweepConfig) { c.RunFor = 0 }, "run duration"},
		{"empty durations", func(c *priobench.SweepConfig) { c.Durations = nil }, "durations set is empty"},
		{"negative duration", func(c *priobench.SweepConfig) { c.Durations = []time.Duration{time.Millisecond, -time.Millisecond} }, "must be positive"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := priobench.Sweep(nil, cfg, nil, nil)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errStr)
		})
	}

	_, err := priobench.Sweep(nil, valid, []priobench.Strategy{}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "strategies set is empty")
}

func TestDefaultDurations(t *testing.T) {
	ds := priobench.DefaultDurations()
	require.Len(t, ds, 7)
	require.Equal(t, time.Microsecond, ds[0])
	require.Equal(t, time.Second, ds[len(ds)-1])
	for i := 1; i < len(ds); i++ {
		require.Equal(t, 10*ds[i-1], ds[i], "durations must be log-spaced")
	}
}

func TestSweepTally(t *testing.T) {
	cfg := priobench.SweepConfig{
		RunFor:    25 * time.Millisecond,
		Durations: []time.Duration{300 * time.Microsecond, 800 * time.Microsecond},
		Timeout:   2 * time.Second,
	}
	strategies := priobench.Strategies()
	stratNames := lo.Map(strategies, func(s priobench.Strategy, _ int) string { return s.Name })

	const combos = 2 * 2 * 2
	var observed int
	observe := func(shape priobench.Workload, strategy string, res priobench.Result) {
		observed++
		assert.Contains(t, stratNames, strategy)
		assert.Positive(t, res.LowIters, "%s [%s]", strategy, shape)
	}

	sr, err := priobench.Sweep(nil, cfg, strategies, observe)
	require.NoError(t, err)

	require.Equal(t, combos*len(strategies), sr.Runs)
	require.Equal(t, combos*len(strategies), observed)

	// Every shape produces exactly one winner per axis.
	require.Equal(t, combos, lo.Sum(lo.Values(sr.LowWins)))
	require.Equal(t, combos, lo.Sum(lo.Values(sr.HighWins)))
	for name := range sr.LowWins {
		require.Contains(t, stratNames, name)
	}
	for name := range sr.HighWins {
		require.Contains(t, stratNames, name)
	}
}
