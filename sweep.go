package priobench

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neilotoole/sq/libsq/core/lg"
	"github.com/samber/lo"

	"github.com/neilotoole/priobench/internal/flagmu"
	"github.com/neilotoole/priobench/internal/gatemu"
	"github.com/neilotoole/priobench/internal/plainmu"
	"github.com/neilotoole/priobench/internal/prefmu"
)

var (
	_ PriorityMutex = (*plainmu.Mutex)(nil)
	_ PriorityMutex = (*gatemu.Mutex)(nil)
	_ PriorityMutex = (*flagmu.Mutex)(nil)
	_ PriorityMutex = (*prefmu.Mutex)(nil)
)

// Strategy pairs a lock design's display name with a factory for fresh
// instances. Each harness run gets its own instance; instances are never
// shared across runs.
type Strategy struct {
	Name string
	New  func() PriorityMutex
}

// Strategies returns the four lock designs in fixed order: Plain, Gated,
// Flagged, Preferenced.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "Plain", New: func() PriorityMutex { return &plainmu.Mutex{} }},
		{Name: "Gated", New: func() PriorityMutex { return &gatemu.Mutex{} }},
		{Name: "Flagged", New: func() PriorityMutex { return flagmu.New() }},
		{Name: "Preferenced", New: func() PriorityMutex { return prefmu.New() }},
	}
}

// DefaultDurations returns the reference sweep set: seven log-spaced
// values from 1µs to 1s, applied independently to each workload axis.
func DefaultDurations() []time.Duration {
	return []time.Duration{
		time.Microsecond,
		10 * time.Microsecond,
		100 * time.Microsecond,
		time.Millisecond,
		10 * time.Millisecond,
		100 * time.Millisecond,
		time.Second,
	}
}

// SweepConfig parameterizes a Sweep.
type SweepConfig struct {
	// RunFor is the wall-clock duration of each individual harness run.
	RunFor time.Duration

	// Durations is the discrete set swept independently over the three
	// workload axes. Every combination of three values from this set is
	// one workload shape.
	Durations []time.Duration

	// Timeout, if positive, is applied as Test.Timeout to every run.
	Timeout time.Duration
}

// validate rejects degenerate configurations.
func (c SweepConfig) validate() error {
	if c.RunFor <= 0 {
		return fmt.Errorf("sweep: run duration must be positive, got %s", c.RunFor)
	}
	if len(c.Durations) == 0 {
		return errors.New("sweep: durations set is empty")
	}
	for i, d := range c.Durations {
		if d <= 0 {
			return fmt.Errorf("sweep: durations[%d] must be positive, got %s", i, d)
		}
	}
	return nil
}

// SweepResult tallies, over all workload shapes, which strategy won each
// axis: most low-priority work accumulated, and least high-priority
// latency accumulated. Keys are Strategy names.
type SweepResult struct {
	LowWins  map[string]int
	HighWins map[string]int

	// Runs is the total number of harness runs executed.
	Runs int
}

// ObserveFunc receives every individual run result as the sweep
// progresses. Formatting and reporting are the observer's business, not
// the sweep's.
type ObserveFunc func(shape Workload, strategy string, res Result)

// record pairs a strategy name with its run result for one shape.
type record struct {
	name string
	res  Result
}

// Sweep runs the contention harness for every combination of workload
// shape (three axes over cfg.Durations) and strategy, and tallies the
// per-shape winners on each axis. A nil strategies slice means
// Strategies(); a nil observe is allowed; a nil log discards.
//
// With the default seven durations and four strategies that is
// 7×7×7×4 = 1372 runs of cfg.RunFor each, so sweeps at the reference
// 120s run duration are a multi-day affair. The run duration is
// configurable for exactly that reason.
func Sweep(log *slog.Logger, cfg SweepConfig, strategies []Strategy, observe ObserveFunc) (*SweepResult, error) {
	if log == nil {
		log = lg.Discard()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if strategies == nil {
		strategies = Strategies()
	}
	if len(strategies) == 0 {
		return nil, errors.New("sweep: strategies set is empty")
	}

	sr := &SweepResult{
		LowWins:  map[string]int{},
		HighWins: map[string]int{},
	}

	for _, lowWork := range cfg.Durations {
		for _, highWork := range cfg.Durations {
			for _, highSleep := range cfg.Durations {
				shape := Workload{
					LowWork:   lowWork,
					HighWork:  highWork,
					HighSleep: highSleep,
				}

				records := make([]record, 0, len(strategies))
				for _, strat := range strategies {
					t, err := NewTest(log, strat.New(), shape, cfg.RunFor)
					if err != nil {
						return nil, fmt.Errorf("sweep: %s [%s]: %w", strat.Name, shape, err)
					}
					t.Timeout = cfg.Timeout

					res, err := t.Run()
					if err != nil {
						return nil, fmt.Errorf("sweep: %s [%s]: %w", strat.Name, shape, err)
					}
					sr.Runs++

					if observe != nil {
						observe(shape, strat.Name, res)
					}
					records = append(records, record{name: strat.Name, res: res})
				}

				bestLow := lo.MaxBy(records, func(a, b record) bool {
					return a.res.LowWorkNanos > b.res.LowWorkNanos
				})
				bestHigh := lo.MinBy(records, func(a, b record) bool {
					return a.res.HighLatencyNanos < b.res.HighLatencyNanos
				})
				sr.LowWins[bestLow.name]++
				sr.HighWins[bestHigh.name]++

				log.Debug("shape swept", "shape", shape.String(),
					"best_low", bestLow.name, "best_high", bestHigh.name)
			}
		}
	}

	return sr, nil
}
