// Command priobench sweeps the four priority-mutex designs across the
// full grid of workload shapes and prints per-run totals plus final win
// counts for each axis.
//
// The full sweep is 7×7×7 shapes × 4 strategies; at the reference 120s
// per run that takes days. Use -run to shorten individual runs, e.g.:
//
//	priobench -run 1s -timeout 5s
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/neilotoole/sq/libsq/core/lg"
	"github.com/samber/lo"

	"github.com/neilotoole/priobench"
)

var (
	runFor  = flag.Duration("run", 120*time.Second, "wall-clock duration of each harness run")
	timeout = flag.Duration("timeout", 0, "grace period after which a non-draining run aborts the sweep (0 = wait forever)")
	profile = flag.Bool("profile", false, "write a CPU profile to priobench.pprof")
	verbose = flag.Bool("verbose", false, "log run details to stderr at debug level")
)

func main() {
	flag.Parse()

	logger := lg.Discard()
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if *profile {
		f, err := os.Create("priobench.pprof")
		if err != nil {
			log.Fatal(err)
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg := priobench.SweepConfig{
		RunFor:    *runFor,
		Durations: priobench.DefaultDurations(),
		Timeout:   *timeout,
	}

	fmt.Println("  Low Work,  High Work, High Sleep")
	var lastShape priobench.Workload
	observe := func(shape priobench.Workload, strategy string, res priobench.Result) {
		if shape != lastShape {
			fmt.Printf("%10d, %10d, %10d\n",
				shape.LowWork.Microseconds(),
				shape.HighWork.Microseconds(),
				shape.HighSleep.Microseconds())
			lastShape = shape
		}
		fmt.Printf("%15s Low Priority: %12.0f, High Priority: %12.0f\n",
			strategy, res.LowWorkNanos, res.HighLatencyNanos)
	}

	sr, err := priobench.Sweep(logger, cfg, nil, observe)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Strategy win counts for low-priority amount of work:")
	printWins(sr.LowWins)
	fmt.Println("Strategy win counts for high-priority lowest latency:")
	printWins(sr.HighWins)
}

func printWins(wins map[string]int) {
	names := lo.Keys(wins)
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %d\n", name, wins[name])
	}
}
