package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/cellspace"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time moves, region queries and contact steps",
	Long: `Run the synthetic workload and report the average cost per tick of
moving every object, answering a batch of region queries, and computing
contact events.

Examples:
  cellbench bench
  cellbench bench --objects 10000 --ticks 120`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

// queriesPerTick is the number of random region queries issued each tick.
const queriesPerTick = 64

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := newWorld(cfg, flagSeed, flagObjects)
	if err != nil {
		return err
	}
	logger.Info("workload ready", "objects", flagObjects, "hitboxes", w.space.NumHitboxes(),
		"cells", w.space.NumCells(), "cell_size", cfg.CellSize)

	var moveTime, queryTime, stepTime time.Duration
	var hits, events int
	for t := 0; t < flagTicks; t++ {
		start := time.Now()
		if err := w.tick(); err != nil {
			return err
		}
		moveTime += time.Since(start)

		start = time.Now()
		for q := 0; q < queriesPerTick; q++ {
			hits += len(w.space.QueryRegion(w.randomRegion(), cellspace.RoleAny))
		}
		queryTime += time.Since(start)

		start = time.Now()
		events += w.space.Step()
		stepTime += time.Since(start)
	}

	ticks := time.Duration(flagTicks)
	if ticks == 0 {
		return nil
	}
	fmt.Printf("  %-8s  %12s\n", "Phase", "Per tick")
	fmt.Printf("  %-8s  %12s\n", "-----", "--------")
	fmt.Printf("  %-8s  %12v\n", "move", moveTime/ticks)
	fmt.Printf("  %-8s  %12v\n", "query", queryTime/ticks)
	fmt.Printf("  %-8s  %12v\n", "step", stepTime/ticks)
	fmt.Println()
	fmt.Printf("query hits: %d, contact events: %d, active contacts: %d\n", hits, events, w.space.Contacts())
	return nil
}
