// Command beamtrace traces levels headlessly and prints every beam segment
// together with the sensor outcome.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"

	"beamgrid/internal/app"
	"beamgrid/internal/ctxlog"
	"beamgrid/internal/level"
	"beamgrid/internal/placement"
)

func main() {
	cfg, err := app.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	var places placeList
	levelID := flag.String("level", cfg.Level, `level id to trace, or "all"`)
	levelDir := flag.String("level-dir", cfg.LevelDir, "directory of extra .hcl levels")
	seed := flag.Int64("seed", cfg.Seed, "seed for scattered walls")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	asJSON := flag.Bool("json", false, "print reports as JSON")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Var(&places, "place", "row,col,kind[,orientation] to place before tracing; repeatable")
	flag.Parse()

	logger := app.NewLogger(*logLevel, cfg.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg, err := app.LoadLevels(ctx, *levelDir)
	if err != nil {
		log.Fatal(err)
	}
	levels, err := selectLevels(reg, *levelID)
	if err != nil {
		log.Fatal(err)
	}
	if len(places) > 0 && len(levels) > 1 {
		log.Fatal("-place needs a single -level")
	}

	reports := run(ctx, levels, *seed, places, *workers)
	if err := write(os.Stdout, reports, *asJSON); err != nil {
		log.Fatal(err)
	}
	for _, r := range reports {
		if r.Err != "" {
			os.Exit(1)
		}
	}
}

func selectLevels(reg *level.Registry, id string) ([]*level.Level, error) {
	if id == "all" {
		return reg.All(), nil
	}
	l, err := reg.ByID(id)
	if err != nil {
		return nil, err
	}
	return []*level.Level{l}, nil
}

// run traces levels on a pool of workers and returns the reports in level
// order.
func run(ctx context.Context, levels []*level.Level, seed int64, places []placement.Change, workers int) []report {
	if workers <= 0 {
		workers = 1
	}
	type job struct {
		order int
		l     *level.Level
	}
	jobs := make(chan job)
	results := make(chan report)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r := traceLevel(ctx, j.l, seed, places)
				r.order = j.order
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i, l := range levels {
			jobs <- job{order: i, l: l}
		}
		close(jobs)
	}()

	var all []report
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })
	return all
}

func write(w io.Writer, reports []report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeText(w, r)
	}
	return nil
}
