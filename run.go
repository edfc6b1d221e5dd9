package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"ldmasim/emu"
	"ldmasim/hw/ldma"
	"ldmasim/hw/trace"
)

// runMain runs the scenarios concurrently and reports their results. It
// returns the process exit code.
func runMain(args Run, cfg emu.Config) int {
	var traceOut io.Writer
	if args.Trace != nil {
		traceOut = args.Trace
		defer args.Trace.Close()
	}
	if args.State != nil {
		defer args.State.Close()
	}

	results, err := runScenarios(context.Background(), args.Scenarios, cfg, traceOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	failed := report(os.Stdout, results, args.Quiet)
	if args.State != nil {
		for _, res := range results {
			if err := res.State.WriteJSON(args.State); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				return 1
			}
		}
	}
	if failed != 0 {
		return 1
	}
	return 0
}

// runScenarios runs the scenario files with at most one goroutine per CPU.
// Results are in the same order as paths. If traceOut is not nil, the
// transfer trace of every scenario is written to it, each line prefixed with
// the scenario name when more than one runs.
func runScenarios(ctx context.Context, paths []string, cfg emu.Config, traceOut io.Writer) ([]*emu.Result, error) {
	var traceMu sync.Mutex
	results := make([]*emu.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			sc, err := emu.LoadScenario(path)
			if err != nil {
				return err
			}

			var tracer ldma.Tracer
			if traceOut != nil {
				prefix := ""
				if len(paths) > 1 {
					prefix = sc.Name
				}
				tracer = trace.NewWriter(traceOut, &traceMu, prefix)
			}

			res, err := sc.Run(ctx, cfg, tracer)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints the outcome of each scenario and returns the number of
// failing ones.
func report(w io.Writer, results []*emu.Result, quiet bool) int {
	failed := 0
	for _, res := range results {
		if !res.Failed() {
			if !quiet {
				fmt.Fprintf(w, "PASS  %s\n", res.Name)
			}
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", res.Name)
		for _, f := range res.Failures {
			fmt.Fprintf(w, "      %s\n", f)
		}
	}
	if len(results) > 1 {
		fmt.Fprintf(w, "%d/%d scenarios passed\n", len(results)-failed, len(results))
	}
	return failed
}
