package bench

import (
	"context"
	"fmt"
	"io"

	"pgseries-bench/retry"
)

// RunMultiple executes runFn params.Runs times and prints a summary when there is more than one run.
// runFn receives the run index (0-based) and returns the result of that run.
// The first failed run, or ctx ending during a cooldown, stops the series; only executed runs are returned.
func RunMultiple(ctx context.Context, w io.Writer, params BenchParams, label string, runFn func(run int) QueryResult) ([]QueryResult, BenchStats) {
	runs := params.Runs
	if runs <= 1 {
		r := runFn(0)
		results := []QueryResult{r}
		return results, ComputeStats(label, params.RowCount, results)
	}

	fmt.Fprintf(w, "\n╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  %d-RUN BENCHMARK: %-38s║\n", runs, label)
	fmt.Fprintf(w, "║  Rows per query: %-41d║\n", params.RowCount)
	fmt.Fprintf(w, "╚═══════════════════════════════════════════════════════════╝\n")

	results := make([]QueryResult, 0, runs)
	for i := 0; i < runs; i++ {
		fmt.Fprintf(w, "\n── Run %d/%d ──\n", i+1, runs)
		r := runFn(i)
		results = append(results, r)
		if r.Err != nil {
			fmt.Fprintf(w, "  ✗ Run %d failed, stopping\n", i+1)
			break
		}

		// Pause between runs (not after last)
		if params.Cooldown > 0 && i < runs-1 {
			fmt.Fprintf(w, "  Cooling down (%s)...", params.Cooldown)
			if err := retry.Sleep(ctx, params.Cooldown); err != nil {
				fmt.Fprintln(w, " interrupted")
				break
			}
			fmt.Fprintln(w, " done")
		}
	}

	steady, maxDev := SteadyState(results, 0.05)
	fmt.Fprintf(w, "\n── Steady-State Check ──\n")
	fmt.Fprintf(w, "  Max duration deviation: %.1f%%\n", maxDev*100)
	if steady {
		fmt.Fprintln(w, "  ✅ PASSED (within ±5%)")
	} else {
		fmt.Fprintf(w, "  ⚠️  FAILED (%.1f%% > 5%%)\n", maxDev*100)
	}

	stats := ComputeStats(fmt.Sprintf("%s (%d/%d runs)", label, len(results), runs), params.RowCount, results)
	PrintStats(w, stats)

	return results, stats
}
