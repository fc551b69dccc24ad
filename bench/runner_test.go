package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMultiple_Single(t *testing.T) {
	var buf bytes.Buffer
	calls := 0

	results, stats := RunMultiple(context.Background(), &buf, BenchParams{RowCount: 10}, "native", func(run int) QueryResult {
		calls++
		assert.Equal(t, 0, run)
		return QueryResult{Duration: time.Second}
	})

	assert.Equal(t, 1, calls)
	require.Len(t, results, 1)
	assert.Equal(t, 1, stats.Total)
	assert.Empty(t, buf.String())
}

func TestRunMultiple_Many(t *testing.T) {
	var buf bytes.Buffer
	var seen []int

	results, stats := RunMultiple(context.Background(), &buf, BenchParams{RowCount: 10, Runs: 3}, "psql", func(run int) QueryResult {
		seen = append(seen, run)
		return QueryResult{Duration: time.Second}
	})

	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, "psql (3/3 runs)", stats.Label)

	out := buf.String()
	assert.Contains(t, out, "3-RUN BENCHMARK: psql")
	assert.Contains(t, out, "── Run 3/3 ──")
	assert.Contains(t, out, "PASSED")
	assert.NotContains(t, out, "Cooling down")
}

func TestRunMultiple_StopsOnFirstFailure(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	params := BenchParams{RowCount: 10, Runs: 3, Cooldown: time.Hour}

	start := time.Now()
	results, stats := RunMultiple(context.Background(), &buf, params, "native", func(run int) QueryResult {
		calls++
		return QueryResult{Err: errors.New("permission denied")}
	})

	assert.Less(t, time.Since(start), time.Minute)
	assert.Equal(t, 1, calls)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Errors)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "── Run "))
	assert.NotContains(t, out, "Cooling down")
	assert.Contains(t, out, "Runs:         1")
	assert.Contains(t, out, "Errors:       1")
}

func TestRunMultiple_CooldownCancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	params := BenchParams{RowCount: 10, Runs: 3, Cooldown: time.Hour}

	results, _ := RunMultiple(ctx, &buf, params, "native", func(run int) QueryResult {
		calls++
		cancel()
		return QueryResult{Duration: time.Second}
	})

	assert.Equal(t, 1, calls)
	assert.Len(t, results, 1)
	assert.Contains(t, buf.String(), "Cooling down (1h0m0s)... interrupted")
}
