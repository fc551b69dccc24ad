package bench

import (
	"math"
	"sort"
	"time"
)

// ComputeStats summarizes query results. Duration is the summed query time of successful runs.
func ComputeStats(label string, rowCount int64, results []QueryResult) BenchStats {
	stats := BenchStats{Label: label, Total: len(results), RowCount: rowCount}

	var durations []time.Duration
	for _, r := range results {
		if r.Err != nil {
			stats.Errors++
			continue
		}
		durations = append(durations, r.Duration)
	}

	if len(durations) == 0 {
		return stats
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	stats.Duration = sum
	stats.LatencyAvg = sum / time.Duration(len(durations))
	stats.LatencyMin = durations[0]
	stats.LatencyMax = durations[len(durations)-1]
	stats.LatencyP50 = pct(durations, 50)
	stats.LatencyP75 = pct(durations, 75)
	stats.LatencyP90 = pct(durations, 90)
	stats.LatencyP95 = pct(durations, 95)
	stats.LatencyP99 = pct(durations, 99)
	if sum > 0 {
		stats.QPS = float64(len(durations)) / sum.Seconds()
		stats.RowsPerSec = float64(rowCount) * stats.QPS
	}

	return stats
}

// SteadyState checks if successful run durations stay within tolerance of their mean.
func SteadyState(results []QueryResult, tolerance float64) (bool, float64) {
	var durations []float64
	for _, r := range results {
		if r.Err == nil {
			durations = append(durations, r.Duration.Seconds())
		}
	}
	if len(durations) < 2 {
		return true, 0
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	mean := sum / float64(len(durations))
	if mean == 0 {
		return false, 0
	}

	var maxDev float64
	for _, d := range durations {
		dev := math.Abs(d-mean) / mean
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev <= tolerance, maxDev
}

// FirstError returns the first failed result's error.
func FirstError(results []QueryResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func pct(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
