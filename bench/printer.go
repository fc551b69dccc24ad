package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

func PrintStats(w io.Writer, s BenchStats) {
	fmt.Fprintf(w, "\n┌─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│  %-39s│\n", s.Label)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Runs:         %-24d│\n", s.Total)
	fmt.Fprintf(w, "│  Errors:       %-24d│\n", s.Errors)
	fmt.Fprintf(w, "│  Rows/query:   %-24d│\n", s.RowCount)
	fmt.Fprintf(w, "│  Duration:     %-24s│\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "│  Rows/sec:     %-24.1f│\n", s.RowsPerSec)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Latency avg:  %-24s│\n", FmtDur(s.LatencyAvg))
	fmt.Fprintf(w, "│  Latency min:  %-24s│\n", FmtDur(s.LatencyMin))
	fmt.Fprintf(w, "│  Latency max:  %-24s│\n", FmtDur(s.LatencyMax))
	fmt.Fprintf(w, "│  Latency p50:  %-24s│\n", FmtDur(s.LatencyP50))
	fmt.Fprintf(w, "│  Latency p90:  %-24s│\n", FmtDur(s.LatencyP90))
	fmt.Fprintf(w, "│  Latency p99:  %-24s│\n", FmtDur(s.LatencyP99))
	fmt.Fprintf(w, "└─────────────────────────────────────────┘\n")
}

// PrintCompletion writes the result line of a successful native run.
func PrintCompletion(w io.Writer, d time.Duration) {
	fmt.Fprintf(w, "Completed in %s secs\n", FmtSecs(d))
}

// PrintExitStatus writes the result line of a subprocess run. status is the exit code, or "none".
func PrintExitStatus(w io.Writer, d time.Duration, status string) {
	fmt.Fprintf(w, "Completed in %s secs with status code %s\n", FmtSecs(d), status)
}

func PrintFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "Ended with an error(%v)\n", err)
}

func FmtSecs(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 32)
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	if us < 1000000 {
		return fmt.Sprintf("%.2fms", us/1000)
	}
	return fmt.Sprintf("%.3fs", us/1000000)
}
