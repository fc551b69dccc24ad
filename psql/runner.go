// Package psql benchmarks a query by piping it into an external command-line client.
package psql

import (
	"context"
	"io"
	"time"

	"pgseries-bench/bench"
	"pgseries-bench/retry"
	"pgseries-bench/series"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultRetryExitCode is what psql returns when it cannot connect.
const DefaultRetryExitCode = 2

var (
	ErrNoStdin      = errors.New("child did not have a handle to stdin")
	ErrClientExited = errors.New("failed to connect, client exited immediately")
)

// DefaultPolicy waits one second before each of ten attempts, the first included.
var DefaultPolicy = retry.Policy{Attempts: 10, Delay: time.Second, DelayFirst: true}

type Outcome struct {
	Status   ExitStatus
	Duration time.Duration
}

type Runner struct {
	spawner       Spawner
	retryExitCode int
	policy        retry.Policy
	sleep         retry.Sleeper
	log           zerolog.Logger
}

func NewRunner(spawner Spawner, retryExitCode int, log zerolog.Logger) *Runner {
	return &Runner{
		spawner:       spawner,
		retryExitCode: retryExitCode,
		policy:        DefaultPolicy,
		sleep:         retry.Sleep,
		log:           log,
	}
}

// Send spawns the client, writes sql and waits for it to exit. A spawn failure, a missing
// stdin or the retry exit code start a new attempt; any other exit code is the outcome.
func (r *Runner) Send(ctx context.Context, sql string) (Outcome, error) {
	var outcome Outcome
	err := retry.Do(ctx, r.policy, r.sleep, func(ctx context.Context, attempt int) error {
		p, err := r.connect(ctx)
		if err != nil {
			r.log.Debug().Err(err).Int("attempt", attempt).Msg("spawn attempt failed")
			return err
		}

		timer := bench.StartTimer()
		status, err := r.send(ctx, p, sql)
		if err != nil {
			return retry.Permanent(err)
		}
		if status.IsCode(r.retryExitCode) {
			r.log.Warn().Int("attempt", attempt).Int("exit_code", status.Code).Msg("Failed to connect, client exited immediately. Retrying")
			return errors.Wrapf(ErrClientExited, "exit status %d", status.Code)
		}

		outcome = Outcome{Status: status, Duration: timer.Stop(nil).Duration}
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				r.log.Error().Err(a.Err).Int("attempt", a.Index).Msg("attempt failed")
			}
		}
		return Outcome{}, errors.Wrap(err, "failed to send query")
	}
	return outcome, nil
}

func (r *Runner) connect(ctx context.Context) (Process, error) {
	p, err := r.spawner.Spawn(ctx)
	if err != nil {
		return nil, err
	}
	if p.Stdin() == nil {
		if err := p.Kill(); err != nil {
			r.log.Debug().Err(err).Msg("failed to kill child without stdin")
		}
		return nil, ErrNoStdin
	}

	r.log.Info().Msg("Connected.")
	return p, nil
}

// send writes sql, closes stdin to signal end of input and waits for exit.
// A failed write is ignored when the client exited with the retry code, since it quit before reading.
func (r *Runner) send(ctx context.Context, p Process, sql string) (ExitStatus, error) {
	stdin := p.Stdin()
	_, writeErr := io.WriteString(stdin, sql)
	if err := stdin.Close(); err != nil {
		r.log.Debug().Err(err).Msg("failed to close stdin")
	}

	status, err := p.Wait()
	if err != nil {
		return status, err
	}
	if ctx.Err() != nil {
		return status, ctx.Err()
	}
	if writeErr != nil && !status.IsCode(r.retryExitCode) {
		return status, errors.Wrap(writeErr, "could not write to stdin")
	}
	return status, nil
}

// Run sends the generated query up to params.Runs times and reports each exit status.
// The first failure ends the series.
func Run(ctx context.Context, out io.Writer, log zerolog.Logger, runner *Runner, params bench.BenchParams) error {
	sql := series.Query(params.RowCount)
	log.Debug().Str("sql", sql).Msg("query built")

	results, _ := bench.RunMultiple(ctx, out, params, "psql", func(run int) bench.QueryResult {
		outcome, err := runner.Send(ctx, sql)
		if err != nil {
			return bench.QueryResult{At: time.Now(), Err: err}
		}

		bench.PrintExitStatus(out, outcome.Duration, outcome.Status.String())
		return bench.QueryResult{At: time.Now().Add(-outcome.Duration), Duration: outcome.Duration}
	})

	return bench.FirstError(results)
}
