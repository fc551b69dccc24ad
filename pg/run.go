package pg

import (
	"context"
	"io"

	"pgseries-bench/bench"
	"pgseries-bench/series"

	"github.com/rs/zerolog"
)

// Run connects to the fixed Postgres target, sends the generated query and reports timing.
func Run(ctx context.Context, out io.Writer, log zerolog.Logger, params bench.BenchParams) error {
	connector, err := NewConnector(bench.DefaultConnConfig, log)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	conn, err := connector.Connect(ctx)
	if err != nil {
		stop()
		return err
	}
	defer conn.Close(context.Background())
	defer stop()

	return RunQueries(ctx, out, log, conn, params)
}

// RunQueries sends the query up to params.Runs times over q. The first failure ends the series.
func RunQueries(ctx context.Context, out io.Writer, log zerolog.Logger, q Querier, params bench.BenchParams) error {
	sql := series.Query(params.RowCount)
	log.Debug().Str("sql", sql).Msg("query built")

	results, _ := bench.RunMultiple(ctx, out, params, "native postgres", func(run int) bench.QueryResult {
		timer := bench.StartTimer()
		r := timer.Stop(Send(ctx, q, sql))
		if r.Err != nil {
			bench.PrintFailure(out, r.Err)
			return r
		}

		bench.PrintCompletion(out, r.Duration)
		return r
	})

	return bench.FirstError(results)
}
