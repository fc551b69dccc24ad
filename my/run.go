package my

import (
	"context"
	"database/sql"
	"io"

	"pgseries-bench/bench"
	"pgseries-bench/series"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Send runs query and discards every returned row.
func Send(ctx context.Context, q Querier, query string) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	for rows.Next() {
	}
	return errors.Wrap(rows.Err(), "reading rows failed")
}

// Run connects to the fixed MySQL target, sends the generated query and reports timing.
func Run(ctx context.Context, out io.Writer, log zerolog.Logger, params bench.BenchParams) error {
	db, err := Open(bench.DefaultMySQLConfig, params.RowCount)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := Connect(ctx, db, log); err != nil {
		return err
	}

	return RunQueries(ctx, out, log, db, params)
}

// RunQueries sends the query up to params.Runs times over q. The first failure ends the series.
func RunQueries(ctx context.Context, out io.Writer, log zerolog.Logger, q Querier, params bench.BenchParams) error {
	query := series.Build(series.MySQL, params.RowCount)
	log.Debug().Str("sql", query).Msg("query built")

	results, _ := bench.RunMultiple(ctx, out, params, "native mysql", func(run int) bench.QueryResult {
		timer := bench.StartTimer()
		r := timer.Stop(Send(ctx, q, query))
		if r.Err != nil {
			bench.PrintFailure(out, r.Err)
			return r
		}

		bench.PrintCompletion(out, r.Duration)
		return r
	})

	return bench.FirstError(results)
}
