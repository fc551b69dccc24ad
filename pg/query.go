package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Send runs sql and discards every returned row.
func Send(ctx context.Context, q Querier, sql string) error {
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	for rows.Next() {
	}
	return errors.Wrap(rows.Err(), "reading rows failed")
}
