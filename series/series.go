package series

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	EnvExponent     = "ROW_COUNT_LOG10"
	DefaultExponent = 4

	// MaxExponent keeps 10^k inside int64.
	MaxExponent = 18
)

var ErrExponentRange = errors.New("exponent out of range")

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type Dialect int

const (
	Postgres Dialect = iota
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

const postgresTemplate = `
        select
            t.n::integer           as c1,
            t.n::float             as c2,
            to_char(t.n, '999999') as c3
        from generate_series(1, %d) as t(n)
        `

// MySQL has no generate_series. lpad(n, 7) matches to_char(n, '999999') only up to 999999;
// beyond that to_char prints '#' and lpad truncates to 7 characters.
const mysqlTemplate = `
        with recursive t(n) as (
            select 1
            union all
            select n + 1 from t where n < %d
        )
        select
            cast(t.n as signed)    as c1,
            cast(t.n as double)    as c2,
            lpad(t.n, 7, ' ')      as c3
        from t
        `

// ParseExponent parses a ROW_COUNT_LOG10 value and rejects anything outside 0..MaxExponent.
func ParseExponent(raw string) (int, error) {
	k, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse %s", EnvExponent)
	}
	if k < 0 || k > MaxExponent {
		return 0, errors.Wrapf(ErrExponentRange, "%s=%d, allowed 0..%d", EnvExponent, k, MaxExponent)
	}
	return k, nil
}

// RowCount returns 10^k.
func RowCount(k int) (int64, error) {
	if k < 0 || k > MaxExponent {
		return 0, errors.Wrapf(ErrExponentRange, "exponent %d", k)
	}
	n := int64(1)
	for i := 0; i < k; i++ {
		n *= 10
	}
	return n, nil
}

// Exponent reads the exponent through lookup. Missing or invalid values fall back to
// DefaultExponent and the reason is logged.
func Exponent(lookup LookupFunc, log zerolog.Logger) int {
	raw, ok := lookup(EnvExponent)
	if !ok {
		log.Warn().Int("default", DefaultExponent).Msgf("env %s not found, use default", EnvExponent)
		return DefaultExponent
	}
	k, err := ParseExponent(raw)
	if err != nil {
		log.Warn().Err(err).Int("default", DefaultExponent).Msg("use default")
		return DefaultExponent
	}
	return k
}

// RowCountFromEnv computes the row count from the process environment.
// It is recomputed on every call.
func RowCountFromEnv(log zerolog.Logger) int64 {
	return rowCountFrom(os.LookupEnv, log)
}

func rowCountFrom(lookup LookupFunc, log zerolog.Logger) int64 {
	n, _ := RowCount(Exponent(lookup, log))
	log.Info().Int64("row_count", n).Msg("row count resolved")
	return n
}

// Build renders the benchmark query for n rows in the given dialect.
func Build(d Dialect, n int64) string {
	if d == MySQL {
		return fmt.Sprintf(mysqlTemplate, n)
	}
	return fmt.Sprintf(postgresTemplate, n)
}

// Query renders the Postgres query for n rows.
func Query(n int64) string {
	return Build(Postgres, n)
}
