package my

import (
	"context"
	"database/sql"
	"math"
	"net"
	"strconv"

	"pgseries-bench/bench"
	"pgseries-bench/retry"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// keepaliveNet is the dial network registered with the driver for keepalive sockets.
const keepaliveNet = "tcp+keepalive"

// MaxRowCount is the largest cte_max_recursion_depth the server accepts.
const MaxRowCount = math.MaxUint32

var ErrRowCountTooLarge = errors.New("row count exceeds the mysql recursion limit")

// Config builds the driver config for c. The session recursion limit is raised so the
// generator CTE can reach rowCount.
func Config(c bench.ConnConfig, rowCount int64) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = keepaliveNet
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Database
	cfg.Params = map[string]string{
		"cte_max_recursion_depth": strconv.FormatInt(rowCount, 10),
	}
	return cfg
}

// Open returns a handle limited to a single connection. No connection is made yet.
func Open(c bench.ConnConfig, rowCount int64) (*sql.DB, error) {
	if rowCount > MaxRowCount {
		return nil, errors.Wrapf(ErrRowCountTooLarge, "%d > %d, lower ROW_COUNT_LOG10 to 9 or less", rowCount, int64(MaxRowCount))
	}

	dialer := c.Keepalive.Dialer()
	mysql.RegisterDialContext(keepaliveNet, func(ctx context.Context, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp", addr)
	})

	connector, err := mysql.NewConnector(Config(c, rowCount))
	if err != nil {
		return nil, errors.Wrap(err, "invalid mysql config")
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

type pingFunc func(ctx context.Context) error

// Connect pings db until the server answers, with a flat retry policy.
func Connect(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	return connect(ctx, db.PingContext, retry.Default, retry.Sleep, log)
}

func connect(ctx context.Context, ping pingFunc, policy retry.Policy, sleep retry.Sleeper, log zerolog.Logger) error {
	err := retry.Do(ctx, policy, sleep, func(ctx context.Context, attempt int) error {
		if err := ping(ctx); err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msg("connect attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				log.Error().Err(a.Err).Int("attempt", a.Index).Msg("connection attempt failed")
			}
		}
		return errors.Wrap(err, "failed to connect")
	}

	log.Info().Msg("Connected.")
	return nil
}
