package pg

import (
	"context"
	"fmt"

	"pgseries-bench/bench"
	"pgseries-bench/retry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Config builds the connection config for c. TLS is disabled and keepalive follows c.Keepalive.
func Config(c bench.ConnConfig, log zerolog.Logger) (*pgx.ConnConfig, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)

	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse connection config")
	}

	config.DialFunc = c.Keepalive.Dialer().DialContext
	config.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		log.Info().Str("severity", n.Severity).Str("code", n.Code).Msg(n.Message)
	}
	return config, nil
}

type connectFunc func(ctx context.Context, config *pgx.ConnConfig) (*pgx.Conn, error)

// Connector opens a single connection, retrying with a flat delay.
type Connector struct {
	config  *pgx.ConnConfig
	policy  retry.Policy
	sleep   retry.Sleeper
	log     zerolog.Logger
	connect connectFunc
}

func NewConnector(c bench.ConnConfig, log zerolog.Logger) (*Connector, error) {
	config, err := Config(c, log)
	if err != nil {
		return nil, err
	}
	return &Connector{
		config:  config,
		policy:  retry.Default,
		sleep:   retry.Sleep,
		log:     log,
		connect: pgx.ConnectConfig,
	}, nil
}

// Connect returns an open connection and starts its watcher.
// When every attempt fails, each error is logged and a single error is returned.
func (c *Connector) Connect(ctx context.Context) (*pgx.Conn, error) {
	var conn *pgx.Conn
	err := retry.Do(ctx, c.policy, c.sleep, func(ctx context.Context, attempt int) error {
		cn, err := c.connect(ctx, c.config)
		if err != nil {
			c.log.Debug().Err(err).Int("attempt", attempt).Msg("connect attempt failed")
			return err
		}
		conn = cn
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			for _, a := range exhausted.Attempts {
				c.log.Error().Err(a.Err).Int("attempt", a.Index).Msg("connection attempt failed")
			}
		}
		return nil, errors.Wrap(err, "failed to connect")
	}

	go Watch(ctx, conn.PgConn(), c.log)
	c.log.Info().Str("host", c.config.Host).Msg("Connected.")
	return conn, nil
}

type cleanupNotifier interface {
	CleanupDone() chan struct{}
	IsClosed() bool
}

// Watch blocks until the connection is cleaned up or ctx ends, logging what happened.
// It is meant to run detached; nothing waits for it.
func Watch(ctx context.Context, conn cleanupNotifier, log zerolog.Logger) {
	select {
	case <-conn.CleanupDone():
		if ctx.Err() == nil {
			log.Warn().Msg("connection closed")
			return
		}
		log.Debug().Msg("connection closed")
	case <-ctx.Done():
		log.Debug().Err(ctx.Err()).Bool("closed", conn.IsClosed()).Msg("connection watcher stopped")
	}
}
