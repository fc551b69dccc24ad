package my

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"pgseries-bench/bench"
	"pgseries-bench/retry"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	cfg := Config(bench.DefaultMySQLConfig, 10000)

	assert.Equal(t, "user", cfg.User)
	assert.Equal(t, "pass", cfg.Passwd)
	assert.Equal(t, "mysql:3306", cfg.Addr)
	assert.Equal(t, keepaliveNet, cfg.Net)
	assert.Equal(t, "db", cfg.DBName)
	assert.Equal(t, "10000", cfg.Params["cte_max_recursion_depth"])
	assert.False(t, cfg.AllowCleartextPasswords)
}

func TestOpen(t *testing.T) {
	db, err := Open(bench.DefaultMySQLConfig, 100)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_RowCountTooLarge(t *testing.T) {
	db, err := Open(bench.DefaultMySQLConfig, 10000000000)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrRowCountTooLarge)

	db, err = Open(bench.DefaultMySQLConfig, 1000000000)
	require.NoError(t, err)
	db.Close()
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestConnect_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("connection refused")
		}
		return nil
	}

	require.NoError(t, connect(context.Background(), ping, retry.Default, noSleep, zerolog.Nop()))
	assert.Equal(t, 4, calls)
}

func TestConnect_Exhausted(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	}

	err := connect(context.Background(), ping, retry.Default, noSleep, zerolog.New(&buf))
	require.Error(t, err)
	assert.Equal(t, 10, calls)

	var exhausted *retry.ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Len(t, exhausted.Attempts, 10)
	assert.Equal(t, 10, strings.Count(buf.String(), "connection attempt failed"))
}
