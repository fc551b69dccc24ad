package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"pgseries-bench/bench"
	"pgseries-bench/my"
	"pgseries-bench/pg"
	"pgseries-bench/psql"
	"pgseries-bench/series"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var (
	Version = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "pgseries-bench",
		Usage:   "time a generate_series query against a database server",
		Version: Version,
		Before:  loadDotenv,
		Commands: []*cli.Command{
			{
				Name:  "native",
				Usage: "query through a native client library",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Value: "postgres",
						Usage: "database type: postgres, mysql",
					},
				}, runFlags()...),
				Action: func(c *cli.Context) error {
					return runNative(c, out)
				},
			},
			{
				Name:  "psql",
				Usage: "pipe the query into an external psql process",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "client",
						Value: psql.DefaultCommand.Path,
						Usage: "client executable",
					},
					&cli.IntFlag{
						Name:  "retry-exit-code",
						Value: psql.DefaultRetryExitCode,
						Usage: "client exit code meaning \"could not connect, retry\"",
					},
				}, runFlags()...),
				Action: func(c *cli.Context) error {
					return runPsql(c, out)
				},
			},
		},
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "runs",
			Value: 1,
			Usage: "number of times to send the query",
		},
		&cli.DurationFlag{
			Name:  "cooldown",
			Usage: "pause between runs",
		},
	}
}

// loadDotenv reads .env from the working directory when it exists.
func loadDotenv(*cli.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to load .env")
	}
	return nil
}

func setup(c *cli.Context) (zerolog.Logger, bench.BenchParams) {
	log := bench.LoggerFromEnv()
	log.Info().EmbedObject(bench.HostSnapshot()).Msg("host stat")

	params := bench.BenchParams{
		RowCount: series.RowCountFromEnv(log),
		Runs:     c.Int("runs"),
		Cooldown: c.Duration("cooldown"),
	}
	return log, params
}

func runNative(c *cli.Context, out io.Writer) error {
	var run func(context.Context, io.Writer, zerolog.Logger, bench.BenchParams) error
	switch db := c.String("db"); db {
	case "postgres":
		run = pg.Run
	case "mysql":
		run = my.Run
	default:
		return errors.Errorf("database type %q not supported", db)
	}

	log, params := setup(c)
	return run(c.Context, out, log, params)
}

func runPsql(c *cli.Context, out io.Writer) error {
	log, params := setup(c)

	cmd := psql.DefaultCommand
	cmd.Path = c.String("client")
	runner := psql.NewRunner(cmd, c.Int("retry-exit-code"), log)

	return psql.Run(c.Context, out, log, runner, params)
}
