package bench

import "time"

type Keepalive struct {
	Enabled  bool
	Idle     time.Duration
	Interval time.Duration
	Retries  int
}

type ConnConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	Keepalive Keepalive
}

// DefaultKeepalive probes an idle connection after 60s, every 15s, 5 times.
var DefaultKeepalive = Keepalive{
	Enabled:  true,
	Idle:     60 * time.Second,
	Interval: 15 * time.Second,
	Retries:  5,
}

// DefaultConnConfig is the fixed benchmark target. It is not configurable.
var DefaultConnConfig = ConnConfig{
	Host:      "postgresql",
	Port:      5432,
	User:      "user",
	Password:  "pass",
	Database:  "db",
	Keepalive: DefaultKeepalive,
}

var DefaultMySQLConfig = ConnConfig{
	Host:      "mysql",
	Port:      3306,
	User:      "user",
	Password:  "pass",
	Database:  "db",
	Keepalive: DefaultKeepalive,
}

type BenchParams struct {
	RowCount int64
	Runs     int           // number of runs for median (0 or 1 = single run)
	Cooldown time.Duration // pause between runs
}

type QueryResult struct {
	At       time.Time
	Duration time.Duration
	Err      error
}

type BenchStats struct {
	Label      string
	Total      int
	Errors     int
	Duration   time.Duration
	QPS        float64
	RowCount   int64
	RowsPerSec float64
	LatencyAvg time.Duration
	LatencyMin time.Duration
	LatencyMax time.Duration
	LatencyP50 time.Duration
	LatencyP75 time.Duration
	LatencyP90 time.Duration
	LatencyP95 time.Duration
	LatencyP99 time.Duration
}
