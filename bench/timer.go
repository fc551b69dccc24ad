package bench

import "time"

// Timer captures the instant right before a query is sent.
type Timer struct {
	start time.Time
	now   func() time.Time
}

func StartTimer() *Timer {
	return startTimerWith(time.Now)
}

func startTimerWith(now func() time.Time) *Timer {
	return &Timer{start: now(), now: now}
}

func (t *Timer) Start() time.Time {
	return t.start
}

// Stop returns a QueryResult for the measured span.
func (t *Timer) Stop(err error) QueryResult {
	return QueryResult{At: t.start, Duration: t.now().Sub(t.start), Err: err}
}
