// Package retry runs an operation a fixed number of times with a flat delay between attempts.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Policy is a flat retry policy: no backoff, no jitter.
type Policy struct {
	Attempts int
	Delay    time.Duration

	// DelayFirst waits before the first attempt as well.
	DelayFirst bool
}

// Default is ten attempts, one second apart.
var Default = Policy{Attempts: 10, Delay: time.Second}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real-time Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Attempt records one failed try. Index is 1-based.
type Attempt struct {
	Index int
	Err   error
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Attempts []Attempt
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", len(e.Attempts), e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Errors lists the error of every attempt in order.
func (e *ExhaustedError) Errors() []error {
	return multierr.Errors(e.Err)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as terminal: Do returns it unwrapped without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Func is a single attempt. attempt is 1-based.
type Func func(ctx context.Context, attempt int) error

// Do calls fn until it succeeds, returns a Permanent error, or p.Attempts tries have failed.
func Do(ctx context.Context, p Policy, sleep Sleeper, fn Func) error {
	if sleep == nil {
		sleep = Sleep
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var records []Attempt
	var combined error
	for i := 1; i <= attempts; i++ {
		if p.DelayFirst || i > 1 {
			if err := sleep(ctx, p.Delay); err != nil {
				return errors.Wrapf(err, "interrupted before attempt %d", i)
			}
		}

		err := fn(ctx, i)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		records = append(records, Attempt{Index: i, Err: err})
		combined = multierr.Append(combined, err)
	}

	return &ExhaustedError{Attempts: records, Err: combined}
}
