package psql

import (
	"context"
	"io"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

// ExitStatus is how a process ended. A process killed by a signal has no exit code.
type ExitStatus struct {
	Code     int
	Signaled bool
}

func Exited(code int) ExitStatus {
	return ExitStatus{Code: code}
}

// IsCode reports whether the process exited normally with code.
func (s ExitStatus) IsCode(code int) bool {
	return !s.Signaled && s.Code == code
}

func (s ExitStatus) String() string {
	if s.Signaled {
		return "none"
	}
	return strconv.Itoa(s.Code)
}

// Process is a spawned client whose only channel is its stdin.
type Process interface {
	// Stdin is nil when the process exposes no writable input.
	Stdin() io.WriteCloser
	// Wait blocks until exit.
	Wait() (ExitStatus, error)
	Kill() error
}

type Spawner interface {
	Spawn(ctx context.Context) (Process, error)
}

// Command spawns an external client with stdin piped and stdout/stderr discarded.
type Command struct {
	Path string
	Args []string
}

// DefaultCommand connects psql to the fixed benchmark target.
var DefaultCommand = Command{
	Path: "psql",
	Args: []string{"-h", "postgresql", "-U", "user", "-a", "db"},
}

func (c Command) Spawn(ctx context.Context) (Process, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	// nil Stdout and Stderr are connected to the null device.
	cmd.Stdout = nil
	cmd.Stderr = nil

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to pipe stdin")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", c.Path)
	}
	return &process{cmd: cmd, stdin: stdin}, nil
}

type process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func (p *process) Stdin() io.WriteCloser {
	return p.stdin
}

func (p *process) Wait() (ExitStatus, error) {
	err := p.cmd.Wait()
	if err == nil {
		return Exited(0), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Exited() {
			return ExitStatus{Signaled: true}, nil
		}
		return Exited(exitErr.ExitCode()), nil
	}
	return ExitStatus{}, errors.Wrap(err, "failed to wait for process")
}

func (p *process) Kill() error {
	if err := p.cmd.Process.Kill(); err != nil {
		return errors.Wrap(err, "failed to kill process")
	}
	_ = p.cmd.Wait()
	return nil
}
