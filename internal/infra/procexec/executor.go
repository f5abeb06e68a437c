package procexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/yanqian/slidegen/internal/domain/generation"
)

// defaultWaitDelay bounds how long Wait blocks on pipes held open by grandchildren after a kill.
const defaultWaitDelay = 2 * time.Second

// Executor runs generator commands as child processes.
type Executor struct {
	dir       string
	env       []string
	waitDelay time.Duration
	logger    *slog.Logger
}

// Option customises the executor.
type Option func(*Executor)

// WithDir sets the working directory of spawned processes.
func WithDir(dir string) Option {
	return func(e *Executor) { e.dir = dir }
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(e *Executor) { e.env = append(e.env, env...) }
}

// WithWaitDelay overrides the delay between killing a process and abandoning its output pipes.
func WithWaitDelay(d time.Duration) Option {
	return func(e *Executor) { e.waitDelay = d }
}

// NewExecutor builds an executor.
func NewExecutor(logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		waitDelay: defaultWaitDelay,
		logger:    logger.With("component", "procexec"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts cmd and waits for it. The process is killed when ctx ends; in that case the
// partially captured output is returned together with ctx's error.
func (e *Executor) Run(ctx context.Context, cmd generation.Command) (generation.Outcome, error) {
	if cmd.Name == "" {
		return generation.Outcome{}, errors.New("procexec: empty command")
	}
	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	proc.Dir = e.dir
	if len(e.env) > 0 {
		proc.Env = append(os.Environ(), e.env...)
	}
	proc.WaitDelay = e.waitDelay
	if cmd.Stdin != nil {
		proc.Stdin = bytes.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	err := proc.Run()
	outcome := generation.Outcome{
		ExitCode: proc.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		e.logger.Warn("process interrupted", "command", cmd.Name, "reason", ctxErr, "elapsed_ms", time.Since(start).Milliseconds())
		return outcome, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return outcome, nil
		}
		return outcome, fmt.Errorf("run %s: %w", cmd.Name, err)
	}
	return outcome, nil
}

var _ generation.Runner = (*Executor)(nil)
