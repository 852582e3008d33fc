package launcher

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"time"
)

// DefaultGrace is how long an interrupted child gets to exit on its own
// before the container is force-stopped.
const DefaultGrace = 5 * time.Second

// ProcessRunner starts a foreground container process for a spec.
type ProcessRunner interface {
	Start(spec *Spec) (Process, error)
}

// Process is a started foreground process.
type Process interface {
	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
}

// ContainerStopper issues a forced stop against a named container.
type ContainerStopper interface {
	StopContainer(ctx context.Context, name string) error
}

// Controller supervises a foreground container launch: it relaunches the
// identical spec when the exit code is in the restart set, and converts an
// operator interrupt into a graceful-then-forced stop.
type Controller struct {
	runner   ProcessRunner
	stopper  ContainerStopper
	grace    time.Duration
	logger   *slog.Logger
	progress func(string)

	// signals overrides interrupt delivery in tests. When nil, Launch
	// subscribes to os.Interrupt.
	signals chan os.Signal
}

// NewController creates a Controller with the default grace period.
func NewController(runner ProcessRunner, stopper ContainerStopper, logger *slog.Logger) *Controller {
	return &Controller{
		runner:  runner,
		stopper: stopper,
		grace:   DefaultGrace,
		logger:  logger,
	}
}

// SetProgress sets a callback for user-facing progress messages.
func (c *Controller) SetProgress(fn func(string)) {
	c.progress = fn
}

func (c *Controller) reportProgress(msg string) {
	if c.progress != nil {
		c.progress(msg)
	}
	c.logger.Debug(msg)
}

type waitResult struct {
	code int
	err  error
}

// Launch runs the spec in the foreground and blocks until the state
// machine terminates. The child's exit code is returned so the caller can
// propagate it as the tool's own exit status.
//
// Exit codes in restartOn relaunch the identical spec. An interrupt is
// terminal: the signal reaches the child through the shared process
// group, and if the child has not exited within the grace period the
// container is force-stopped by name. Interrupts never trigger a restart.
func (c *Controller) Launch(ctx context.Context, spec *Spec, restartOn []int) (int, error) {
	interrupts := c.signals
	if interrupts == nil {
		interrupts = make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
	}

	for {
		proc, err := c.runner.Start(spec)
		if err != nil {
			return 0, err
		}

		waitCh := make(chan waitResult, 1)
		go func() {
			code, err := proc.Wait()
			waitCh <- waitResult{code: code, err: err}
		}()

		select {
		case res := <-waitCh:
			if res.err != nil {
				return 0, res.err
			}
			if slices.Contains(restartOn, res.code) {
				c.reportProgress("restarting " + spec.ContainerName)
				continue
			}
			return res.code, nil

		case <-interrupts:
			c.reportProgress("stopping " + spec.ContainerName + " (Ctrl+C)")
			return c.waitOrForceStop(ctx, spec, waitCh)
		}
	}
}

// waitOrForceStop gives the interrupted child the grace period to exit,
// then force-stops the container and waits for the child to go away.
func (c *Controller) waitOrForceStop(ctx context.Context, spec *Spec, waitCh <-chan waitResult) (int, error) {
	timer := time.NewTimer(c.grace)
	defer timer.Stop()

	select {
	case res := <-waitCh:
		return res.code, res.err
	case <-timer.C:
	}

	// The root context is already canceled at this point (the interrupt
	// triggered it), so the stop command gets a detached context.
	stopCtx := context.WithoutCancel(ctx)
	if err := c.stopper.StopContainer(stopCtx, spec.ContainerName); err != nil {
		c.logger.Warn("force-stop failed", "container", spec.ContainerName, "error", err)
	}

	res := <-waitCh
	return res.code, res.err
}
