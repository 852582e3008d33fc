package launcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

// fakeProcess exits with the code sent on its channel.
type fakeProcess struct {
	exit chan int
}

func (p *fakeProcess) Wait() (int, error) {
	return <-p.exit, nil
}

// scriptedRunner hands out one fakeProcess per Start call.
type scriptedRunner struct {
	mu     sync.Mutex
	starts int
	procs  []*fakeProcess
	err    error
}

func (r *scriptedRunner) Start(spec *Spec) (Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	proc := &fakeProcess{exit: make(chan int, 1)}
	r.starts++
	r.procs = append(r.procs, proc)
	return proc, nil
}

func (r *scriptedRunner) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *scriptedRunner) proc(i int) *fakeProcess {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.procs[i]
}

type fakeStopper struct {
	mu    sync.Mutex
	names []string

	// onStop runs on each StopContainer call, outside the lock.
	onStop func()
}

func (s *fakeStopper) StopContainer(ctx context.Context, name string) error {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	if s.onStop != nil {
		s.onStop()
	}
	return nil
}

func (s *fakeStopper) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

func newTestController(runner *scriptedRunner, stopper *fakeStopper) *Controller {
	c := NewController(runner, stopper, slog.Default())
	c.signals = make(chan os.Signal, 1)
	return c
}

func testSpec() *Spec {
	return &Spec{ContainerName: "darp_work_api", Image: "alpine:3.20"}
}

func TestLaunchReturnsExitCode(t *testing.T) {
	runner := &scriptedRunner{}
	stopper := &fakeStopper{}
	c := newTestController(runner, stopper)

	done := make(chan struct{})
	var code int
	var err error
	go func() {
		code, err = c.Launch(context.Background(), testSpec(), []int{137})
		close(done)
	}()

	waitForStarts(t, runner, 1)
	runner.proc(0).exit <- 3
	<-done

	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != 3 {
		t.Errorf("code = %d, want 3", code)
	}
	if runner.startCount() != 1 {
		t.Errorf("starts = %d, want 1", runner.startCount())
	}
	if stopper.stopCount() != 0 {
		t.Errorf("stops = %d, want 0", stopper.stopCount())
	}
}

func TestLaunchRestartsOnMatchingCode(t *testing.T) {
	runner := &scriptedRunner{}
	c := newTestController(runner, &fakeStopper{})

	done := make(chan struct{})
	var code int
	go func() {
		code, _ = c.Launch(context.Background(), testSpec(), []int{137})
		close(done)
	}()

	waitForStarts(t, runner, 1)
	runner.proc(0).exit <- 137

	// The identical spec is relaunched, then exits cleanly.
	waitForStarts(t, runner, 2)
	runner.proc(1).exit <- 0
	<-done

	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	if runner.startCount() != 2 {
		t.Errorf("starts = %d, want 2", runner.startCount())
	}
}

func TestLaunchStartError(t *testing.T) {
	boom := errors.New("no such image")
	runner := &scriptedRunner{err: boom}
	c := newTestController(runner, &fakeStopper{})

	if _, err := c.Launch(context.Background(), testSpec(), nil); !errors.Is(err, boom) {
		t.Errorf("Launch = %v, want %v", err, boom)
	}
}

func TestInterruptWithinGraceDoesNotForceStop(t *testing.T) {
	runner := &scriptedRunner{}
	stopper := &fakeStopper{}
	c := newTestController(runner, stopper)

	done := make(chan struct{})
	var code int
	go func() {
		code, _ = c.Launch(context.Background(), testSpec(), []int{137})
		close(done)
	}()

	waitForStarts(t, runner, 1)
	c.signals <- os.Interrupt
	runner.proc(0).exit <- 130
	<-done

	// 130 would normally be a plain exit, and 137 is in the restart set,
	// but an interrupt is terminal either way.
	if code != 130 {
		t.Errorf("code = %d, want 130", code)
	}
	if runner.startCount() != 1 {
		t.Errorf("starts = %d, want 1", runner.startCount())
	}
	if stopper.stopCount() != 0 {
		t.Errorf("stops = %d, want 0", stopper.stopCount())
	}
}

func TestInterruptPastGraceForcesStop(t *testing.T) {
	runner := &scriptedRunner{}
	stopper := &fakeStopper{}
	c := newTestController(runner, stopper)
	c.grace = 10 * time.Millisecond

	// The child only goes away once the container is force-stopped.
	stopper.onStop = func() {
		runner.proc(0).exit <- 137
	}

	done := make(chan struct{})
	var code int
	go func() {
		code, _ = c.Launch(context.Background(), testSpec(), []int{137})
		close(done)
	}()

	waitForStarts(t, runner, 1)
	c.signals <- os.Interrupt
	<-done

	if stopper.stopCount() != 1 {
		t.Errorf("stops = %d, want 1", stopper.stopCount())
	}
	if stopper.names[0] != "darp_work_api" {
		t.Errorf("stopped %q, want darp_work_api", stopper.names[0])
	}
	// No restart after an interrupt, even though the code matches.
	if runner.startCount() != 1 {
		t.Errorf("starts = %d, want 1", runner.startCount())
	}
	if code != 137 {
		t.Errorf("code = %d, want 137", code)
	}
}

func waitForStarts(t *testing.T, runner *scriptedRunner, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for runner.startCount() < n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d starts, have %d", n, runner.startCount())
		case <-time.After(time.Millisecond):
		}
	}
}
