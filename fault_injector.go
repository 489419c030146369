package harness

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/dice-group/sparql-transactional-test/internal"
)

// FaultInjector periodically kills and restarts the store under test
// while writers and readers are running (spec.md §4.4), to exercise
// their recovery paths under IgnoreConnectionError. It runs exactly
// one kill/restart cycle per KillDelay, starting KillDelay after the
// run begins rather than immediately — hence StartDelayed rather than
// Start.
type FaultInjector struct {
	killScript    string
	restartScript string
	killDelay     time.Duration
	log           *slog.Logger
	task          internal.TimerTask
	cancel        context.CancelFunc

	mu  sync.Mutex
	err error
}

// NewFaultInjector builds an injector from cfg. cfg.StartScript is not
// used here: it is a one-shot bootstrap the supervisor runs once,
// before the rendezvous barrier releases, via RunStartScript.
func NewFaultInjector(cfg DurabilityConfig, log *slog.Logger) *FaultInjector {
	return &FaultInjector{
		killScript:    cfg.KillScript,
		restartScript: cfg.RestartScript,
		killDelay:     cfg.KillDelay,
		log:           log,
	}
}

// Start begins the kill/restart cycle. It returns immediately; use
// Stop to request shutdown and Err to read the terminal failure, if
// any, once Stop's DoneChan has closed.
func (f *FaultInjector) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.task.StartDelayed(runCtx, f.tick, f.killDelay)
}

// Stop requests the injector stop and returns a channel that closes
// once it has. It also closes on its own, without an external Stop
// call, the moment a kill or restart script fails.
func (f *FaultInjector) Stop() internal.DoneChan {
	return f.task.Stop()
}

// Err returns the first kill or restart failure observed, or nil if
// none occurred. Only meaningful after the channel from Stop has
// closed.
func (f *FaultInjector) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Done returns a channel that closes when the injector stops, whether
// because the supervisor called Stop or because a kill/restart script
// failed on its own.
func (f *FaultInjector) Done() internal.DoneChan {
	return f.task.Done()
}

// tick runs one kill/restart cycle. A script aborted mid-flight by ctx
// being canceled is not a genuine failure — spec.md §4.4 says the loop
// exits cleanly on cancellation — so ctx.Err() is checked before
// recording an error, distinguishing "shutdown interrupted the script"
// from "the script actually exited non-zero."
func (f *FaultInjector) tick(ctx context.Context) {
	if err := runScript(ctx, f.killScript); err != nil {
		if ctx.Err() != nil {
			return
		}
		f.recordErr(&KillFailedError{Cause: err})
		f.cancel()
		return
	}
	if err := runScript(ctx, f.restartScript); err != nil {
		if ctx.Err() != nil {
			return
		}
		f.recordErr(&RestartFailedError{Cause: err})
		f.cancel()
		return
	}
	f.log.Info("fault injector cycle complete")
}

func (f *FaultInjector) recordErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
		f.log.Error("fault injector stopping after failure", "err", err)
	}
}

// runScript executes script, if non-empty, via the shell. A script is
// a path or a full shell command line; both forms are common in
// practice (e.g. "docker kill store" or "./scripts/kill.sh").
func runScript(ctx context.Context, script string) error {
	if script == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	return cmd.Run()
}

// RunStartScript runs cfg's one-shot bootstrap script, if configured,
// before the supervisor releases its rendezvous barrier.
func RunStartScript(ctx context.Context, cfg DurabilityConfig) error {
	return runScript(ctx, cfg.StartScript)
}
