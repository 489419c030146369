package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dice-group/sparql-transactional-test/internal"
	"github.com/dice-group/sparql-transactional-test/query"
)

// ReaderReport is one reader's final measurement. Index is the
// reader's position in the order the supervisor collected reader
// results (the order readers returned, failed readers included), the
// same number used in CSV rows and in the reader-failure log line.
type ReaderReport struct {
	Index     int
	QPS       query.QPSMap
	SampleQPS query.QPSMap
}

// Result is a run's aggregate outcome. Err is nil only when every
// writer matched its recorded expectations and the fault injector hit
// no fatal error; a reader's fatal error is logged and leaves Err
// unchanged. Readers and the grand averages are
// populated with whatever was collected even when Err is non-nil, so
// a failed durability run still reports the throughput observed
// before the failure.
type Result struct {
	RunID                    string
	Readers                  []ReaderReport
	AverageQPS               float64
	SampleAveragedAverageQPS float64
	Err                      error
}

// Supervisor owns one end-to-end run: it builds the writer, reader and
// fault-injector fleets from a Config, rendezvouses them, drives the
// run to completion or failure, and aggregates the result. A
// Supervisor is single-use (spec.md §4.5 / §9): construct one per run.
type Supervisor struct {
	lcBase
	cfg Config
	log *slog.Logger
}

// NewSupervisor builds a Supervisor for cfg. log defaults to
// slog.Default() if nil.
func NewSupervisor(cfg Config, log *slog.Logger) *Supervisor {
	if log == nil {
		log = slog.Default()
	}
	return &Supervisor{cfg: cfg, log: log}
}

// Run executes the configured writers, readers and fault injector
// until the run is complete, then returns the aggregated Result. The
// returned error is reserved for lifecycle failures (Run called twice,
// or the durability start script failing before any worker starts)
// — a domain-level failure (a writer's state mismatch, a reader's
// fatal read, a fault injector script failing) is reported through
// Result.Err instead, alongside whatever partial data was collected.
func (s *Supervisor) Run(ctx context.Context) (Result, error) {
	if err := s.tryStart(); err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	s.log = s.log.With("run_id", runID)

	if s.cfg.Durability != nil {
		if err := RunStartScript(ctx, *s.cfg.Durability); err != nil {
			return Result{}, fmt.Errorf("start script: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	nWriters := len(s.cfg.Writers)
	nReaders := s.cfg.Readers
	hasInjector := s.cfg.Durability != nil

	participants := nWriters + nReaders + 1 // +1 for the supervisor itself
	if hasInjector {
		participants++
	}
	gate := newRendezvous(participants)

	var injector *FaultInjector
	var injectorDone internal.DoneChan
	if hasInjector {
		injector = NewFaultInjector(*s.cfg.Durability, s.log)
		done := make(internal.DoneChan)
		injectorDone = done
		go func() {
			gate.arrive()
			gate.wait()
			injector.Start(runCtx)
			<-injector.Done()
			close(done)
		}()
	}

	var writerOut <-chan WriterResult
	if nWriters > 0 {
		writers := internal.NewTaskGroup[WriterResult](nWriters, s.log, func(i int, r any) WriterResult {
			return WriterResult{Err: fmt.Errorf("writer %d panicked: %v", i, r)}
		})
		writerOut = writers.Start(runCtx, func(ctx context.Context, i int) WriterResult {
			gate.arrive()
			gate.wait()
			return runWriter(ctx, NewClient(), s.cfg.Endpoints, s.cfg.Writers[i], s.cfg.Behavior, s.cfg.Verbose, s.log)
		})
	}

	var readerOut <-chan ReaderResult
	if nReaders > 0 {
		readers := internal.NewTaskGroup[ReaderResult](nReaders, s.log, func(i int, r any) ReaderResult {
			return ReaderResult{Err: fmt.Errorf("reader %d panicked: %v", i, r)}
		})
		readerOut = readers.Start(runCtx, func(ctx context.Context, i int) ReaderResult {
			gen, err := s.newGenerator()
			gate.arrive()
			gate.wait()
			if err != nil {
				return ReaderResult{Err: err}
			}
			return runReader(ctx, NewClient(), s.cfg.Endpoints.QueryEndpoint, gen, s.cfg.Behavior, s.log)
		})
	}

	gate.arrive()
	gate.wait()

	var writerResults []WriterResult
	var runErr error

	if nWriters > 0 {
		writerResults = s.driveVerify(writerOut, injectorDone, injector, cancel, &runErr)
	} else {
		s.driveStress(injectorDone, injector, cancel, &runErr)
	}
	// driveVerify only cancels early, on an injector failure; otherwise
	// cancel is signalled here, once every writer has finished
	// (successfully or not), so readers and the fault injector stop
	// (spec.md §4.6.5). cancel is idempotent, so this is a no-op when
	// an error path already fired it.
	cancel()

	if injector != nil {
		if err := s.awaitDone(injectorDone, s.cfg.ShutdownGrace); err != nil && runErr == nil {
			runErr = err
		}
		if err := injector.Err(); err != nil && runErr == nil {
			runErr = err
		}
	}

	readerResults, drainErr := s.drainReaders(readerOut, nReaders)
	if drainErr != nil && runErr == nil {
		runErr = drainErr
	}

	for _, wr := range writerResults {
		if wr.Err != nil && runErr == nil {
			runErr = wr.Err
		}
	}

	result := s.aggregate(readerResults, runErr)
	result.RunID = runID
	return result, nil
}

// driveVerify waits for every writer to finish, short-circuiting on
// the fault injector failing first.
func (s *Supervisor) driveVerify(writerOut <-chan WriterResult, injectorDone internal.DoneChan, injector *FaultInjector, cancel context.CancelFunc, runErr *error) []WriterResult {
	var results []WriterResult
	for writerOut != nil {
		select {
		case wr, ok := <-writerOut:
			if !ok {
				writerOut = nil
				continue
			}
			results = append(results, wr)
			if wr.Err != nil && *runErr == nil {
				*runErr = wr.Err
			}
		case <-injectorDone:
			if injector.Err() != nil && *runErr == nil {
				*runErr = injector.Err()
				cancel()
			}
			injectorDone = nil
		}
	}
	return results
}

// driveStress bounds a writer-less run by wall-clock Duration,
// ending early if the fault injector fails first.
func (s *Supervisor) driveStress(injectorDone internal.DoneChan, injector *FaultInjector, cancel context.CancelFunc, runErr *error) {
	timer := time.NewTimer(s.cfg.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-injectorDone:
		if injector.Err() != nil {
			*runErr = injector.Err()
		}
	}
	cancel()
}

// drainReaders collects every pending reader result up to
// ShutdownGrace (unbounded if zero), returning ErrShutdownTimeout if
// the grace period elapses first.
func (s *Supervisor) drainReaders(readerOut <-chan ReaderResult, n int) ([]ReaderResult, error) {
	if n == 0 {
		return nil, nil
	}
	results := make([]ReaderResult, 0, n)
	var timeout <-chan time.Time
	if s.cfg.ShutdownGrace > 0 {
		t := time.NewTimer(s.cfg.ShutdownGrace)
		defer t.Stop()
		timeout = t.C
	}
	for {
		select {
		case rr, ok := <-readerOut:
			if !ok {
				return results, nil
			}
			results = append(results, rr)
		case <-timeout:
			return results, ErrShutdownTimeout
		}
	}
}

// aggregate folds per-reader results into the run's Result. Reader
// failures are logged and dropped from the QPS averages but never flow
// into runErr: spec.md §7 makes reader failures non-fatal to the run's
// exit status ("reader failures are logged but not enforced"), unlike
// writer and fault-injector failures.
func (s *Supervisor) aggregate(readerResults []ReaderResult, runErr error) Result {
	reports := make([]ReaderReport, 0, len(readerResults))
	var avgs, sampleAvgs []float64
	for i, rr := range readerResults {
		if rr.Err != nil {
			s.log.Warn("reader failed", "reader", i, "err", rr.Err)
			continue
		}
		reports = append(reports, ReaderReport{Index: i, QPS: rr.QPS, SampleQPS: rr.SampleQPS})
		avgs = append(avgs, rr.QPS.Average())
		sampleAvgs = append(sampleAvgs, rr.SampleQPS.Average())
	}
	return Result{
		Readers:                  reports,
		AverageQPS:               meanOf(avgs),
		SampleAveragedAverageQPS: meanOf(sampleAvgs),
		Err:                      runErr,
	}
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func (s *Supervisor) newGenerator() (query.Generator, error) {
	if s.cfg.ReaderQueryFile == "" {
		return query.NewSynthetic(), nil
	}
	return query.NewFileBacked(s.cfg.ReaderQueryFile)
}
