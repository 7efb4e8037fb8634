// Package scheduler distributes (assignment, query) tasks across a bounded
// pool of workers, each owning at most one concurrent checker invocation,
// and funnels every result through a single sink so dataset writes are
// serialized.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// Invoker runs one task against the external checker and classifies the
// outcome as a Result. Invokers must honor ctx so the per-task timeout can
// forcibly terminate the invocation.
type Invoker func(ctx context.Context, task experiment.Task) experiment.Result

// Sink receives every executed result, one call at a time, in completion
// order. A non-nil error aborts the run after in-flight tasks drain.
type Sink func(res experiment.Result) error

// Progress is a snapshot of the run's task counters.
type Progress struct {
	Completed int
	Skipped   int
	Failed    int
	Remaining int
}

// Scheduler is a fixed-size worker pool with a per-task timeout policy.
type Scheduler struct {
	logger  zerolog.Logger
	threads int
	timeout time.Duration

	mu       sync.Mutex
	progress Progress
}

// New creates a scheduler. threads below 1 is clamped to 1; a zero timeout
// means tasks run unbounded.
func New(logger zerolog.Logger, threads int, timeout time.Duration) *Scheduler {
	if threads < 1 {
		threads = 1
	}
	return &Scheduler{logger: logger, threads: threads, timeout: timeout}
}

// Progress returns the current counters.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Scheduler) update(f func(p *Progress)) {
	s.mu.Lock()
	f(&s.progress)
	s.mu.Unlock()
}

// Run executes every task whose identity is not already known. Tasks with a
// recorded outcome are skipped without invoking the engine, so re-running
// over the same dataset is idempotent.
//
// Cancelling ctx is a clean stop: no further tasks are dequeued, in-flight
// invocations finish (or time out) and their results still reach the sink.
// Only the per-task timeout terminates a running invocation.
//
// Run returns the first sink error, if any; per-task failures are counted,
// not returned.
func (s *Scheduler) Run(ctx context.Context, tasks []experiment.Task, known func(identity string) bool, invoke Invoker, sink Sink) error {
	s.update(func(p *Progress) { *p = Progress{Remaining: len(tasks)} })

	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	taskCh := make(chan experiment.Task)
	resCh := make(chan experiment.Result)

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			if known(task.Identity) {
				s.update(func(p *Progress) {
					p.Skipped++
					p.Remaining--
				})
				s.logger.Debug().Str("identity", task.Identity).Msg("Skipping task with recorded result")
				continue
			}
			// Checked separately: when a worker is ready and the stop has
			// already fired, the combined select could still pick the send.
			select {
			case <-stopCtx.Done():
				return
			default:
			}
			select {
			case taskCh <- task:
			case <-stopCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				resCh <- s.invokeOne(task, invoke)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resCh)
	}()

	var sinkErr error
	for res := range resCh {
		s.update(func(p *Progress) {
			if res.Failed() {
				p.Failed++
			} else {
				p.Completed++
			}
			p.Remaining--
		})

		if res.Failed() {
			s.logger.Warn().
				Str("identity", res.Identity).
				Str("status", string(res.Status)).
				Int64("duration_ms", res.DurationMS).
				Msg("Task failed")
		} else {
			s.logger.Debug().
				Str("identity", res.Identity).
				Int64("duration_ms", res.DurationMS).
				Msg("Task completed")
		}

		if sinkErr != nil {
			continue
		}
		if err := sink(res); err != nil {
			// Stop feeding but keep draining so workers can exit.
			sinkErr = err
			stop()
		}
	}

	return sinkErr
}

// invokeOne applies the per-task timeout. The timeout context deliberately
// does not descend from the run context: a stop request lets in-flight
// invocations finish rather than killing them.
func (s *Scheduler) invokeOne(task experiment.Task, invoke Invoker) experiment.Result {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoke(ctx, task)
}
