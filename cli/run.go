package cli

// This file contains the run command: expand the parameter space, schedule
// every task without a recorded outcome against verifyta and aggregate the
// results into the experiment dataset.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/config"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/dataset"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/scheduler"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/uppaal"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/verifyta"
)

func (a *App) run(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.Model == "" || cfg.Queries == "" || cfg.ExperimentData == "" {
		return cli.Exit("run requires model, queries and experiment_data in the config", 1)
	}

	raw, err := os.ReadFile(cfg.Model)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading model: %v", err), 1)
	}
	model, err := uppaal.Parse(raw)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	decls := model.ScanParams()
	assignments, err := cfg.Vars.Assignments(decls, func(section, variable string) {
		a.logger.Warn().
			Str("section", section).
			Str("variable", variable).
			Msg("Parameter space entry was not declared in the model, ignoring")
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(assignments) == 0 {
		return cli.Exit("model declares no parameters, nothing to sweep", 1)
	}

	queries, err := uppaal.LoadQueries(cfg.Queries)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(queries) == 0 {
		return cli.Exit("query file contains no queries", 1)
	}

	tasks := make([]experiment.Task, 0, len(assignments)*len(queries))
	for _, assignment := range assignments {
		for _, query := range queries {
			tasks = append(tasks, experiment.NewTask(assignment, query))
		}
	}

	ds, err := dataset.Load(a.logger, cfg.ExperimentData)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	force := cfg.Force || ctx.Bool("force")
	appender, err := ds.OpenAppender(force)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer appender.Close()

	runID := uuid.NewString()
	if err := appender.WriteMeta(dataset.RunMeta{
		RunID:     runID,
		StartedAt: time.Now(),
		Model:     cfg.Model,
		Queries:   cfg.Queries,
		Force:     force,
	}); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	threads := cfg.Threads
	if ctx.Int("threads") > 0 {
		threads = ctx.Int("threads")
	}

	a.logger.Info().
		Str("run_id", runID).
		Int("assignments", len(assignments)).
		Int("queries", len(queries)).
		Int("tasks", len(tasks)).
		Int("recorded", ds.Count()).
		Int("threads", threads).
		Msg("Starting experiment run")

	runner := verifyta.NewRunner(a.logger, cfg.Verifyta, cfg.Seed, "")
	sched := scheduler.New(a.logger, threads, cfg.Timeout)

	// First interrupt requests a clean stop: in-flight verifyta processes
	// finish and their results are flushed. A second one kills the process.
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		// Restore default handling so the second signal is fatal.
		stop()
	}()

	ticker := time.NewTicker(10 * time.Second)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := sched.Progress()
				a.logger.Info().
					Int("completed", p.Completed).
					Int("skipped", p.Skipped).
					Int("failed", p.Failed).
					Int("remaining", p.Remaining).
					Msg("Progress")
			}
		}
	}()

	// Force re-runs everything: recorded identities are not skipped, and
	// the appender supersedes their rows on merge.
	known := ds.Known
	if force {
		known = func(string) bool { return false }
	}

	runErr := sched.Run(sigCtx, tasks, known,
		func(taskCtx context.Context, task experiment.Task) experiment.Result {
			return runner.Invoke(taskCtx, model, task)
		},
		func(res experiment.Result) error {
			if err := appender.Merge(res); err != nil {
				var dup *dataset.DuplicateResultError
				if errors.As(err, &dup) {
					a.logger.Warn().Str("identity", dup.Identity).Msg("Skipping duplicate result")
					return nil
				}
				return err
			}
			return nil
		})
	close(done)

	if runErr != nil {
		a.logger.Error().Err(runErr).Msg("Aggregating results failed")
		return cli.Exit(runErr.Error(), 1)
	}

	p := sched.Progress()
	a.logger.Info().
		Int("completed", p.Completed).
		Int("skipped", p.Skipped).
		Int("failed", p.Failed).
		Int("remaining", p.Remaining).
		Msg("Experiment run finished")

	if sigCtx.Err() != nil && p.Remaining > 0 {
		return cli.Exit(fmt.Sprintf("run stopped with %d tasks remaining", p.Remaining), 2)
	}
	if p.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d tasks failed", p.Failed, len(tasks)), 2)
	}
	return nil
}
