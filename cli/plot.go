package cli

// This file contains the plot, export and status commands operating on an
// existing experiment dataset.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/config"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/dataset"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/plot"
)

func (a *App) loadResults(ctx *cli.Context) (*config.Experiment, []experiment.Result, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if cfg.ExperimentData == "" {
		return nil, nil, fmt.Errorf("config must set experiment_data")
	}
	results, err := dataset.LoadResults(a.logger, cfg.ExperimentData)
	if err != nil {
		return nil, nil, err
	}
	return cfg, results, nil
}

func (a *App) plot(ctx *cli.Context) error {
	cfg, results, err := a.loadResults(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(cfg.Plots) == 0 {
		return cli.Exit("config defines no plots", 1)
	}

	for _, p := range cfg.Plots {
		series, err := plot.Build(results, p)
		if err != nil {
			return cli.Exit(fmt.Sprintf("plot %s: %v", p.Name, err), 1)
		}

		fmt.Printf("\n=== %s (x: %s) ===\n\n", series.Name, series.XLabel)
		for _, pt := range series.Points {
			fmt.Printf("%12s  n=%-5d mean=%-12g min=%-12g max=%g\n",
				pt.X, len(pt.Values), pt.Mean, pt.Min, pt.Max)
		}
	}

	return nil
}

func (a *App) export(ctx *cli.Context) error {
	cfg, results, err := a.loadResults(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(cfg.Plots) == 0 {
		return cli.Exit("config defines no plots", 1)
	}

	for _, p := range cfg.Plots {
		series, err := plot.Build(results, p)
		if err != nil {
			return cli.Exit(fmt.Sprintf("plot %s: %v", p.Name, err), 1)
		}

		path := filepath.Join(cfg.ExperimentData, p.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("creating %s: %v", path, err), 1)
		}
		if err := plot.WriteCSV(f, series); err != nil {
			f.Close()
			return cli.Exit(fmt.Sprintf("exporting %s: %v", path, err), 1)
		}
		if err := f.Close(); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		a.logger.Info().Str("file", path).Int("points", len(series.Points)).Msg("Exported plot data")
	}

	return nil
}

func (a *App) status(ctx *cli.Context) error {
	_, results, err := a.loadResults(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	counts := make(map[experiment.Status]int)
	var total time.Duration
	for _, res := range results {
		counts[res.Status]++
		total += time.Duration(res.DurationMS) * time.Millisecond
	}

	fmt.Printf("\n=== Dataset (%d results) ===\n\n", len(results))
	for _, status := range []experiment.Status{
		experiment.StatusSuccess,
		experiment.StatusTimeout,
		experiment.StatusEngineError,
		experiment.StatusMalformedOutput,
	} {
		if counts[status] > 0 {
			fmt.Printf("%18s  %d\n", status, counts[status])
		}
	}
	fmt.Printf("\nTotal verification time: %s\n", total.Round(time.Millisecond))

	return nil
}
