package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "uxr"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Sweep UPPAAL models across a parameter space and aggregate verifyta results",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}

	configFlag := &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Experiment configuration file (HCL)",
		Required: true,
	}

	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "get-params",
		Usage:  "Scan the model for @param declarations and print a vars template",
		Action: app.getParams,
		Flags:  []cli.Flag{configFlag},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Run every (assignment, query) task not yet recorded in the dataset",
		Action: app.run,
		Flags: []cli.Flag{
			configFlag,
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Re-run tasks whose identity already has a recorded outcome",
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Override the number of concurrent verifyta invocations",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "status",
		Usage:  "Summarize the experiment dataset",
		Action: app.status,
		Flags:  []cli.Flag{configFlag},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "plot",
		Usage:  "Print the configured plot data series",
		Action: app.plot,
		Flags:  []cli.Flag{configFlag},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "export",
		Usage:  "Export the configured plot data series as CSV files",
		Action: app.export,
		Flags:  []cli.Flag{configFlag},
	})

	return app
}

func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}
