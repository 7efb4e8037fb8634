package cli

// This file contains the get-params command for turning scanned @param
// declarations into a vars template the user can paste into an experiment
// config.

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/config"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/uppaal"
)

func (a *App) getParams(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.Model == "" {
		return cli.Exit("config must set model", 1)
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
	if len(decls) == 0 {
		fmt.Println("No @param declarations found in the model")
		return nil
	}

	// Group by section, preserving discovery order.
	var sections []string
	bySection := make(map[string][]uppaal.Declaration)
	for _, d := range decls {
		if _, ok := bySection[d.Section]; !ok {
			sections = append(sections, d.Section)
		}
		bySection[d.Section] = append(bySection[d.Section], d)
	}

	for i, section := range sections {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("vars %q {\n", section)
		for _, d := range bySection[section] {
			fmt.Printf("  %s = %q\n", d.Variable, d.Default)
		}
		fmt.Println("}")
	}

	return nil
}
