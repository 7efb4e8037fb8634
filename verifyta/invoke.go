package verifyta

import (
	"bytes"
	"context"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/uppaal"
)

// Invoke runs one task end to end: substitute the assignment into the
// model, run verifyta, classify the outcome. Failures become Result
// statuses, never errors, so one bad task cannot abort its siblings.
func (r *Runner) Invoke(ctx context.Context, model *uppaal.Model, task experiment.Task) experiment.Result {
	res := experiment.Result{
		Identity:   task.Identity,
		Assignment: task.Assignment,
		Query:      task.Query,
	}

	variant, err := model.Rewrite(task.Assignment)
	if err != nil {
		res.Status = experiment.StatusEngineError
		res.Error = err.Error()
		return res
	}

	inv := r.Run(ctx, variant, task.Query.Text)
	res.DurationMS = inv.Duration.Milliseconds()
	res.ExitCode = inv.ExitCode
	res.Stderr = string(inv.Stderr)
	res.Raw = inv.Stdout

	switch {
	case inv.TimedOut:
		res.Status = experiment.StatusTimeout
	case inv.Err != nil:
		res.Status = experiment.StatusEngineError
		res.Error = inv.Err.Error()
	case inv.ExitCode != 0:
		res.Status = experiment.StatusEngineError
	default:
		out, perr := New().Parse(bytes.NewReader(inv.Stdout))
		if perr != nil {
			res.Status = experiment.StatusMalformedOutput
			res.Error = perr.Error()
			return res
		}
		res.Status = experiment.StatusSuccess
		res.Formulas = out.Formulas
		res.Metrics = summarize(out.Formulas)
	}

	return res
}

func summarize(formulas []experiment.FormulaResult) map[string]float64 {
	satisfied := 0
	for _, f := range formulas {
		if f.Satisfied != nil && *f.Satisfied {
			satisfied++
		}
	}
	return map[string]float64{
		"formulas":  float64(len(formulas)),
		"satisfied": float64(satisfied),
	}
}
