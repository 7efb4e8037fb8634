package experiment

// Status classifies the outcome of a single task execution.
type Status string

const (
	// StatusSuccess means verifyta exited zero and its output parsed.
	StatusSuccess Status = "success"
	// StatusTimeout means the invocation exceeded the per-task timeout
	// and was forcibly terminated.
	StatusTimeout Status = "timeout"
	// StatusEngineError means verifyta exited abnormally or could not be
	// started at all.
	StatusEngineError Status = "engine_error"
	// StatusMalformedOutput means verifyta exited zero but its output
	// could not be parsed.
	StatusMalformedOutput Status = "malformed_output"
)

// Point is a single (time, value) sample from a verifyta trace.
type Point struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// FormulaResult captures the verdict and trace data of one formula within a
// verifyta invocation. Satisfied is nil when verifyta reported no verdict.
type FormulaResult struct {
	Index     int                `json:"index"`
	Satisfied *bool              `json:"satisfied,omitempty"`
	Traces    map[string][]Point `json:"traces,omitempty"`
}

// Result is the write-once outcome of one task. Rows carry the denormalized
// assignment and query so the dataset is self-describing for downstream
// consumers.
type Result struct {
	Identity   string             `json:"identity"`
	Assignment Assignment         `json:"assignment"`
	Query      Query              `json:"query"`
	Status     Status             `json:"status"`
	DurationMS int64              `json:"duration_ms"`
	ExitCode   int                `json:"exit_code"`
	// OutputFile references the raw stdout blob, relative to the dataset
	// directory.
	OutputFile string             `json:"output_file,omitempty"`
	Stderr     string             `json:"stderr,omitempty"`
	Error      string             `json:"error,omitempty"`
	Formulas   []FormulaResult    `json:"formulas,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`

	// Raw is the captured stdout blob. The aggregator persists it next to
	// the dataset and records the reference in OutputFile.
	Raw []byte `json:"-"`
}

// Failed reports whether the result represents a per-task failure.
func (r Result) Failed() bool {
	return r.Status != StatusSuccess
}
