package plot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV exports a series as CSV: one row per x position with summary
// statistics and the full value list for distribution plots.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{s.XLabel, "count", "mean", "min", "max", "values"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range s.Points {
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		row := []string{
			p.X,
			strconv.Itoa(len(p.Values)),
			strconv.FormatFloat(p.Mean, 'g', -1, 64),
			strconv.FormatFloat(p.Min, 'g', -1, 64),
			strconv.FormatFloat(p.Max, 'g', -1, 64),
			strings.Join(values, " "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
