package uppaal

import (
	"fmt"
	"os"
	"strings"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

// LoadQueries reads a verifyta query file. Each non-empty, non-comment line
// is one query; the ordinal position is its stable ID.
func LoadQueries(path string) ([]experiment.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	return ParseQueries(string(data)), nil
}

// ParseQueries splits query file text into ordered queries. Lines starting
// with // are comments. Query text is not normalized beyond trimming the
// surrounding whitespace, so editing a query changes its identity.
func ParseQueries(text string) []experiment.Query {
	var queries []experiment.Query
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		queries = append(queries, experiment.Query{ID: len(queries), Text: trimmed})
	}
	return queries
}
