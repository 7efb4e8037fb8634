package uppaal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/LowkeyCoding/UPPAAL-Experiment-Runner/experiment"
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Rewrite produces a variant of the model document with every assigned
// variable's initializer replaced inside its section's declaration block.
// The rest of the document is carried over byte for byte.
//
// Substitution happens on the decoded section text, not the raw bytes: an
// initializer containing an entity such as &lt; carries a semicolon of its
// own, which would end the match early. The patched section is re-escaped
// as a whole before splicing.
func (m *Model) Rewrite(a experiment.Assignment) ([]byte, error) {
	bySection := make(map[string][]experiment.Binding)
	for _, b := range a {
		bySection[b.Section] = append(bySection[b.Section], b)
	}

	type patch struct {
		start, end int64
		content    []byte
	}
	var patches []patch

	for section, bindings := range bySection {
		sec, ok := m.Section(section)
		if !ok {
			return nil, fmt.Errorf("model has no declaration section %q", section)
		}
		content := sec.Text
		for _, b := range bindings {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(b.Variable) + `\s*=\s*[^;]*;`)
			if err != nil {
				return nil, fmt.Errorf("variable %s.%s: %w", b.Section, b.Variable, err)
			}
			content = re.ReplaceAllString(content, b.Variable+" = "+b.Value+";")
		}
		patches = append(patches, patch{start: sec.start, end: sec.end, content: []byte(xmlEscaper.Replace(content))})
	}

	// Splice back to front so earlier offsets stay valid.
	sort.Slice(patches, func(i, j int) bool { return patches[i].start > patches[j].start })

	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	for _, p := range patches {
		var next []byte
		next = append(next, out[:p.start]...)
		next = append(next, p.content...)
		next = append(next, out[p.end:]...)
		out = next
	}

	return out, nil
}
