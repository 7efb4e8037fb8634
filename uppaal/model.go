// Package uppaal handles UPPAAL model files: locating declaration sections,
// scanning parameter annotations and substituting assignments back into the
// model text. The engine treats everything beyond that as opaque text.
package uppaal

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ScanError reports structurally unreadable model input. Absence of any
// parameter markers is not an error.
type ScanError struct {
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("unreadable model: %v", e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Section is one named declaration block of the model: "project" for the
// top-level declaration, the template name for template declarations, and
// "system" for the system block.
type Section struct {
	Name string
	Text string

	// Raw byte range of the element content within the model document,
	// used for in-place substitution without re-serializing the XML.
	start, end int64
}

// Model is a parsed UPPAAL model: the raw document plus its declaration
// sections in document order.
type Model struct {
	raw      []byte
	Sections []Section
}

// Raw returns the unmodified model document.
func (m *Model) Raw() []byte { return m.raw }

// Section looks up a declaration section by name.
func (m *Model) Section(name string) (Section, bool) {
	for _, s := range m.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Parse reads an UPPAAL model document and extracts its declaration
// sections. The document structure beyond nta/declaration, nta/template and
// nta/system is ignored.
func Parse(raw []byte) (*Model, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	m := &Model{raw: raw}

	depth := 0
	inTemplate := false
	var tmplName string
	var tmplDecl *Section

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ScanError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case depth == 1 && name == "declaration" && !inTemplate:
				text, start, end, err := captureElement(dec)
				if err != nil {
					return nil, &ScanError{Err: err}
				}
				m.Sections = append(m.Sections, Section{Name: "project", Text: text, start: start, end: end})
			case depth == 1 && name == "template":
				inTemplate = true
				tmplName = ""
				tmplDecl = nil
				depth++
			case inTemplate && depth == 2 && name == "name":
				text, _, _, err := captureElement(dec)
				if err != nil {
					return nil, &ScanError{Err: err}
				}
				tmplName = strings.TrimSpace(text)
			case inTemplate && depth == 2 && name == "declaration":
				text, start, end, err := captureElement(dec)
				if err != nil {
					return nil, &ScanError{Err: err}
				}
				tmplDecl = &Section{Text: text, start: start, end: end}
			case depth == 1 && name == "system":
				text, start, end, err := captureElement(dec)
				if err != nil {
					return nil, &ScanError{Err: err}
				}
				m.Sections = append(m.Sections, Section{Name: "system", Text: text, start: start, end: end})
			default:
				depth++
			}
		case xml.EndElement:
			depth--
			if inTemplate && depth == 1 {
				if tmplDecl != nil && tmplName != "" {
					tmplDecl.Name = tmplName
					m.Sections = append(m.Sections, *tmplDecl)
				}
				inTemplate = false
			}
		}
	}

	return m, nil
}

// captureElement consumes the current element's subtree and returns its
// decoded character data together with the raw byte range of the content.
// The decoder is positioned right after the element's start tag.
func captureElement(dec *xml.Decoder) (text string, start, end int64, err error) {
	start = dec.InputOffset()
	var sb strings.Builder
	depth := 0
	for {
		end = dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return "", 0, 0, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return sb.String(), start, end, nil
			}
			depth--
		}
	}
}
