package odx

import (
	"encoding/xml"
	"io"
	"strings"
)

// Property is one Name/Value pair on an element.
type Property struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

// Element is one construct of the generic designer schema: a Type attribute
// naming the kind, an optional OID identifier, zero or more properties, and
// zero or more nested elements. All higher components are built from the two
// accessor primitives Select and Value plus these attributes.
type Element struct {
	Type       string     `xml:"Type,attr"`
	OID        string     `xml:"OID,attr"`
	Properties []Property `xml:"Property"`
	Children   []*Element `xml:"Element"`
}

// Document is the decoded designer XML.
type Document struct {
	Root Element
}

// ReadDocument parses the extracted designer XML. Malformed XML fails with a
// FormatError carrying the line and column of the first syntax error.
func ReadDocument(xmlText string) (*Document, error) {
	var root Element
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	// Extraction already yielded native text; declared charsets such as
	// utf-16 in the original declaration no longer apply.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := dec.Decode(&root); err != nil {
		line, col := position(xmlText, dec.InputOffset())
		return nil, &FormatError{Line: line, Column: col, Msg: "malformed designer XML: " + err.Error()}
	}
	return &Document{Root: root}, nil
}

// position converts a byte offset to a 1-based line and column.
func position(text string, offset int64) (int, int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	head := text[:offset]
	line := strings.Count(head, "\n") + 1
	col := int(offset) - strings.LastIndex(head, "\n")
	return line, col
}

// Property returns the value of the named property on e, or the empty
// string.
func (e *Element) Property(name string) string {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// PropertyBool reports whether the named property holds a true value.
func (e *Element) PropertyBool(name string) bool {
	v := strings.ToLower(e.Property(name))
	return v == "true" || v == "1"
}

// ChildrenOfType returns the direct children whose Type matches t.
func (e *Element) ChildrenOfType(t string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child of the given type, or nil.
func (e *Element) FirstChild(t string) *Element {
	for _, c := range e.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// Select returns all descendants matching the relative type path. Every path
// step searches at any depth below the previous matches, in document order.
func (e *Element) Select(path ...string) []*Element {
	matches := []*Element{e}
	for _, step := range path {
		var next []*Element
		for _, m := range matches {
			next = append(next, m.descendants(step)...)
		}
		matches = next
	}
	if len(path) == 0 {
		return nil
	}
	return matches
}

// First returns the first match of Select, or nil.
func (e *Element) First(path ...string) *Element {
	matches := e.Select(path...)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Value evaluates the path to the named property of the first matching
// element, or the empty string. The last path segment is the property name;
// with a single segment the property is read off e itself.
func (e *Element) Value(path ...string) string {
	if len(path) == 0 {
		return ""
	}
	prop := path[len(path)-1]
	steps := path[:len(path)-1]
	if len(steps) == 0 {
		return e.Property(prop)
	}
	m := e.First(steps...)
	if m == nil {
		return ""
	}
	return m.Property(prop)
}

func (e *Element) descendants(t string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Type == t {
			out = append(out, c)
		}
		out = append(out, c.descendants(t)...)
	}
	return out
}
