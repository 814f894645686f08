package odx

import "fmt"

// FormatError reports a structurally invalid source file: a missing XML
// declaration, a missing designer sentinel, or malformed XML. Line and
// Column are 1-based and zero when no position applies.
type FormatError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *FormatError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	default:
		return e.Msg
	}
}

// SemanticError reports a well-formed document that is missing required
// declarations, such as an orchestration with no resolvable name.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string { return e.Msg }

// SectionError wraps a failure while building one named sub-section of an
// orchestration (messages, port types, ports, shapes) with enough context to
// identify the file that produced it.
type SectionError struct {
	Orchestration string
	Section       string
	Err           error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("orchestration %q: section %q: %v", e.Orchestration, e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }
