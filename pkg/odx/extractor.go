package odx

import "strings"

// Source files store a machine-readable designer XML segment followed by
// generated host-language code. The XML starts at the first XML declaration
// and ends at the preprocessor sentinel that opens the generated code.
const (
	xmlDeclMarker = "<?xml"
	sentinel      = "#endif"
)

// ExtractDesignerXML isolates the embedded designer XML from the raw source
// text. It fails with a FormatError when either the XML declaration or the
// sentinel is absent; well-formedness is checked later by ReadDocument.
func ExtractDesignerXML(raw string) (string, error) {
	start := strings.Index(raw, xmlDeclMarker)
	if start < 0 {
		return "", &FormatError{Msg: "no XML declaration found in source file"}
	}
	end := strings.Index(raw[start:], sentinel)
	if end < 0 {
		return "", &FormatError{Msg: "designer sentinel not found after XML declaration"}
	}
	return raw[start : start+end], nil
}
