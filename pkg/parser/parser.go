package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/atlasbridge/odx/pkg/models"
	"github.com/atlasbridge/odx/pkg/odx"
)

// Parser builds a typed orchestration model from raw .odx source text.
// Parsing is a pure function of file content; a Parser holds no state between
// calls and is safe for concurrent use.
type Parser struct {
	trace func(format string, args ...any)
}

// Option is a functional option for configuring Parser.
type Option func(*Parser)

// WithTrace installs a diagnostic event sink invoked as the parser walks the
// document. No output is produced when unset.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(p *Parser) {
		p.trace = fn
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) tracef(format string, args ...any) {
	if p.trace != nil {
		p.trace(format, args...)
	}
}

// ParseFile reads and parses one source file.
func (p *Parser) ParseFile(path string) (*models.OrchestrationModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := p.Parse(data)
	if err != nil {
		var fe *odx.FormatError
		if errors.As(err, &fe) && fe.Path == "" {
			fe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse builds the orchestration model from raw source text: extract the
// designer XML, decode the generic element tree, build the declaration
// sections and the shape tree, then resolve correlation references.
func (p *Parser) Parse(data []byte) (*models.OrchestrationModel, error) {
	xmlText, err := odx.ExtractDesignerXML(string(data))
	if err != nil {
		return nil, err
	}
	doc, err := odx.ReadDocument(xmlText)
	if err != nil {
		return nil, err
	}

	module := moduleElement(doc)
	if module == nil {
		return nil, &odx.SemanticError{Msg: "no module element in designer XML"}
	}
	svc := module.First("ServiceDeclaration")
	if svc == nil {
		return nil, &odx.SemanticError{Msg: "no service declaration in module"}
	}
	name := svc.Property("Name")
	if name == "" {
		return nil, &odx.SemanticError{Msg: "no orchestration name resolved"}
	}

	m := &models.OrchestrationModel{
		Namespace: module.Property("Name"),
		Name:      name,
		Index:     make(map[string]*models.ShapeNode),
	}
	p.tracef("orchestration %s", m.QualifiedName())

	if m.Messages, err = p.parseMessages(svc); err != nil {
		return nil, &odx.SectionError{Orchestration: name, Section: "messages", Err: err}
	}
	if m.PortTypes, err = p.parsePortTypes(svc); err != nil {
		return nil, &odx.SectionError{Orchestration: name, Section: "port types", Err: err}
	}
	if m.Ports, err = p.parsePorts(svc); err != nil {
		return nil, &odx.SectionError{Orchestration: name, Section: "ports", Err: err}
	}

	if body := svc.FirstChild("ServiceBody"); body != nil {
		st := newState()
		ctx := &context{path: "body"}
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = &odx.SectionError{Orchestration: name, Section: "shapes", Err: fmt.Errorf("%v", r)}
				}
			}()
			m.Shapes = p.buildShapes(body.Children, nil, ctx, st)
		}()
		if err != nil {
			return nil, err
		}
		m.Index = st.index
	}

	resolveCorrelations(m)
	return m, nil
}

// moduleElement locates the root module element. Some files wrap it in a
// container element, others use it as the document root.
func moduleElement(doc *odx.Document) *odx.Element {
	if doc.Root.Type == "Module" {
		return &doc.Root
	}
	return doc.Root.First("Module")
}
