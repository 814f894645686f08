// Package registry maps legacy adapter bindings to migration targets.
//
// A registry file lists the adapters a migration project knows how to
// replace. During analysis, ports bound to adapters without a supported
// target surface as connector gaps in the recommendations.
package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// Connector describes one adapter mapping.
type Connector struct {
	// Adapter is the legacy transport name, matched case-insensitively.
	Adapter string `json:"adapter" yaml:"adapter"`

	// Target names the replacement connector, if any.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Supported reports whether a migration target exists.
	Supported bool `json:"supported" yaml:"supported"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Registry holds adapter mappings loaded from a registry file.
type Registry struct {
	connectors map[string]Connector
}

type registryFile struct {
	Connectors []Connector `json:"connectors" yaml:"connectors"`
}

// Load reads a registry from a JSON or YAML file. JSON files are
// validated against the embedded schema before decoding.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rf registryFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse registry %s: %w", path, err)
		}
	default:
		if err := validate(data); err != nil {
			return nil, fmt.Errorf("invalid registry %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("parse registry %s: %w", path, err)
		}
	}

	return New(rf.Connectors), nil
}

// New builds a Registry from a connector list. Later entries for the
// same adapter override earlier ones.
func New(connectors []Connector) *Registry {
	r := &Registry{connectors: make(map[string]Connector, len(connectors))}
	for _, c := range connectors {
		if c.Adapter == "" {
			continue
		}
		r.connectors[strings.ToLower(c.Adapter)] = c
	}
	return r
}

// Lookup returns the connector for an adapter name, if registered.
func (r *Registry) Lookup(adapter string) (Connector, bool) {
	c, ok := r.connectors[strings.ToLower(adapter)]
	return c, ok
}

// Unsupported returns the registered adapters without a migration
// target, sorted by adapter name.
func (r *Registry) Unsupported() []Connector {
	var out []Connector
	for _, c := range r.connectors {
		if !c.Supported {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Adapter < out[j].Adapter })
	return out
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.connectors)
}

func validate(data []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("registry.schema.json", schemaDoc); err != nil {
		return err
	}
	schema, err := compiler.Compile("registry.schema.json")
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}
