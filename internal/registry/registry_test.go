package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "registry.json", `{
  "connectors": [
    {"adapter": "FILE", "target": "blob-storage", "supported": true},
    {"adapter": "MSMQ", "supported": false, "notes": "no queue equivalent"},
    {"adapter": "SOAP", "target": "http", "supported": true}
  ]
}`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d", r.Len())
	}

	c, ok := r.Lookup("file")
	if !ok {
		t.Fatal("Lookup should be case-insensitive")
	}
	if c.Target != "blob-storage" || !c.Supported {
		t.Errorf("connector = %+v", c)
	}

	if _, ok := r.Lookup("FTP"); ok {
		t.Error("unknown adapter should miss")
	}

	missing := r.Unsupported()
	if len(missing) != 1 || missing[0].Adapter != "MSMQ" {
		t.Errorf("Unsupported() = %+v", missing)
	}
}

func TestLoadJSONSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing connectors", `{}`},
		{"adapter not a string", `{"connectors": [{"adapter": 7, "supported": true}]}`},
		{"missing supported", `{"connectors": [{"adapter": "FILE"}]}`},
		{"unknown field", `{"connectors": [{"adapter": "FILE", "supported": true, "color": "red"}]}`},
		{"empty adapter", `{"connectors": [{"adapter": "", "supported": true}]}`},
		{"not json", `connectors:`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "registry.json", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "registry.yaml", `
connectors:
  - adapter: SFTP
    target: sftp-connector
    supported: true
  - adapter: MQSeries
    supported: false
`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d", r.Len())
	}
	if _, ok := r.Lookup("mqseries"); !ok {
		t.Error("yaml connector missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewLaterEntryWins(t *testing.T) {
	r := New([]Connector{
		{Adapter: "FILE", Supported: false},
		{Adapter: "file", Target: "blob", Supported: true},
		{Adapter: ""},
	})

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want adapter names folded and empties dropped", r.Len())
	}
	c, _ := r.Lookup("FILE")
	if !c.Supported || c.Target != "blob" {
		t.Errorf("connector = %+v, want the later entry", c)
	}
}

func TestUnsupportedSorted(t *testing.T) {
	r := New([]Connector{
		{Adapter: "ZMQ", Supported: false},
		{Adapter: "AMQP", Supported: false},
		{Adapter: "FILE", Supported: true},
	})

	missing := r.Unsupported()
	if len(missing) != 2 || missing[0].Adapter != "AMQP" || missing[1].Adapter != "ZMQ" {
		t.Errorf("Unsupported() = %+v, want sorted by adapter", missing)
	}
}
