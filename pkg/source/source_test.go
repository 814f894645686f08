package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.odx")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFilesystem()
	data, err := src.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("data = %q", data)
	}

	if _, err := src.Read(filepath.Join(dir, "missing.odx")); err == nil {
		t.Error("expected error for missing file")
	}
}

type fakeTree struct {
	files map[string][]byte
}

func (f *fakeTree) File(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return data, nil
}

func (f *fakeTree) Files(ext string) ([]string, error) {
	var out []string
	for p := range f.files {
		if filepath.Ext(p) == ext {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestTreeSource(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string][]byte{
		"orders/a.odx": []byte("alpha"),
	}})

	data, err := src.Read("orders/a.odx")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(data) != "alpha" {
		t.Errorf("data = %q", data)
	}

	if _, err := src.Read("orders/missing.odx"); err == nil {
		t.Error("expected error for missing tree entry")
	}
}

func TestTreeSourceConcurrent(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string][]byte{
		"a.odx": []byte("a"),
		"b.odx": []byte("b"),
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.Read("a.odx"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}

func TestTreeSourceOrchestrations(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string][]byte{
		"orders/a.odx": []byte("a"),
		"b.odx":        []byte("b"),
		"readme.md":    []byte("docs"),
	}})

	files, err := src.Orchestrations()
	if err != nil {
		t.Fatalf("Orchestrations() error: %v", err)
	}
	want := []string{"b.odx", "orders/a.odx"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i, f := range files {
		if f != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, f, want[i])
		}
	}
}
