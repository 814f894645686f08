package analyzer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
)

func TestMapFiles(t *testing.T) {
	files := []string{"a", "b", "c"}

	results := MapFiles(context.Background(), files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	})

	sort.Strings(results)
	if len(results) != 3 || results[0] != "A" || results[2] != "C" {
		t.Errorf("results = %v", results)
	}
}

func TestMapFilesEmpty(t *testing.T) {
	results := MapFiles(context.Background(), nil, func(path string) (int, error) {
		return 0, nil
	})
	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestMapFilesNDropsErrors(t *testing.T) {
	files := []string{"good", "bad", "good2"}

	results := MapFilesN(context.Background(), files, 1, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	}, nil)

	if len(results) != 2 {
		t.Errorf("results = %v, want the two successes", results)
	}
}

func TestMapFilesNProgress(t *testing.T) {
	files := []string{"a", "b", "c"}

	ticks := 0
	MapFilesN(context.Background(), files, 1, func(path string) (string, error) {
		return path, nil
	}, func() { ticks++ })

	if ticks != 3 {
		t.Errorf("ticks = %d, want one per file including failures", ticks)
	}
}

func TestMapFilesNCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := MapFilesN(ctx, []string{"a", "b"}, 1, func(path string) (string, error) {
		return path, nil
	}, nil)

	if len(results) != 0 {
		t.Errorf("results = %v, want none after cancellation", results)
	}
}
