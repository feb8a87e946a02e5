package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testHistory struct {
	lines    string
	writeErr error
}

func (h *testHistory) ReadHistory(r io.Reader) (int, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	h.lines = string(b)
	return strings.Count(h.lines, "\n"), nil
}

func (h *testHistory) WriteHistory(w io.Writer) (int, error) {
	if h.writeErr != nil {
		return 0, h.writeErr
	}
	_, err := io.WriteString(w, h.lines)
	return strings.Count(h.lines, "\n"), err
}

func TestLoadHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, historyFile)
	err := os.WriteFile(path, []byte("1 +\n+ 1\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	h := &testHistory{}
	err = loadHistory(h, path)
	if err != nil {
		t.Fatal(err)
	}
	if h.lines != "1 +\n+ 1\n" {
		t.Fatalf("unexpected history: %q", h.lines)
	}

	err = loadHistory(&testHistory{}, filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("a missing history file must be ignored: %v", err)
	}
}

func TestSaveHistory(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		caption string
		history *testHistory
		path    string
		failed  bool
	}{
		{
			caption: "the history is written to the file",
			history: &testHistory{lines: "1 +\n"},
			path:    filepath.Join(dir, historyFile),
		},
		{
			caption: "a file that can't be created is reported",
			history: &testHistory{lines: "1 +\n"},
			path:    filepath.Join(dir, "missing", historyFile),
			failed:  true,
		},
		{
			caption: "a failed write is reported",
			history: &testHistory{writeErr: errors.New("disk full")},
			path:    filepath.Join(dir, "broken"),
			failed:  true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			err := saveHistory(tt.history, tt.path)
			if tt.failed {
				if err == nil {
					t.Fatalf("an error must occur")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			b, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tt.history.lines {
				t.Fatalf("unexpected history file; want: %q, got: %q", tt.history.lines, string(b))
			}
		})
	}
}
