package error

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSpecError_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.toml")
	err := os.WriteFile(path, []byte("[[token]]\nname = = \"A\"\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cause := errors.New("expected a value")

	tests := []struct {
		caption string
		err     *SpecError
		msg     string
	}{
		{
			caption: "a row and a column quote the line with a caret",
			err: &SpecError{
				Cause:      cause,
				FilePath:   path,
				SourceName: "tokens.toml",
				Row:        2,
				Col:        8,
			},
			msg: "tokens.toml: 2: error: expected a value\n    name = = \"A\"\n           ^",
		},
		{
			caption: "a row without a column quotes only the line",
			err: &SpecError{
				Cause:      cause,
				Detail:     "token #1",
				FilePath:   path,
				SourceName: "tokens.toml",
				Row:        1,
			},
			msg: "tokens.toml: 1: error: expected a value: token #1\n    [[token]]",
		},
		{
			caption: "no file means no quote",
			err: &SpecError{
				Cause: cause,
				Row:   2,
			},
			msg: "2: error: expected a value",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Fatalf("unexpected message; want: %q, got: %q", tt.msg, tt.err.Error())
			}
			if !errors.Is(tt.err, cause) {
				t.Fatalf("the cause must be unwrapped")
			}
		})
	}
}

func TestSpecErrors(t *testing.T) {
	cause := errors.New("duplicate label")
	errs := SpecErrors{
		{Cause: cause, SourceName: "a.toml"},
		{Cause: errors.New("no inputs"), SourceName: "a.toml"},
	}
	if errs.Error() != "a.toml: error: duplicate label\na.toml: error: no inputs" {
		t.Fatalf("unexpected message: %q", errs.Error())
	}
	if !errors.Is(errs, cause) {
		t.Fatalf("every error must be unwrapped")
	}
}
