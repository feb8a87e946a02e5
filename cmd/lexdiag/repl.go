package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lexdiag/diag"
	"github.com/nihei9/lexdiag/driver"
	"github.com/nihei9/lexdiag/spec"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".lexdiag_history"
	replPrompt  = "> "
)

var replFlags = struct {
	lex *lexFlags
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file path> [<examples file path>]",
		Short: "Parse lines interactively",
		Long: `repl parses each line you enter and explains the parse error, if any.
When an examples file is given, errors are also labeled. Enter :quit to exit.`,
		Example: `  lexdiag repl grammar.json examples.toml --tokens tokens.toml`,
		Args:    cobra.RangeArgs(1, 2),
		RunE:    runREPL,
	}
	replFlags.lex = addLexFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	var examples diag.Examples
	if len(args) > 1 {
		examples, err = spec.ReadExamples(args[1])
		if err != nil {
			return fmt.Errorf("Cannot read examples: %w", err)
		}
	}
	open, err := replFlags.lex.open(g)
	if err != nil {
		return err
	}
	parse := driver.ParseFunc(g, open)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		err := loadHistory(ln, histPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read the history: %v\n", err)
		}
	}

	for {
		line, err := ln.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(os.Stdout)
				break
			}
			return err
		}
		if strings.TrimSpace(line) == ":quit" {
			break
		}
		ln.AppendHistory(line)

		err = parse(line)
		if err == nil {
			labelColor.Fprintf(os.Stdout, "ok\n")
			continue
		}
		ut := printFailure(os.Stdout, err, line)
		if ut == nil || len(examples) == 0 {
			continue
		}
		err = printLabel(cmd, os.Stdout, ut, parse, examples, 1)
		if err != nil {
			errorColor.Fprintf(os.Stdout, "%v\n", err)
		}
	}

	if histPath != "" {
		err := saveHistory(ln, histPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot write the history: %v\n", err)
		}
	}
	return nil
}

// history is the part of *liner.State that persists entered lines.
type history interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// loadHistory reads the history file at path. A missing file is not an error.
func loadHistory(h history, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = h.ReadHistory(f)
	return err
}

func saveHistory(h history, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = h.WriteHistory(f)
	return errors.Join(err, f.Close())
}
