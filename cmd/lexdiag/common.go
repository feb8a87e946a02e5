package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/nihei9/lexdiag/diag"
	"github.com/nihei9/lexdiag/driver"
	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/spec"
	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgRed)
	labelColor = color.New(color.FgGreen, color.Bold)
	noteColor  = color.New(color.FgYellow)
)

// recoverPanic turns a panic into the error of a command and prints the stack trace. It must be
// deferred directly.
func recoverPanic(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}

type sourceFlags struct {
	source *string
	nfc    *bool
}

func addSourceFlags(cmd *cobra.Command) *sourceFlags {
	return &sourceFlags{
		source: cmd.Flags().StringP("source", "s", "", "source file path (default stdin)"),
		nfc:    cmd.Flags().Bool("nfc", false, "normalize the source to NFC before lexing"),
	}
}

func (f *sourceFlags) read() (string, error) {
	var r io.Reader = os.Stdin
	if *f.source != "" {
		file, err := os.Open(*f.source)
		if err != nil {
			return "", fmt.Errorf("Cannot open the source file %s: %w", *f.source, err)
		}
		defer file.Close()
		r = file
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	src := string(data)
	if *f.nfc {
		src = norm.NFC.String(src)
	}
	return src, nil
}

type lexFlags struct {
	tokens *string
	dfa    *bool
}

func addLexFlags(cmd *cobra.Command) *lexFlags {
	return &lexFlags{
		tokens: cmd.Flags().String("tokens", "", "token table (.toml or "+spec.TableCacheExt+") used instead of the lexer embedded in the grammar"),
		dfa:    cmd.Flags().Bool("dfa", false, "compile the token table into a DFA with maleeni instead of using Go regexps"),
	}
}

// open returns how sources are lexed for g. Without a token table, the maleeni lexer embedded in
// g is used.
func (f *lexFlags) open(g *spec.CompiledGrammar) (driver.OpenFunc, error) {
	if *f.tokens == "" {
		if *f.dfa {
			return nil, fmt.Errorf("--dfa requires --tokens")
		}
		return driver.OpenMaleeni(g), nil
	}

	tab, err := spec.ReadTokenTable(*f.tokens)
	if err != nil {
		return nil, fmt.Errorf("Cannot read a token table: %w", err)
	}
	if *f.dfa {
		d, err := lexical.CompileDFA(tab)
		if err != nil {
			return nil, fmt.Errorf("Cannot compile the token table: %w", err)
		}
		m, err := spec.NewMaleeni(d, g.ParsingTable)
		if err != nil {
			return nil, err
		}
		g.LexicalSpecification = &spec.LexicalSpecification{
			Lexer:   "maleeni",
			Maleeni: m,
		}
		return driver.OpenMaleeni(g), nil
	}
	lx, err := lexical.NewLexer(tab)
	if err != nil {
		return nil, fmt.Errorf("Cannot make a lexer: %w", err)
	}
	return driver.OpenTable(g, lx), nil
}

func readGrammar(path string) (*spec.CompiledGrammar, error) {
	g, err := spec.ReadCompiledGrammar(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read a compiled grammar: %w", err)
	}
	return g, nil
}

// printFailure prints a parse failure and the line of src it happened on, with a caret under the
// offending token. It returns the failure when err is one.
func printFailure(w io.Writer, err error, src string) *diag.UnexpectedToken {
	var ut *diag.UnexpectedToken
	if !errors.As(err, &ut) {
		errorColor.Fprintf(w, "%v\n", err)
		return nil
	}

	lines := strings.SplitN(ut.Error(), "\n", 2)
	errorColor.Fprintf(w, "%v\n", lines[0])
	if len(lines) > 1 {
		fmt.Fprintf(w, "%v\n", lines[1])
	}

	before, after, cErr := ut.ContextParts(src, diag.DefaultContextSpan)
	if cErr != nil {
		return ut
	}
	fmt.Fprintf(w, "\n    %v%v\n", before, after)
	fmt.Fprintf(w, "    %v%v\n", strings.Repeat(" ", runewidth.StringWidth(before)), caretColor.Sprint("^"))
	return ut
}

// printLabel looks for an example that fails the same way as ut.
func printLabel(cmd *cobra.Command, w io.Writer, ut *diag.UnexpectedToken, parse diag.ParseFunc, examples diag.Examples, jobs int) error {
	var label string
	var ok bool
	var err error
	if jobs > 1 {
		label, ok, err = ut.MatchExamplesConcurrently(cmd.Context(), parse, examples, jobs)
	} else {
		label, ok, err = ut.MatchExamples(parse, examples)
	}
	switch {
	case errors.Is(err, diag.ErrUnsupported):
		noteColor.Fprintf(w, "The failure has no parser state, so it can't be matched with examples.\n")
		return nil
	case err != nil:
		return err
	case !ok:
		noteColor.Fprintf(w, "No matching example.\n")
		return nil
	}
	fmt.Fprintf(w, "Label: %v\n", labelColor.Sprint(label))
	return nil
}
