package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/nihei9/lexdiag/driver"
	"github.com/nihei9/lexdiag/spec"
	"github.com/nihei9/lexdiag/tester"
	"github.com/spf13/cobra"
)

var checkFlags = struct {
	lex *lexFlags
}{}

var (
	passedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	summaryStyle  = lipgloss.NewStyle().Bold(true)
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path> <examples file path>",
		Short:   "Check that every example fails with a usable diagnosis",
		Example: `  lexdiag check grammar.json examples.toml --tokens tokens.toml`,
		Args:    cobra.ExactArgs(2),
		RunE:    runCheck,
	}
	checkFlags.lex = addLexFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	examples, err := spec.ReadExamples(args[1])
	if err != nil {
		return fmt.Errorf("Cannot read examples: %w", err)
	}
	open, err := checkFlags.lex.open(g)
	if err != nil {
		return err
	}

	t := &tester.Tester{
		Parse:    driver.ParseFunc(g, open),
		Examples: examples,
	}
	return reportCheck(os.Stdout, t.Run())
}

// reportCheck prints a line per example followed by the conflicts. Any example that didn't fail
// with a state fails the check, as does any conflict.
func reportCheck(w io.Writer, rs []*tester.Result) error {
	failed := 0
	for _, r := range rs {
		if r.Passed() {
			fmt.Fprintln(w, passedStyle.Render(r.String()))
		} else {
			fmt.Fprintln(w, failedStyle.Render(r.String()))
			failed++
		}
	}

	cs := tester.Conflicts(rs)
	for _, c := range cs {
		fmt.Fprintln(w, conflictStyle.Render(c.String()))
	}

	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("%v examples, %v failed, %v conflicts", len(rs), failed, len(cs))))
	if failed > 0 || len(cs) > 0 {
		return errors.New("Check failed")
	}
	return nil
}
