package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nihei9/lexdiag/driver"
	"github.com/nihei9/lexdiag/spec"
	"github.com/spf13/cobra"
)

var classifyFlags = struct {
	src  *sourceFlags
	lex  *lexFlags
	jobs *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "classify <grammar file path> <examples file path>",
		Short:   "Label a parse error with the name of the example it looks like",
		Example: `  echo '1 +' | lexdiag classify grammar.json examples.toml --tokens tokens.toml`,
		Args:    cobra.ExactArgs(2),
		RunE:    runClassify,
	}
	classifyFlags.src = addSourceFlags(cmd)
	classifyFlags.lex = addLexFlags(cmd)
	classifyFlags.jobs = cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "number of examples replayed at once")
	rootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	examples, err := spec.ReadExamples(args[1])
	if err != nil {
		return fmt.Errorf("Cannot read examples: %w", err)
	}
	open, err := classifyFlags.lex.open(g)
	if err != nil {
		return err
	}
	src, err := classifyFlags.src.read()
	if err != nil {
		return err
	}

	parse := driver.ParseFunc(g, open)
	err = parse(src)
	if err == nil {
		fmt.Fprintf(os.Stdout, "The text was accepted.\n")
		return nil
	}

	ut := printFailure(os.Stdout, err, src)
	if ut == nil {
		return fmt.Errorf("Cannot classify an error that isn't a syntax error")
	}
	fmt.Fprintln(os.Stdout)
	return printLabel(cmd, os.Stdout, ut, parse, examples, *classifyFlags.jobs)
}
