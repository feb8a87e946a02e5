package main

import (
	"fmt"
	"os"

	"github.com/nihei9/lexdiag/driver"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	src *sourceFlags
	lex *lexFlags
	cst *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a text stream",
		Example: `  cat src | lexdiag parse grammar.json
  lexdiag parse grammar.json --tokens tokens.toml -s src --cst`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.src = addSourceFlags(cmd)
	parseFlags.lex = addLexFlags(cmd)
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print the CST of an accepted text")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	open, err := parseFlags.lex.open(g)
	if err != nil {
		return err
	}
	src, err := parseFlags.src.read()
	if err != nil {
		return err
	}

	var p *driver.Parser
	{
		toks, err := open(src)
		if err != nil {
			return err
		}
		var opts []driver.ParserOption
		if *parseFlags.cst {
			opts = append(opts, driver.MakeCST())
		}
		p, err = driver.NewParser(g, toks, opts...)
		if err != nil {
			return err
		}
	}

	err = p.Parse()
	if err != nil {
		printFailure(os.Stderr, err, src)
		return fmt.Errorf("Parse failed")
	}

	if *parseFlags.cst {
		driver.PrintTree(os.Stdout, p.CST())
	}

	return nil
}
