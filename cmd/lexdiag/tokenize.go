package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nihei9/lexdiag/lexical"
	"github.com/nihei9/lexdiag/spec"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	src *sourceFlags
	dfa *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize <token table file path>",
		Short:   "Tokenize a text stream",
		Example: `  cat src | lexdiag tokenize tokens.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	tokenizeFlags.src = addSourceFlags(cmd)
	tokenizeFlags.dfa = cmd.Flags().Bool("dfa", false, "compile the token table into a DFA with maleeni instead of using Go regexps")
	rootCmd.AddCommand(cmd)
}

type tokenIterator interface {
	Next() (*lexical.Token, error)
}

func runTokenize(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	tab, err := spec.ReadTokenTable(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a token table: %w", err)
	}
	src, err := tokenizeFlags.src.read()
	if err != nil {
		return err
	}

	var toks tokenIterator
	if *tokenizeFlags.dfa {
		d, err := lexical.CompileDFA(tab)
		if err != nil {
			return fmt.Errorf("Cannot compile the token table: %w", err)
		}
		toks, err = d.Tokens(strings.NewReader(src))
		if err != nil {
			return err
		}
	} else {
		lx, err := lexical.NewLexer(tab)
		if err != nil {
			return fmt.Errorf("Cannot make a lexer: %w", err)
		}
		toks = lx.Tokens(src)
	}

	for {
		tok, err := toks.Next()
		if err != nil {
			return err
		}
		if tok.Type == lexical.Invalid {
			errorColor.Fprintf(os.Stdout, "%v:%v: %v %#v\n", tok.Line, tok.Column, tok.Type, tok.Value)
		} else {
			fmt.Fprintf(os.Stdout, "%v:%v: %v %#v\n", tok.Line, tok.Column, tok.Type, tok.Value)
		}
		if tok.Type == lexical.EOF {
			break
		}
	}

	return nil
}
