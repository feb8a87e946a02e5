package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lexdiag/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <token table file path>",
		Short:   "Validate a token table and write it as a cache",
		Example: `  lexdiag compile tokens.toml -o tokens` + spec.TableCacheExt,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default: the input path with the "+spec.TableCacheExt+" extension)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	tab, err := spec.ReadTokenTable(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a token table: %w", err)
	}

	outPath := *compileFlags.output
	if outPath == "" {
		outPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + spec.TableCacheExt
	}
	if outPath == args[0] {
		return fmt.Errorf("The output would overwrite the input: %v", outPath)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("Cannot create an output file %s: %w", outPath, err)
	}
	defer f.Close()

	err = spec.WriteTableCache(f, tab)
	if err != nil {
		return fmt.Errorf("Cannot write a table cache: %w", err)
	}

	return nil
}
