package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nihei9/lexdiag/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "widths <token table file path>",
		Short:   "Show the token specs of a table in matching order with their match widths",
		Example: `  lexdiag widths tokens.toml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runWidths,
	}
	rootCmd.AddCommand(cmd)
}

func runWidths(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	tab, err := spec.ReadTokenTable(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a token table: %w", err)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "REGEXP", "MIN", "MAX", "PRIORITY", "")
	for i, s := range tab.Specs() {
		var note string
		if tab.Ignored(s.Name) {
			note = "ignored"
		}
		t.Row(
			strconv.Itoa(i+1),
			s.Name,
			s.Pattern.ToRegexpWith(tab.Embedding()),
			s.Pattern.MinWidth().String(),
			s.Pattern.MaxWidth().String(),
			strconv.Itoa(s.Priority),
			note,
		)
	}
	fmt.Fprintln(os.Stdout, t.Render())

	collisions := tab.Collisions()
	var lines []string
	for p, names := range collisions {
		lines = append(lines, fmt.Sprintf("%v share the pattern %v", strings.Join(names, ", "), p))
	}
	sort.Strings(lines)
	for _, l := range lines {
		noteColor.Fprintf(os.Stdout, "%v\n", l)
	}

	return nil
}
