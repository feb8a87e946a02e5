package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootFlags = struct {
	color *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lexdiag",
	Short: "Inspect token patterns and diagnose parse errors",
	Long: `lexdiag provides the following features:
- Shows how the patterns of a token table are ordered and how wide their matches are.
- Parses a text with a compiled LR parsing table and explains where it went wrong.
- Labels a parse error with the name of a known mistake by replaying a catalog of
  malformed examples.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpColor,
}

func init() {
	rootFlags.color = rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
}

func setUpColor(cmd *cobra.Command, args []string) error {
	switch *rootFlags.color {
	case "auto":
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("--color must be auto, on, or off: %v", *rootFlags.color)
	}

	// lipgloss detects the terminal on its own.
	if color.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.ANSI)
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
