package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hmgle/nvim-cat/internal/oracle"
	"github.com/hmgle/nvim-cat/internal/patterns"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages with dedicated highlight support",
	Long: `List the languages the legacy scanner and the pattern tables support
directly. The parser tier covers far more languages than listed here;
anything chroma has a lexer for highlights through it.`,
	RunE: runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	legacy := oracle.NewLegacyOracle()

	fmt.Fprintf(out, "%-16s %-8s %-8s\n", "LANGUAGE", "LEGACY", "PATTERNS")
	for _, lang := range patterns.DefaultSet().Languages() {
		legacyMark := "-"
		if legacy.Available(lang) {
			legacyMark = "yes"
		}
		fmt.Fprintf(out, "%-16s %-8s %-8s\n", lang, legacyMark, "yes")
	}

	fmt.Fprintln(out, strings.Repeat("-", 34))
	fmt.Fprintln(out, "other languages fall back to the chroma lexer tier or generic rules")
	return nil
}
