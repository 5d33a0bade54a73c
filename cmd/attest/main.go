package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"attest/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "attest",
	Short: "Attest script assertion toolchain",
	Long:  `Attest expands and runs .at assertion scripts: check/require call sites are rewritten at build time and recorded as issues at run time`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the output terminal.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	return flag == "on" || (flag == "auto" && isTerminal(f)), nil
}
