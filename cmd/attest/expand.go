package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"attest/internal/ast"
	"attest/internal/diag"
	"attest/internal/expand"
	"attest/internal/parser"
	"attest/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand <file.at>",
	Short: "Expand check/require call sites and print the transformed script",
	Long:  `Expand parses an attest script, rewrites every check/require call into its runtime entry-point form, and prints the result. Diagnostics go to stderr; the exit code is 1 if any call site failed to expand`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorize, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	p := parser.New(fileSet.Get(id), reporter)
	script, parsed := p.ParseScript()

	var expanded *ast.Script
	expandedOK := false
	if parsed {
		expanded, expandedOK = expand.ExpandScript(script, fileSet, reporter)
	}

	if bag.Len() > 0 {
		newDiagPrinter(os.Stderr, fileSet, colorize).printBag(bag)
	}
	if !parsed || !expandedOK || bag.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("expansion failed for %s", args[0])
	}

	fmt.Fprint(cmd.OutOrStdout(), ast.RenderScript(expanded))
	return nil
}
