package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"attest/internal/config"
	"attest/internal/diag"
	"attest/internal/recorders"
	"attest/internal/runner"
	"attest/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run <files-or-dirs...>",
	Short: "Run attest scripts and report recorded issues",
	Long:  `Run expands and evaluates the given .at scripts (directories are searched recursively). Scripts run in parallel; the exit code is 1 if any script failed to build or recorded an unknown issue`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("jobs", 0, "max parallel scripts (0 = config or one per CPU)")
	runCmd.Flags().String("ui", "auto", "live progress UI (auto|on|off)")
}

func runRun(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := parseUIMode(uiFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	paths, err := collectScripts(args)
	if err != nil {
		return err
	}

	cfg, manifestPath, err := config.Load(filepath.Dir(paths[0]))
	if err != nil {
		return err
	}

	colorize, err := resolveColor(cmd, cfg)
	if err != nil {
		return err
	}
	workers := jobs
	if workers <= 0 {
		workers = cfg.Run.Workers
	}

	useTUI := !quiet && mode.wantTUI()

	// Under the TUI the console recorder writes into a buffer that is
	// flushed once the live display has shut down.
	var consoleBuf bytes.Buffer
	consoleOut := os.Stdout
	var consoleRecorder *recorders.Console
	if useTUI {
		consoleRecorder = recorders.NewConsole(&consoleBuf, terminalWidth(), colorize, cfg.Tags)
	} else {
		consoleRecorder = recorders.NewConsole(consoleOut, terminalWidth(), colorize, cfg.Tags)
	}

	recs := []recorders.Recorder{consoleRecorder}
	if cfg.Output.Stream != "" {
		streamPath := cfg.Output.Stream
		if manifestPath != "" && !filepath.IsAbs(streamPath) {
			streamPath = filepath.Join(filepath.Dir(manifestPath), streamPath)
		}
		stream, err := recorders.OpenStream(streamPath)
		if err != nil {
			return fmt.Errorf("failed to open event stream: %w", err)
		}
		defer func() {
			if closeErr := stream.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "failed to close event stream: %v\n", closeErr)
			}
		}()
		recs = append(recs, stream)
	}

	opts := runner.Options{
		Workers: workers,
		Handler: recorders.FanOut(recs...),
		BuildReporter: func(fs *source.FileSet) diag.Reporter {
			return newDiagPrinter(os.Stderr, fs, colorize)
		},
	}

	var summary runner.Summary
	if useTUI {
		summary, err = runWithUI(cmd.Context(), "attest run", paths, opts)
		if consoleBuf.Len() > 0 {
			fmt.Fprint(os.Stdout, consoleBuf.String())
		}
	} else {
		summary, err = runner.Run(cmd.Context(), opts, paths)
	}
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "%d scripts: %d passed, %d failed, %d build failures (%d unknown, %d known issues)\n",
			summary.Scripts, summary.Passed, summary.Failed, summary.BuildFailed,
			summary.UnknownIssues, summary.KnownIssues)
	}

	if summary.ExitCode() != 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("run failed")
	}
	return nil
}

// resolveColor combines the --color flag with the manifest: an explicit
// flag wins, an "auto" flag defers to the manifest, and "auto" in both
// falls back to terminal detection.
func resolveColor(cmd *cobra.Command, cfg config.Config) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	effective := flag
	if effective == "auto" && cfg.Output.Color != "" {
		effective = cfg.Output.Color
	}
	switch effective {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return isTerminal(os.Stdout), nil
	}
}

func terminalWidth() int {
	if !isTerminal(os.Stdout) {
		return 0
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
