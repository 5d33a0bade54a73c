package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"attest/internal/check"
	"attest/internal/locked"
	"attest/internal/runner"
	"attest/internal/ui"
)

type runOutcome struct {
	summary runner.Summary
	err     error
}

// runWithUI executes the run while a Bubble Tea model renders per-script
// progress. Events flow from the runner's handler into the model's
// channel; the channel closes when the run finishes, which quits the UI.
func runWithUI(ctx context.Context, title string, paths []string, opts runner.Options) (runner.Summary, error) {
	events := make(chan ui.ScriptEvent, 256)
	outcomeCh := make(chan runOutcome, 1)

	bridge := newUIBridge(events, opts.Handler)
	optsCopy := opts
	optsCopy.Handler = bridge.handle

	go func() {
		sum, err := runner.Run(ctx, optsCopy, paths)
		outcomeCh <- runOutcome{summary: sum, err: err}
		close(events)
	}()

	model := ui.NewRunModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}

// uiBridge translates run events into script status updates, tallying
// issues per script so scriptEnded can pick the final status.
type uiBridge struct {
	ch     chan<- ui.ScriptEvent
	next   check.EventHandler
	counts locked.Value[map[string][2]int] // script -> unknown, known
}

func newUIBridge(ch chan<- ui.ScriptEvent, next check.EventHandler) *uiBridge {
	return &uiBridge{
		ch:     ch,
		next:   next,
		counts: locked.New(map[string][2]int{}),
	}
}

func (b *uiBridge) handle(ev check.Event, ec check.EventContext) {
	switch ev.Kind {
	case check.EventScriptStarted:
		b.ch <- ui.ScriptEvent{Path: ec.Script, Status: ui.StatusRunning}

	case check.EventIssueRecorded:
		if ev.Issue != nil && ec.Script != "" {
			b.counts.WithLock(func(m *map[string][2]int) {
				n := (*m)[ec.Script]
				if ev.Issue.IsKnown {
					n[1]++
				} else {
					n[0]++
				}
				(*m)[ec.Script] = n
			})
		}

	case check.EventScriptEnded:
		var n [2]int
		b.counts.WithLock(func(m *map[string][2]int) {
			n = (*m)[ec.Script]
		})
		status := ui.StatusPassed
		switch {
		case n[0] > 0:
			status = ui.StatusFailed
		case n[1] > 0:
			status = ui.StatusKnown
		}
		b.ch <- ui.ScriptEvent{Path: ec.Script, Status: status}
	}

	if b.next != nil {
		b.next(ev, ec)
	}
}
