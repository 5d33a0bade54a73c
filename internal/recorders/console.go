// Package recorders contains the event consumers installed as a run's
// event handler: a human-oriented console recorder and a machine-
// oriented binary stream recorder.
package recorders

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"attest/internal/check"
	"attest/internal/locked"
)

// Recorder consumes published events. Record is called synchronously
// from arbitrary goroutines; implementations own their serialization.
type Recorder interface {
	Record(ev check.Event, ec check.EventContext)
}

// Handler adapts a recorder into an event handler.
func Handler(r Recorder) check.EventHandler {
	return r.Record
}

// FanOut builds a handler that forwards every event to all recorders in
// order.
func FanOut(recorders ...Recorder) check.EventHandler {
	return func(ev check.Event, ec check.EventContext) {
		for _, r := range recorders {
			r.Record(ev, ec)
		}
	}
}

// Console renders events as styled text. Output goes through a locked
// writer so concurrent scripts never interleave mid-line.
type Console struct {
	w     locked.Value[io.Writer]
	width int

	failStyle    *color.Color
	knownStyle   *color.Color
	scriptStyle  *color.Color
	commentStyle *color.Color
	tagStyles    map[string]*color.Color
}

// tagColorAttrs maps the manifest's [tags] color names to attributes.
// The set mirrors what config validation accepts.
var tagColorAttrs = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

// NewConsole creates a console recorder. width bounds rendered source
// lines (0 disables truncation); colorize toggles ANSI styling; tags
// maps comment tag names to color names (the manifest's [tags] table).
func NewConsole(w io.Writer, width int, colorize bool, tags map[string]string) *Console {
	c := &Console{
		w:            locked.New(w),
		width:        width,
		failStyle:    color.New(color.FgRed, color.Bold),
		knownStyle:   color.New(color.Faint),
		scriptStyle:  color.New(color.FgCyan),
		commentStyle: color.New(color.FgYellow),
		tagStyles:    make(map[string]*color.Color, len(tags)),
	}
	for tag, name := range tags {
		attr, ok := tagColorAttrs[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue // config validation rejects unknown color names
		}
		c.tagStyles[strings.ToLower(tag)] = color.New(attr)
	}

	styles := []*color.Color{c.failStyle, c.knownStyle, c.scriptStyle, c.commentStyle}
	for _, s := range c.tagStyles {
		styles = append(styles, s)
	}
	for _, s := range styles {
		if colorize {
			s.EnableColor()
		} else {
			s.DisableColor()
		}
	}
	return c
}

func (c *Console) Record(ev check.Event, ec check.EventContext) {
	c.w.WithLock(func(w *io.Writer) {
		switch ev.Kind {
		case check.EventScriptStarted:
			fmt.Fprintf(*w, "%s %s\n", c.scriptStyle.Sprint("▸"), ec.Script)
		case check.EventIssueRecorded:
			if ev.Issue != nil {
				c.writeIssue(*w, ev.Issue, ec)
			}
		}
	})
}

func (c *Console) writeIssue(w io.Writer, issue *check.Issue, ec check.EventContext) {
	loc := issue.SourceContext.SourceLocation
	where := ec.Script
	if loc.IsResolved() {
		where = loc.String()
	}

	if issue.IsKnown {
		fmt.Fprintf(w, "%s\n", c.knownStyle.Sprintf("known issue  %s  %s", where, issue.Kind))
	} else {
		fmt.Fprintf(w, "%s  %s  %s\n", c.failStyle.Sprint("FAIL"), where, issue.Kind)
	}

	if issue.SourceCode != "" {
		fmt.Fprintf(w, "      %s\n", c.truncate(issue.SourceCode))
	}
	if issue.Err != nil {
		fmt.Fprintf(w, "      error: %s\n", c.truncate(issue.Err.Error()))
	}
	for _, comment := range issue.Comments {
		fmt.Fprintf(w, "      %s\n", c.commentColor(comment).Sprint("// "+comment))
	}
}

// commentColor picks the style for one issue comment: a comment whose
// leading word is a configured tag renders in that tag's color.
func (c *Console) commentColor(comment string) *color.Color {
	head := comment
	if i := strings.IndexAny(head, ": \t"); i >= 0 {
		head = head[:i]
	}
	if s, ok := c.tagStyles[strings.ToLower(head)]; ok {
		return s
	}
	return c.commentStyle
}

// truncate bounds a line to the configured display width, measured in
// terminal cells rather than bytes.
func (c *Console) truncate(line string) string {
	line = strings.ReplaceAll(line, "\n", " ")
	if c.width <= 0 || runewidth.StringWidth(line) <= c.width {
		return line
	}
	if c.width <= 3 {
		return runewidth.Truncate(line, c.width, "")
	}
	return runewidth.Truncate(line, c.width-3, "...")
}
