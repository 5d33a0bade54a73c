package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"attest/internal/diag"
	"attest/internal/source"
)

// diagPrinter renders build-time diagnostics with a source excerpt.
type diagPrinter struct {
	out      io.Writer
	fs       *source.FileSet
	colorize bool
}

func newDiagPrinter(out io.Writer, fs *source.FileSet, colorize bool) *diagPrinter {
	return &diagPrinter{out: out, fs: fs, colorize: colorize}
}

// Report implements diag.Reporter.
func (p *diagPrinter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	p.print(diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

func (p *diagPrinter) printBag(bag *diag.Bag) {
	bag.Sort()
	for _, d := range bag.Items() {
		p.print(d)
	}
}

func (p *diagPrinter) print(d diag.Diagnostic) {
	head := fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
	fmt.Fprintln(p.out, p.style(d.Severity).Sprint(head))

	loc := p.fs.Locate(d.Primary)
	if loc.IsResolved() {
		fmt.Fprintf(p.out, "  --> %s\n", loc)
		if line := p.fs.Get(d.Primary.File).GetLine(loc.Line); line != "" {
			fmt.Fprintf(p.out, "   | %s\n", line)
			fmt.Fprintf(p.out, "   | %s^\n", strings.Repeat(" ", int(loc.Column)-1))
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintf(p.out, "  note: %s\n", note.Msg)
	}
}

func (p *diagPrinter) style(sev diag.Severity) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if !p.colorize {
		c.DisableColor()
	}
	return c
}
