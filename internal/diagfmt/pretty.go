package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lumen/internal/diag"
	"lumen/internal/source"
)

type palette struct {
	err, warn, info, code, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		note:   color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes bag in a human readable form. Items are printed in bag
// order; call bag.Sort() first for positional order. Each diagnostic is
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// optionally followed by the input line with a caret and by its notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(d.Primary, fs, opts.PathMode),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if opts.ShowSource {
			writeSourceLine(w, d.Primary, fs, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if n.Span.IsKnown() {
				fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
			} else {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			}
		}
	}
	writeSummary(w, bag, p)
}

func writeSummary(w io.Writer, bag *diag.Bag, p palette) {
	errs, warns := bag.Count(diag.SevError), bag.Count(diag.SevWarning)
	if errs == 0 && warns == 0 && bag.Dropped() == 0 {
		return
	}
	parts := make([]string, 0, 3)
	if errs > 0 {
		parts = append(parts, p.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, p.warn.Sprint(plural(warns, "warning")))
	}
	if n := bag.Dropped(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d more not shown", n))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func writeSourceLine(w io.Writer, sp source.Span, fs *source.FileSet, p palette) {
	if fs == nil || !sp.IsKnown() {
		return
	}
	line := fs.Get(sp.File).Line(sp.Line)
	if line == "" {
		return
	}
	num := fmt.Sprintf("%d", sp.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)

	runes := []rune(line)
	col := int(sp.Col)
	if col < 1 {
		col = 1
	}
	if col-1 > len(runes) {
		col = len(runes) + 1
	}
	indent := strings.Repeat(" ", runewidth.StringWidth(string(runes[:col-1])))
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), indent, p.caret.Sprint("^"))
}

func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	path := "<unknown>"
	if fs != nil {
		path = formatPath(fs.Path(sp.File), mode)
	}
	if !sp.IsKnown() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, sp.Line, sp.Col)
}

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
