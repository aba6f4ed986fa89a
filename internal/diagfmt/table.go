package diagfmt

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lumen/internal/source"
	"lumen/internal/symbols"
	"lumen/internal/types"
)

// SymbolTable prints the type registry, the globals and every scope table
// of t as aligned columns. Names are resolved through in.
func SymbolTable(w io.Writer, t symbols.Tables, in *source.Interner, opts TableOpts) {
	header := color.New(color.Bold)
	if opts.Color {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	typeRows := make([][]string, 0, len(t.Types))
	for _, name := range slices.Sorted(maps.Keys(t.Types)) {
		typeRows = append(typeRows, []string{in.Display(name), types.Label(t.Types[name], in)})
	}
	writeSection(w, header.Sprint("types"), []string{"NAME", "TYPE"}, typeRows)

	writeSection(w, header.Sprint("globals"), bindingHeader, bindingRows(t.Globals, in))

	scopes := t.ScopeIDs()
	if opts.Scopes != nil {
		scopes = slices.DeleteFunc(scopes, func(id symbols.ScopeID) bool {
			return !slices.Contains(opts.Scopes, id)
		})
	}
	for _, id := range scopes {
		writeSection(w, header.Sprintf("scope %d", id), bindingHeader, bindingRows(t.Scopes[id], in))
	}
}

var bindingHeader = []string{"NAME", "TYPE", "SCOPE", "DEPTH"}

func bindingRows(table map[source.StringID]symbols.SymbolCtx, in *source.Interner) [][]string {
	names := symbols.Names(table)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		sym := table[name]
		rows = append(rows, []string{
			in.Display(name),
			types.Label(sym.Typ, in),
			strconv.FormatUint(uint64(sym.Scope), 10),
			strconv.FormatUint(uint64(sym.Depth), 10),
		})
	}
	return rows
}

func writeSection(w io.Writer, title string, head []string, rows [][]string) {
	fmt.Fprintln(w, title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	writeRow(w, head, widths)
	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	b.WriteString("  ")
	for i, cell := range cells {
		if i == len(cells)-1 {
			b.WriteString(cell)
			break
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString("  ")
	}
	fmt.Fprintln(w, b.String())
}
