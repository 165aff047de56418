// Package cli holds the terminal helpers shared by the product_manager
// commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBold  = "\033[1m"
	colorGray  = "\033[90m"
)

var colorEnabled = IsTerminal(os.Stdout)

func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsInteractive reports whether r is a terminal a user can answer from.
func IsInteractive(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

func Green(s string) string { return paint(colorGreen, s) }
func Red(s string) string   { return paint(colorRed, s) }
func Bold(s string) string  { return paint(colorBold, s) }
func Gray(s string) string  { return paint(colorGray, s) }

// ErrorLine is how a failed command reports err on stderr.
func ErrorLine(err error) string {
	return Red("error:") + " " + err.Error()
}

// Table lays rows out in columns padded to the widest cell. Columns with a
// max width are cut with "...".
type Table struct {
	rows      [][]string
	widths    []int
	maxWidths map[int]int
}

func NewTable() *Table {
	return &Table{maxWidths: make(map[int]int)}
}

func (t *Table) SetMaxWidth(col, width int) {
	t.maxWidths[col] = width
}

func (t *Table) AddRow(cols ...string) {
	for len(t.widths) < len(cols) {
		t.widths = append(t.widths, 0)
	}
	for i, col := range cols {
		w := visibleWidth(col)
		if max, ok := t.maxWidths[i]; ok && w > max {
			w = max
		}
		if w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, cols)
}

// Render writes the rows separated by two spaces. The last column is not
// padded.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		parts := make([]string, 0, len(row))
		for i, col := range row {
			if max, ok := t.maxWidths[i]; ok {
				col = Truncate(col, max)
			}
			if i < len(row)-1 {
				col += strings.Repeat(" ", t.widths[i]-visibleWidth(col))
			}
			parts = append(parts, col)
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// Truncate shortens s to width visible characters, ending in "...". ANSI
// sequences are kept and closed with a reset.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if visibleWidth(s) <= width {
		return s
	}
	const ellipsis = "..."
	limit := width - len(ellipsis)
	suffix := ellipsis
	if limit < 0 {
		limit, suffix = width, ""
	}

	var b strings.Builder
	visible := 0
	inEscape, hasANSI := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, hasANSI = true, true
			b.WriteRune(r)
		case inEscape:
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
		case visible < limit:
			b.WriteRune(r)
			visible++
		}
	}
	b.WriteString(suffix)
	if hasANSI {
		b.WriteString(colorReset)
	}
	return b.String()
}

func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}
