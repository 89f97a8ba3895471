// Package diag renders ast.AuditRecord diagnostics as human-readable
// text: position, the offending source line, a caret under the column,
// and the expected/got/hint trio spec.md §7 requires ("use `::` not
// `:`" rather than "syntax error"). Color is applied only when the
// output stream is a real terminal.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/elevanaltd/octave/ast"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
)

// Render formats one diagnostic against src, the full source text the
// diagnostic's position refers to. color controls whether ANSI escapes
// are emitted; callers typically pass IsColorTerminal(w) for a writer
// they're about to print to.
func Render(src string, r ast.AuditRecord, color bool) string {
	var b strings.Builder

	severity := "warning"
	sevColor := ansiYellow
	if r.Severity == ast.SeverityError {
		severity = "error"
		sevColor = ansiRed
	}

	fmt.Fprintf(&b, "%s: %s: %s\n", paint(color, sevColor+ansiBold, severity), string(r.Code), r.Message)
	fmt.Fprintf(&b, "  %s %d:%d\n", paint(color, ansiDim, "-->"), r.Pos.Line, r.Pos.Column)

	if line, ok := sourceLine(src, r.Pos.Line); ok {
		fmt.Fprintf(&b, "   %s\n", line)
		fmt.Fprintf(&b, "   %s%s\n", strings.Repeat(" ", max(r.Pos.Column-1, 0)), paint(color, sevColor, "^"))
	}

	if r.Expected != "" || r.Got != "" {
		fmt.Fprintf(&b, "   expected %s, got %s\n", r.Expected, r.Got)
	}
	if r.Hint != "" {
		fmt.Fprintf(&b, "   %s: %s\n", paint(color, ansiDim, "hint"), r.Hint)
	}

	return b.String()
}

// RenderAll formats every diagnostic in diags, in order, separated by a
// blank line.
func RenderAll(src string, diags ast.Diagnostics, color bool) string {
	parts := make([]string, len(diags))
	for i, r := range diags {
		parts[i] = Render(src, r, color)
	}
	return strings.Join(parts, "\n")
}

// IsColorTerminal reports whether w is a real terminal, so a caller
// piping diagnostics to a file or another process gets plain text
// instead of escape codes.
func IsColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func sourceLine(src string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + ansiReset
}
