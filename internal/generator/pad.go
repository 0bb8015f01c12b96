package generator

import (
	"strings"
	"unicode/utf8"
)

// Pad returns the spaces needed to move from actualWidth to maxWidth,
// never fewer than one.
func Pad(maxWidth, actualWidth int) string {
	n := maxWidth - actualWidth
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

// columns holds the alignment widths of one model block. Field and relation
// names share a column, as do field types and relation target types.
type columns struct {
	name int
	typ  int
}

func (c columns) line(name, typ, annotations string) string {
	line := "  " + name + Pad(c.name+1, width(name)) + typ
	if annotations == "" {
		return line
	}
	return line + Pad(c.typ+1, width(typ)) + annotations
}

// width counts characters, not bytes, so non-ASCII names stay aligned
func width(s string) int {
	return utf8.RuneCountInString(s)
}
