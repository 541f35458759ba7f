package core

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// WordBeforeCursor returns the word that ends exactly at the caret, or ""
// when the caret follows a space or punctuation.
func (e *Editor) WordBeforeCursor() string {
	buf := e.Buffer()
	line, _ := e.CursorLineCol()
	start, err := buf.LineOffset(line)
	if err != nil {
		return ""
	}

	var last string
	state := -1
	rest := buf.Substring(start, e.caret)
	for len(rest) > 0 {
		last, rest, state = uniseg.FirstWordInString(rest, state)
	}
	for _, r := range last {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return last
		}
	}
	return ""
}
