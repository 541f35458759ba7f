// internal/types/selection.go
package types

// Selection is a caret or selected range expressed in logical rune offsets.
// Start is the anchor and End the moving end, so Start may be greater than End.
// IsRange is false for a plain caret (Start == End).
type Selection struct {
	Start   int
	End     int
	IsRange bool
}

// Caret returns a non-range selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Normalized returns the selection bounds with lo <= hi.
func (s Selection) Normalized() (lo, hi int) {
	if s.Start > s.End {
		return s.End, s.Start
	}
	return s.Start, s.End
}
