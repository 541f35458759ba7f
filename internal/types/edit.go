package types

// EditKind tells listeners whether an edit added or removed text.
type EditKind int

const (
	EditInsert EditKind = iota
	EditDelete
)

// EditInfo describes one primitive change applied to a buffer.
// Offsets are logical rune offsets in the text before the change
// (Start/OldEnd) and after it (Start/NewEnd).
type EditInfo struct {
	Kind    EditKind
	Start   int
	OldEnd  int
	NewEnd  int
	Version uint64 // Buffer version after the edit
}
