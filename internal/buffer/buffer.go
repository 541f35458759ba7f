// internal/buffer/buffer.go
package buffer

import "errors"

// NoChar is returned by CharAt for offsets outside the text.
const NoChar rune = -1

// ErrLineOutOfRange is returned by line-indexed reads for lines that do not exist.
var ErrLineOutOfRange = errors.New("line out of range")

// Reader is the read-only view of a buffer. Renderers, highlighters and
// indexers get a Reader and never a writable buffer.
// Lines are 1-based; offsets are logical rune offsets.
type Reader interface {
	CharAt(offset int) rune
	Substring(start, end int) string
	String() string
	Len() int
	LineCount() int
	Line(line int) (string, error)
	LineOffset(line int) (int, error)
	LineLength(line int) (int, error)
	FindLineNumber(offset int) int
	Version() uint64
}

// Ensure GapBuffer satisfies the Reader interface
var _ Reader = (*GapBuffer)(nil)
