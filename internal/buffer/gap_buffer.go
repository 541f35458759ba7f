// internal/buffer/gap_buffer.go
package buffer

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/bethropolis/tidecore/internal/core/history"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

const (
	minCapacity        = 16
	largeInsert        = 512 * 1024 // Insertions above this grow linearly
	largeGrowIncrement = 131072
	shrinkFloor        = 4096 // Capacities at or below this are never shrunk
)

// GapBuffer stores text as runes in one array with a movable gap at the
// edit point. It owns a single-slot line cache and the undo history.
//
// Every method takes the buffer lock, so read-only collaborators may call
// CharAt, Substring or String from other goroutines while the owner edits.
type GapBuffer struct {
	mu sync.Mutex

	data     []rune
	gapStart int
	gapEnd   int

	lineCount int
	cache     lineCache
	hist      *history.History

	initialGap int
	clock      func() time.Time
	version    uint64

	onEdit  func(types.EditInfo)
	pending []types.EditInfo
}

// New creates an empty buffer.
func New(opts ...Option) *GapBuffer {
	b := &GapBuffer{
		lineCount:  1,
		cache:      newLineCache(),
		hist:       history.NewHistory(),
		initialGap: minCapacity,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.data = make([]rune, b.initialGap)
	b.gapEnd = len(b.data)
	return b
}

// NewFromString creates a buffer holding s with an empty history.
func NewFromString(s string, opts ...Option) *GapBuffer {
	b := New(opts...)
	rs := []rune(s)
	if len(rs) == 0 {
		return b
	}
	b.data = make([]rune, len(rs)+b.initialGap)
	copy(b.data, rs)
	b.gapStart = len(rs)
	b.gapEnd = len(b.data)
	b.lineCount = countNewlines(rs) + 1
	return b
}

// NewFromReader reads r to the end into a new buffer.
func NewFromReader(r io.Reader, opts ...Option) (*GapBuffer, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read buffer content: %w", err)
	}
	return NewFromString(string(content), opts...), nil
}

func countNewlines(rs []rune) int {
	n := 0
	for _, r := range rs {
		if r == '\n' {
			n++
		}
	}
	return n
}

// --- Read access ---

func (b *GapBuffer) length() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

// at maps a logical offset to its character; off must be in [0, length).
func (b *GapBuffer) at(off int) rune {
	if off < b.gapStart {
		return b.data[off]
	}
	return b.data[off+b.gapEnd-b.gapStart]
}

func (b *GapBuffer) substring(start, end int) string {
	start = max(start, 0)
	end = min(end, b.length())
	if start >= end {
		return ""
	}
	if end <= b.gapStart {
		return string(b.data[start:end])
	}
	gap := b.gapEnd - b.gapStart
	if start >= b.gapStart {
		return string(b.data[start+gap : end+gap])
	}
	out := make([]rune, 0, end-start)
	out = append(out, b.data[start:b.gapStart]...)
	out = append(out, b.data[b.gapEnd:end+gap]...)
	return string(out)
}

// Len returns the number of characters in the buffer.
func (b *GapBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.length()
}

// CharAt returns the character at offset, or NoChar outside [0, Len).
func (b *GapBuffer) CharAt(offset int) rune {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset >= b.length() {
		return NoChar
	}
	return b.at(offset)
}

// Substring returns the text in [start, end) after clamping both ends to
// the buffer. An empty or inverted range yields "".
func (b *GapBuffer) Substring(start, end int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.substring(start, end)
}

// String returns the whole text.
func (b *GapBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.substring(0, b.length())
}

// Version increases by one with every primitive change, including undo and redo.
func (b *GapBuffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Capacity is the size of the backing array, gap included.
func (b *GapBuffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// GapSize is the number of free slots in the gap.
func (b *GapBuffer) GapSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gapEnd - b.gapStart
}

// --- Mutation ---

// mutate runs fn under the lock and delivers the resulting edit
// notifications once the lock is released, so hooks may read the buffer.
func (b *GapBuffer) mutate(fn func()) {
	edits, hook := b.locked(fn)
	if hook == nil {
		return
	}
	for _, e := range edits {
		hook(e)
	}
}

func (b *GapBuffer) locked(fn func()) ([]types.EditInfo, func(types.EditInfo)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
	edits := b.pending
	b.pending = nil
	return edits, b.onEdit
}

func (b *GapBuffer) notify(e types.EditInfo) {
	b.version++
	e.Version = b.version
	if b.onEdit != nil {
		b.pending = append(b.pending, e)
	}
}

func (b *GapBuffer) checkInsert(offset int) {
	if offset < 0 || offset > b.length() {
		panic(fmt.Sprintf("buffer: insert offset %d out of range [0,%d]", offset, b.length()))
	}
}

func (b *GapBuffer) checkRange(start, end int) {
	if start < 0 || end > b.length() || start > end {
		panic(fmt.Sprintf("buffer: invalid range [%d,%d) for length %d", start, end, b.length()))
	}
}

// Insert inserts text at offset. With capture set the edit is recorded in
// the undo history, possibly merged into the previous insert.
// It panics if offset is outside [0, Len].
func (b *GapBuffer) Insert(offset int, text string, capture bool) *GapBuffer {
	return b.InsertAt(offset, text, capture, b.clock())
}

// InsertAt is Insert with an explicit timestamp for merge decisions.
func (b *GapBuffer) InsertAt(offset int, text string, capture bool, ts time.Time) *GapBuffer {
	b.mutate(func() {
		b.insertCaptured(offset, []rune(text), capture, ts)
	})
	return b
}

func (b *GapBuffer) insertCaptured(offset int, rs []rune, capture bool, ts time.Time) {
	b.checkInsert(offset)
	if len(rs) == 0 {
		return
	}
	if capture {
		b.hist.CaptureInsert(offset, offset+len(rs), ts, editView{b})
	} else {
		b.hist.Seal(editView{b})
	}
	b.insertRunes(offset, rs)
}

// Delete removes [start, end). With capture set the edit is recorded in
// the undo history, possibly merged into the previous delete.
// It panics on a range outside the buffer.
func (b *GapBuffer) Delete(start, end int, capture bool) *GapBuffer {
	return b.DeleteAt(start, end, capture, b.clock())
}

// DeleteAt is Delete with an explicit timestamp for merge decisions.
func (b *GapBuffer) DeleteAt(start, end int, capture bool, ts time.Time) *GapBuffer {
	b.mutate(func() {
		b.deleteCaptured(start, end, capture, ts)
	})
	return b
}

func (b *GapBuffer) deleteCaptured(start, end int, capture bool, ts time.Time) {
	b.checkRange(start, end)
	if start == end {
		return
	}
	if capture {
		b.hist.CaptureDelete(start, end, ts, editView{b})
	} else {
		b.hist.Seal(editView{b})
	}
	b.deleteRange(start, end)
}

// Replace swaps [start, end) for text. When captured, the delete and the
// insert always form a single undo step.
func (b *GapBuffer) Replace(start, end int, text string, capture bool) *GapBuffer {
	ts := b.clock()
	b.mutate(func() {
		b.checkRange(start, end)
		if capture {
			b.hist.BeginBatchEdit()
			defer b.hist.EndBatchEdit()
		}
		b.deleteCaptured(start, end, capture, ts)
		b.insertCaptured(start, []rune(text), capture, ts)
	})
	return b
}

func (b *GapBuffer) moveGap(offset int) {
	switch {
	case offset < b.gapStart:
		n := b.gapStart - offset
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[offset:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	case offset > b.gapStart:
		n := offset - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// grow reallocates so that n characters fit with at least one slot to spare.
func (b *GapBuffer) grow(n int) {
	if n < b.gapEnd-b.gapStart {
		return
	}
	length := b.length()
	var newCap int
	if n > largeInsert {
		newCap = len(b.data) + largeGrowIncrement + n
	} else {
		newCap = max(minCapacity, len(b.data)*2+2)
		for newCap-length <= n {
			newCap = newCap*2 + 2
		}
	}
	b.resize(newCap)
	logger.DebugTagf("buffer", "Buffer: grew to %d (length %d, inserting %d)", newCap, length, n)
}

// resize moves the text into a new array of newCap, keeping the gap at
// the same logical position.
func (b *GapBuffer) resize(newCap int) {
	tail := len(b.data) - b.gapEnd
	data := make([]rune, newCap)
	copy(data, b.data[:b.gapStart])
	copy(data[newCap-tail:], b.data[b.gapEnd:])
	b.data = data
	b.gapEnd = newCap - tail
	b.cache.invalidate(0)
}

// shrink releases memory after large deletions.
func (b *GapBuffer) shrink() {
	length := b.length()
	if len(b.data) <= shrinkFloor || b.gapEnd-b.gapStart <= 2*length {
		return
	}
	// The pending delete's text lives in the gap and is about to go.
	b.hist.Seal(editView{b})
	newCap := length + max(b.initialGap, length)
	b.resize(newCap)
	logger.DebugTagf("buffer", "Buffer: shrank to %d (length %d)", newCap, length)
}

func (b *GapBuffer) insertRunes(offset int, rs []rune) {
	b.checkInsert(offset)
	if len(rs) == 0 {
		return
	}
	b.moveGap(offset)
	b.grow(len(rs))
	copy(b.data[b.gapStart:], rs)
	b.gapStart += len(rs)
	b.lineCount += countNewlines(rs)
	b.cache.invalidate(offset)
	b.assertGap()
	b.notify(types.EditInfo{Kind: types.EditInsert, Start: offset, OldEnd: offset, NewEnd: offset + len(rs)})
}

func (b *GapBuffer) deleteRange(start, end int) {
	b.checkRange(start, end)
	if start == end {
		return
	}
	b.moveGap(end)
	b.lineCount -= countNewlines(b.data[start:end])
	b.gapStart = start
	b.cache.invalidate(start)
	b.notify(types.EditInfo{Kind: types.EditDelete, Start: start, OldEnd: end, NewEnd: start})
	b.shrink()
	b.assertGap()
}

// shiftGapStart hides the delta characters before the gap (delta < 0) or
// re-exposes the first delta characters inside it (delta > 0).
func (b *GapBuffer) shiftGapStart(delta int) {
	switch {
	case delta < 0:
		n := -delta
		if n > b.gapStart {
			panic(fmt.Sprintf("buffer: gap shift %d past start (gap at %d)", delta, b.gapStart))
		}
		b.lineCount -= countNewlines(b.data[b.gapStart-n : b.gapStart])
		b.gapStart -= n
		b.cache.invalidate(b.gapStart)
		b.notify(types.EditInfo{Kind: types.EditDelete, Start: b.gapStart, OldEnd: b.gapStart + n, NewEnd: b.gapStart})
	case delta > 0:
		if b.gapStart+delta >= b.gapEnd {
			panic(fmt.Sprintf("buffer: gap shift %d would close the gap [%d,%d)", delta, b.gapStart, b.gapEnd))
		}
		start := b.gapStart
		b.lineCount += countNewlines(b.data[start : start+delta])
		b.gapStart += delta
		b.cache.invalidate(start)
		b.notify(types.EditInfo{Kind: types.EditInsert, Start: start, OldEnd: start, NewEnd: start + delta})
	}
	b.assertGap()
}

// assertGap enforces the pointer invariants that every edit must keep.
func (b *GapBuffer) assertGap() {
	if b.gapStart < 0 || b.gapStart >= b.gapEnd || b.gapEnd > len(b.data) {
		panic(fmt.Sprintf("buffer: corrupt gap [%d,%d) in capacity %d", b.gapStart, b.gapEnd, len(b.data)))
	}
	if debugInvariants {
		b.verify()
	}
}

// verify runs the full consistency scan used by debug builds.
func (b *GapBuffer) verify() {
	lines := countNewlines(b.data[:b.gapStart]) + countNewlines(b.data[b.gapEnd:]) + 1
	if lines != b.lineCount {
		panic(fmt.Sprintf("buffer: line count %d, content has %d", b.lineCount, lines))
	}
	if b.cache.offset > b.length() || (b.cache.offset > 0 && b.at(b.cache.offset-1) != '\n') {
		panic(fmt.Sprintf("buffer: stale line cache (%d,%d)", b.cache.line, b.cache.offset))
	}
}

// --- Scanning helpers (lock held) ---

// indexNewline returns the offset of the first '\n' at or after from, or -1.
func (b *GapBuffer) indexNewline(from int) int {
	if from < b.gapStart {
		if i := slices.Index(b.data[from:b.gapStart], '\n'); i >= 0 {
			return from + i
		}
		from = b.gapStart
	}
	gap := b.gapEnd - b.gapStart
	if i := slices.Index(b.data[from+gap:], '\n'); i >= 0 {
		return from + i
	}
	return -1
}

// lastIndexNewline returns the offset of the last '\n' before offset before, or -1.
func (b *GapBuffer) lastIndexNewline(before int) int {
	gap := b.gapEnd - b.gapStart
	if before > b.gapStart {
		for i := before + gap - 1; i >= b.gapEnd; i-- {
			if b.data[i] == '\n' {
				return i - gap
			}
		}
		before = b.gapStart
	}
	for i := before - 1; i >= 0; i-- {
		if b.data[i] == '\n' {
			return i
		}
	}
	return -1
}

// editView exposes the lock-free primitives to the history.
type editView struct {
	b *GapBuffer
}

func (v editView) Substring(start, end int) string { return v.b.substring(start, end) }
func (v editView) GapStart() int                   { return v.b.gapStart }
func (v editView) ShiftGapStart(delta int)         { v.b.shiftGapStart(delta) }
func (v editView) Insert(offset int, text string)  { v.b.insertRunes(offset, []rune(text)) }
func (v editView) Delete(start, end int)           { v.b.deleteRange(start, end) }

func (v editView) GapSubstring(n int) string {
	b := v.b
	if n < 0 || b.gapStart+n > b.gapEnd {
		panic(fmt.Sprintf("buffer: gap read of %d exceeds gap [%d,%d)", n, b.gapStart, b.gapEnd))
	}
	return string(b.data[b.gapStart : b.gapStart+n])
}
