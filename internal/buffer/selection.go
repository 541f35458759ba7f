package buffer

import "github.com/bethropolis/tidecore/internal/types"

// The methods below carry the editor's selection into the undo history
// and hand back what undo/redo want restored.

// MarkSelectionBefore records the selection in effect before the next
// captured edit.
func (b *GapBuffer) MarkSelectionBefore(start, end int, isRange bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hist.MarkSelectionBefore(types.Selection{Start: start, End: end, IsRange: isRange})
}

// MarkSelectionAfter records the selection left by the latest captured edit.
func (b *GapBuffer) MarkSelectionAfter(start, end int, isRange bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hist.MarkSelectionAfter(types.Selection{Start: start, End: end, IsRange: isRange})
}

// LastUndoSelection is the selection to restore after the latest Undo.
func (b *GapBuffer) LastUndoSelection() types.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.LastUndoSelection()
}

// LastRedoSelection is the selection to restore after the latest Redo.
func (b *GapBuffer) LastRedoSelection() types.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.LastRedoSelection()
}

// CanUndo returns true if there are changes that can be undone.
func (b *GapBuffer) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.CanUndo()
}

// CanRedo returns true if there are changes that can be redone.
func (b *GapBuffer) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.CanRedo()
}

// Undo reverts the newest undo group and returns the caret offset to
// restore, or -1 if there is nothing to undo.
func (b *GapBuffer) Undo() int {
	pos := -1
	b.mutate(func() {
		pos = b.hist.Undo(editView{b})
	})
	return pos
}

// Redo re-applies the next undo group and returns the caret offset to
// restore, or -1 if there is nothing to redo.
func (b *GapBuffer) Redo() int {
	pos := -1
	b.mutate(func() {
		pos = b.hist.Redo(editView{b})
	})
	return pos
}

// BeginBatchEdit groups every captured edit until the matching
// EndBatchEdit into one undo step.
func (b *GapBuffer) BeginBatchEdit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hist.BeginBatchEdit()
}

// EndBatchEdit closes the batch opened by BeginBatchEdit.
func (b *GapBuffer) EndBatchEdit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hist.EndBatchEdit()
}

// ClearHistory forgets every undo and redo step.
func (b *GapBuffer) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hist.Clear()
}

// HistorySize reports how many actions are applied and stored in total.
func (b *GapBuffer) HistorySize() (applied, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hist.Top(), b.hist.Len()
}
