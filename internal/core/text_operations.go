package core

import (
	"unicode/utf8"

	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
)

// InsertText types text at the caret, replacing the selection if there is
// one. Each call is undone in one step; consecutive typing merges.
func (e *Editor) InsertText(text string) {
	if text == "" {
		return
	}
	buf := e.Buffer()
	e.markSelectionBefore(buf)

	start := e.caret
	if e.HasSelection() {
		lo, hi := e.Selection().Normalized()
		buf.Replace(lo, hi, text, true)
		start = lo
	} else {
		buf.Insert(start, text, true)
	}

	e.selecting = false
	e.moveCaret(start+utf8.RuneCountInString(text), false)
	e.anchor = e.caret
	e.markSelectionAfter(buf)
}

// InsertNewLine inserts a line break at the caret.
func (e *Editor) InsertNewLine() {
	e.InsertText("\n")
}

// InsertTab inserts a tab character at the caret.
func (e *Editor) InsertTab() {
	e.InsertText("\t")
}

// deleteSelection removes the selected text as one undo step.
func (e *Editor) deleteSelection() {
	buf := e.Buffer()
	lo, hi := e.Selection().Normalized()
	e.markSelectionBefore(buf)
	buf.Delete(lo, hi, true)
	e.selecting = false
	e.caret = lo // Already in range; moveCaret would report no movement.
	e.anchor = lo
	e.desiredCol = -1
	e.ScrollToCursor()
	e.markSelectionAfter(buf)
	e.doc.Events().Dispatch(event.TypeCursorMoved, event.CursorMovedData{Offset: lo})
}

// DeleteBackward removes the selection or the grapheme cluster before the
// caret. It reports whether anything was deleted.
func (e *Editor) DeleteBackward() bool {
	if e.HasSelection() {
		e.deleteSelection()
		return true
	}
	if e.caret == 0 {
		return false
	}
	buf := e.Buffer()
	start := e.prevBoundary(e.caret)
	e.markSelectionBefore(buf)
	buf.Delete(start, e.caret, true)
	e.moveCaret(start, false)
	e.markSelectionAfter(buf)
	return true
}

// DeleteForward removes the selection or the grapheme cluster after the caret.
func (e *Editor) DeleteForward() bool {
	if e.HasSelection() {
		e.deleteSelection()
		return true
	}
	buf := e.Buffer()
	if e.caret >= buf.Len() {
		return false
	}
	end := e.nextBoundary(e.caret)
	e.markSelectionBefore(buf)
	buf.Delete(e.caret, end, true)
	e.markSelectionAfter(buf)
	return true
}

// Undo reverts the latest undo group and restores the selection from before it.
func (e *Editor) Undo() bool {
	buf := e.Buffer()
	pos := buf.Undo()
	if pos < 0 {
		logger.Debugf("Editor: nothing to undo")
		return false
	}
	e.restoreSelection(buf.LastUndoSelection())
	e.doc.Events().Dispatch(event.TypeUndo, event.HistoryData{Caret: pos, Selection: e.Selection()})
	return true
}

// Redo re-applies the next undo group and restores the selection after it.
func (e *Editor) Redo() bool {
	buf := e.Buffer()
	pos := buf.Redo()
	if pos < 0 {
		logger.Debugf("Editor: nothing to redo")
		return false
	}
	e.restoreSelection(buf.LastRedoSelection())
	e.doc.Events().Dispatch(event.TypeRedo, event.HistoryData{Caret: pos, Selection: e.Selection()})
	return true
}
