package core

import (
	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// HasSelection returns true if a non-empty range is selected.
func (e *Editor) HasSelection() bool {
	return e.selecting && e.anchor != e.caret
}

// Selection returns the anchor/caret pair, or a plain caret when nothing
// is selected.
func (e *Editor) Selection() types.Selection {
	if !e.HasSelection() {
		return types.Caret(e.caret)
	}
	return types.Selection{Start: e.anchor, End: e.caret, IsRange: true}
}

// ClearSelection resets the selection state.
func (e *Editor) ClearSelection() {
	if e.selecting {
		logger.Debugf("Editor: Selection cleared")
	}
	e.selecting = false
	e.anchor = e.caret
}

// startOrUpdateSelection anchors a selection at the caret before a
// selecting move, or drops it before a plain one.
func (e *Editor) startOrUpdateSelection(extend bool) {
	if !extend {
		e.ClearSelection()
		return
	}
	if !e.selecting {
		e.anchor = e.caret
		e.selecting = true
		logger.Debugf("Editor: Selection started at %d", e.anchor)
	}
}

// SelectTo extends the selection from the current anchor (or caret) to offset.
func (e *Editor) SelectTo(offset int) {
	e.startOrUpdateSelection(true)
	e.moveCaret(offset, false)
}

// SelectAll selects the whole text.
func (e *Editor) SelectAll() {
	e.ClearSelection()
	e.moveCaret(0, false)
	e.SelectTo(e.Buffer().Len())
}

// SelectedText returns the selected text, or "" without a selection.
func (e *Editor) SelectedText() string {
	if !e.HasSelection() {
		return ""
	}
	lo, hi := e.Selection().Normalized()
	return e.Buffer().Substring(lo, hi)
}

// restoreSelection applies a selection reported by undo or redo.
func (e *Editor) restoreSelection(sel types.Selection) {
	n := e.Buffer().Len()
	e.anchor = max(0, min(sel.Start, n))
	e.selecting = sel.IsRange
	e.moveCaret(sel.End, false)
	if !e.selecting {
		e.anchor = e.caret
	}
}

func (e *Editor) markSelectionBefore(buf *buffer.GapBuffer) {
	sel := e.Selection()
	buf.MarkSelectionBefore(sel.Start, sel.End, sel.IsRange)
}

func (e *Editor) markSelectionAfter(buf *buffer.GapBuffer) {
	sel := e.Selection()
	buf.MarkSelectionAfter(sel.Start, sel.End, sel.IsRange)
}
