package history

import (
	"time"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

const (
	DefaultMergeWindow  = 750 * time.Millisecond
	DefaultMaxMergeSize = 4096
	DefaultMaxHistory   = 1000
)

// History is a linear undo log with a movable top. Pushing after an undo
// discards the redo tail.
//
// History has no lock of its own: it is owned by a buffer and only touched
// while that buffer's lock is held.
type History struct {
	actions []*Action
	top     int // actions[:top] are applied, actions[top:] can be redone

	group      int
	batchDepth int

	mergeWindow  time.Duration
	maxMergeSize int
	maxHistory   int // 0 keeps every action

	selBefore    types.Selection
	hasSelBefore bool

	lastUndoSel types.Selection
	lastRedoSel types.Selection
}

// NewHistory creates an empty history with default limits.
func NewHistory() *History {
	return &History{
		mergeWindow:  DefaultMergeWindow,
		maxMergeSize: DefaultMaxMergeSize,
		maxHistory:   DefaultMaxHistory,
	}
}

// SetMergeWindow sets the longest pause between two adjacent edits that
// still folds them into one action. Zero disables merging.
func (h *History) SetMergeWindow(d time.Duration) {
	if d < 0 {
		d = 0
	}
	h.mergeWindow = d
}

// SetMaxMergeSize caps how many characters one merged action may cover.
func (h *History) SetMaxMergeSize(n int) {
	if n < 0 {
		n = 0
	}
	h.maxMergeSize = n
}

// SetMaxHistory bounds the number of stored actions; 0 means unbounded.
// Oldest groups are dropped whole.
func (h *History) SetMaxHistory(n int) {
	if n < 0 {
		n = 0
	}
	h.maxHistory = n
	h.trim()
}

// CaptureInsert records that [start,end) is about to be inserted.
func (h *History) CaptureInsert(start, end int, ts time.Time, e Editable) {
	h.capture(InsertAction, start, end, ts, e)
}

// CaptureDelete records that [start,end) is about to be deleted.
func (h *History) CaptureDelete(start, end int, ts time.Time, e Editable) {
	h.capture(DeleteAction, start, end, ts, e)
}

func (h *History) capture(typ ActionType, start, end int, ts time.Time, e Editable) {
	if h.top > 0 && h.top == len(h.actions) {
		last := h.actions[h.top-1]
		// Inside a batch only actions of the batch's own group may grow.
		if (h.batchDepth == 0 || last.Group == h.group) &&
			mergeAction(last, typ, start, end, ts, h.mergeWindow, h.maxMergeSize) {
			h.hasSelBefore = false
			logger.DebugTagf("history", "History: merged %s [%d,%d) into %v", typ, start, end, last)
			return
		}
	}

	h.Seal(e)
	if h.top < len(h.actions) {
		for i := h.top; i < len(h.actions); i++ {
			h.actions[i] = nil
		}
		h.actions = h.actions[:h.top]
	}

	a := &Action{
		Type:  typ,
		Start: start,
		End:   end,
		Group: h.group,
		Time:  ts,
	}
	if h.hasSelBefore {
		a.SelBefore, a.hasSelBefore = h.selBefore, true
		h.hasSelBefore = false
	}
	h.actions = append(h.actions, a)
	h.top = len(h.actions)
	if h.batchDepth == 0 {
		h.group++
	}
	logger.DebugTagf("history", "History: pushed %v. Top: %d", a, h.top)

	h.trim()
}

// Seal records the text of the newest applied action so it survives the
// gap being moved. The buffer calls it before any change that is not
// itself captured.
func (h *History) Seal(e Editable) {
	if h.top == 0 {
		return
	}
	recordData(h.actions[h.top-1], e)
}

// trim drops the oldest whole groups once maxHistory is exceeded. The
// newest group is never dropped.
func (h *History) trim() {
	if h.maxHistory == 0 || len(h.actions) <= h.maxHistory {
		return
	}
	cut := len(h.actions) - h.maxHistory
	for cut < len(h.actions) && h.actions[cut].Group == h.actions[cut-1].Group {
		cut++
	}
	if cut >= len(h.actions) || cut > h.top {
		return
	}
	kept := make([]*Action, len(h.actions)-cut, max(h.maxHistory, len(h.actions)-cut))
	copy(kept, h.actions[cut:])
	h.actions = kept
	h.top -= cut
	logger.DebugTagf("history", "History: dropped %d oldest actions", cut)
}

// BeginBatchEdit starts grouping every captured edit into one undo step.
// Calls nest; the group closes when the outermost EndBatchEdit runs.
func (h *History) BeginBatchEdit() {
	if h.batchDepth == 0 {
		// Keep the batch apart from whatever the previous edit left open.
		if h.top > 0 && h.actions[h.top-1].Group == h.group {
			h.group++
		}
	}
	h.batchDepth++
}

// EndBatchEdit closes the innermost batch.
func (h *History) EndBatchEdit() {
	if h.batchDepth == 0 {
		logger.WarnTagf("history", "History: EndBatchEdit without BeginBatchEdit")
		return
	}
	h.batchDepth--
	if h.batchDepth == 0 {
		h.group++
	}
}

// IsBatchEdit reports whether a batch is open.
func (h *History) IsBatchEdit() bool {
	return h.batchDepth > 0
}

// Undo reverses the newest group and returns the caret offset from before
// it, or -1 when there is nothing to undo.
func (h *History) Undo(e Editable) int {
	if !h.CanUndo() {
		logger.DebugTagf("history", "History: Nothing to undo.")
		return -1
	}

	group := h.actions[h.top-1].Group
	var first *Action
	for h.top > 0 && h.actions[h.top-1].Group == group {
		first = h.actions[h.top-1]
		undoAction(first, e)
		h.top--
	}

	pos := undoPosition(first)
	h.lastUndoSel = types.Caret(pos)
	if first.hasSelBefore {
		h.lastUndoSel = first.SelBefore
	}
	logger.DebugTagf("history", "History: undid group %d, caret %d, top %d", group, pos, h.top)
	return pos
}

// Redo re-applies the next group and returns the caret offset after it,
// or -1 when there is nothing to redo.
func (h *History) Redo(e Editable) int {
	if !h.CanRedo() {
		logger.DebugTagf("history", "History: Nothing to redo. top=%d, len=%d", h.top, len(h.actions))
		return -1
	}

	group := h.actions[h.top].Group
	var last *Action
	for h.top < len(h.actions) && h.actions[h.top].Group == group {
		last = h.actions[h.top]
		redoAction(last, e)
		h.top++
	}

	pos := redoPosition(last)
	h.lastRedoSel = types.Caret(pos)
	if last.hasSelAfter {
		h.lastRedoSel = last.SelAfter
	}
	logger.DebugTagf("history", "History: redid group %d, caret %d, top %d", group, pos, h.top)
	return pos
}

// CanUndo returns true if there are changes that can be undone.
func (h *History) CanUndo() bool {
	return h.top > 0
}

// CanRedo returns true if there are changes that can be redone.
func (h *History) CanRedo() bool {
	return h.top < len(h.actions)
}

// MarkSelectionBefore remembers the selection in effect before the next
// new action. It is dropped if that edit merges into an existing action.
func (h *History) MarkSelectionBefore(sel types.Selection) {
	h.selBefore = sel
	h.hasSelBefore = true
}

// MarkSelectionAfter attaches sel to the newest applied action as the
// selection to restore after redoing its group.
func (h *History) MarkSelectionAfter(sel types.Selection) {
	if h.top == 0 {
		return
	}
	a := h.actions[h.top-1]
	a.SelAfter, a.hasSelAfter = sel, true
}

// LastUndoSelection is the selection the editor should restore after the
// most recent Undo.
func (h *History) LastUndoSelection() types.Selection {
	return h.lastUndoSel
}

// LastRedoSelection is the selection the editor should restore after the
// most recent Redo.
func (h *History) LastRedoSelection() types.Selection {
	return h.lastRedoSel
}

// Len is the number of stored actions, including the redo tail.
func (h *History) Len() int {
	return len(h.actions)
}

// Top is the number of applied actions.
func (h *History) Top() int {
	return h.top
}

// Actions returns a snapshot of the stored actions for inspection.
func (h *History) Actions() []Action {
	out := make([]Action, len(h.actions))
	for i, a := range h.actions {
		out[i] = *a
	}
	return out
}

// Clear resets the history stack. Call this on file load.
func (h *History) Clear() {
	h.actions = nil
	h.top = 0
	h.group = 0
	h.batchDepth = 0
	h.hasSelBefore = false
	h.lastUndoSel = types.Selection{}
	h.lastRedoSel = types.Selection{}
	logger.DebugTagf("history", "History: Cleared.")
}
