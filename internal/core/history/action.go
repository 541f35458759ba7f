// Package history provides merge-aware undo/redo for the gap buffer.
package history

import (
	"fmt"
	"time"

	"github.com/bethropolis/tidecore/internal/types"
)

// ActionType indicates whether text was inserted or deleted.
type ActionType int

const (
	InsertAction ActionType = iota
	DeleteAction
)

func (t ActionType) String() string {
	if t == DeleteAction {
		return "delete"
	}
	return "insert"
}

// Editable is the part of the buffer the history drives when reversing
// or replaying actions. Implementations are called with the buffer lock
// already held and must not record history themselves.
type Editable interface {
	Substring(start, end int) string
	// GapStart is the logical offset where the gap currently begins.
	GapStart() int
	// GapSubstring returns the n characters stored at the front of the gap.
	GapSubstring(n int) string
	// ShiftGapStart moves the gap start by delta without touching the
	// characters, hiding (delta < 0) or re-exposing (delta > 0) text.
	ShiftGapStart(delta int)
	Insert(offset int, text string)
	Delete(start, end int)
}

// Action is one reversible edit: the inserted range or the deleted range.
// Data holds the affected text once Recorded is set; until then the text
// is still in place next to the gap and the action may keep growing.
type Action struct {
	Type     ActionType
	Start    int
	End      int
	Group    int
	Data     string
	Recorded bool
	Time     time.Time // Time of the latest edit folded into this action

	SelBefore    types.Selection
	SelAfter     types.Selection
	hasSelBefore bool
	hasSelAfter  bool
}

func (a *Action) String() string {
	return fmt.Sprintf("%s[%d,%d) group=%d recorded=%v", a.Type, a.Start, a.End, a.Group, a.Recorded)
}

// Len is the number of characters the action covers.
func (a *Action) Len() int {
	return a.End - a.Start
}

// recordData captures the action's text. Inserted text is read from its
// logical range; deleted text still sits at the front of the gap.
func recordData(a *Action, e Editable) {
	if a.Recorded {
		return
	}
	switch a.Type {
	case InsertAction:
		a.Data = e.Substring(a.Start, a.End)
	case DeleteAction:
		a.Data = e.GapSubstring(a.Len())
	}
	a.Recorded = true
}

// mergeAction widens a when the new edit continues it: typing right after
// an insert, or backspacing right before a delete.
func mergeAction(a *Action, typ ActionType, start, end int, ts time.Time, window time.Duration, maxSize int) bool {
	if a.Recorded || a.Type != typ {
		return false
	}
	elapsed := ts.Sub(a.Time)
	if elapsed < 0 || elapsed >= window {
		return false
	}
	if a.Len()+(end-start) > maxSize {
		return false
	}

	switch typ {
	case InsertAction:
		if start != a.End {
			return false
		}
		a.End += end - start
	case DeleteAction:
		if end != a.Start {
			return false
		}
		a.Start = start
	}
	a.Time = ts
	return true
}

// undoAction reverses a. A pending action is reversed by moving the gap
// start alone, since its text is still adjacent to the gap.
func undoAction(a *Action, e Editable) {
	switch a.Type {
	case InsertAction:
		if !a.Recorded && e.GapStart() == a.End {
			recordData(a, e)
			e.ShiftGapStart(-a.Len())
			return
		}
		recordData(a, e)
		e.Delete(a.Start, a.End)
	case DeleteAction:
		if !a.Recorded {
			if e.GapStart() != a.Start {
				panic(fmt.Sprintf("history: pending %v lost its gap payload (gap at %d)", a, e.GapStart()))
			}
			recordData(a, e)
			e.ShiftGapStart(a.Len())
			return
		}
		e.Insert(a.Start, a.Data)
	}
}

// redoAction re-applies a recorded action.
func redoAction(a *Action, e Editable) {
	switch a.Type {
	case InsertAction:
		e.Insert(a.Start, a.Data)
	case DeleteAction:
		e.Delete(a.Start, a.End)
	}
}

// undoPosition is the caret before the action was applied.
func undoPosition(a *Action) int {
	if a.Type == DeleteAction {
		return a.End
	}
	return a.Start
}

// redoPosition is the caret after the action was applied.
func redoPosition(a *Action) int {
	if a.Type == DeleteAction {
		return a.Start
	}
	return a.End
}
