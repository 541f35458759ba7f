package core

import (
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// prevBoundary returns the start of the grapheme cluster that ends at offset.
// A line break is its own cluster.
func (e *Editor) prevBoundary(offset int) int {
	if offset <= 0 {
		return 0
	}
	buf := e.Buffer()
	line := buf.FindLineNumber(offset)
	start, err := buf.LineOffset(line)
	if err != nil || offset == start {
		return offset - 1
	}

	last := 1
	gr := uniseg.NewGraphemes(buf.Substring(start, offset))
	for gr.Next() {
		last = len(gr.Runes())
	}
	return offset - last
}

// nextBoundary returns the end of the grapheme cluster that starts at offset.
func (e *Editor) nextBoundary(offset int) int {
	buf := e.Buffer()
	if offset >= buf.Len() {
		return buf.Len()
	}
	line := buf.FindLineNumber(offset)
	start, err := buf.LineOffset(line)
	if err != nil {
		return offset + 1
	}
	n, _ := buf.LineLength(line)
	if offset >= start+n {
		return offset + 1 // The line break
	}

	gr := uniseg.NewGraphemes(buf.Substring(offset, start+n))
	if !gr.Next() {
		return offset + 1
	}
	return offset + len(gr.Runes())
}

// cellWidth is the number of terminal cells a grapheme cluster occupies at
// visual column col.
func cellWidth(cluster string, col, tabWidth int) int {
	if cluster == "\t" {
		return tabWidth - col%tabWidth
	}
	w := runewidth.StringWidth(cluster)
	if w == 0 {
		w = uniseg.StringWidth(cluster)
	}
	return w
}

// visualColumn computes the screen column of runeIndex within line.
func visualColumn(line string, runeIndex, tabWidth int) int {
	col, runes := 0, 0
	gr := uniseg.NewGraphemes(line)
	for runes < runeIndex && gr.Next() {
		col += cellWidth(gr.Str(), col, tabWidth)
		runes += len(gr.Runes())
	}
	return col
}

// runeIndexAtColumn is the inverse of visualColumn: the rune index of the
// last cluster boundary at or before visual column target.
func runeIndexAtColumn(line string, target, tabWidth int) int {
	col, runes := 0, 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		w := cellWidth(gr.Str(), col, tabWidth)
		if col+w > target {
			break
		}
		col += w
		runes += len(gr.Runes())
	}
	return runes
}

// MoveLeft moves the caret one grapheme cluster left. With extend set the
// selection grows; otherwise an existing selection collapses to its start.
func (e *Editor) MoveLeft(extend bool) {
	if !extend && e.HasSelection() {
		lo, _ := e.Selection().Normalized()
		e.ClearSelection()
		e.moveCaret(lo, false)
		return
	}
	e.startOrUpdateSelection(extend)
	e.moveCaret(e.prevBoundary(e.caret), false)
}

// MoveRight moves the caret one grapheme cluster right.
func (e *Editor) MoveRight(extend bool) {
	if !extend && e.HasSelection() {
		_, hi := e.Selection().Normalized()
		e.ClearSelection()
		e.moveCaret(hi, false)
		return
	}
	e.startOrUpdateSelection(extend)
	e.moveCaret(e.nextBoundary(e.caret), false)
}

// MoveUp moves the caret to the line above, keeping its visual column.
func (e *Editor) MoveUp(extend bool) {
	e.moveLines(-1, extend)
}

// MoveDown moves the caret to the line below, keeping its visual column.
func (e *Editor) MoveDown(extend bool) {
	e.moveLines(1, extend)
}

func (e *Editor) moveLines(delta int, extend bool) {
	e.startOrUpdateSelection(extend)
	buf := e.Buffer()
	line, col := e.CursorLineCol()
	if e.desiredCol < 0 {
		text, _ := buf.Line(line)
		e.desiredCol = visualColumn(text, col, e.TabWidth)
	}

	target := max(1, min(line+delta, buf.LineCount()))
	if target == line {
		// Vertical moves past the first or last line go to its edge.
		if delta < 0 {
			e.moveCaret(0, false)
		} else {
			e.moveCaret(buf.Len(), false)
		}
		return
	}
	start, err := buf.LineOffset(target)
	if err != nil {
		logger.Debugf("Editor: cannot move to line %d: %v", target, err)
		return
	}
	text, _ := buf.Line(target)
	e.moveCaret(start+runeIndexAtColumn(text, e.desiredCol, e.TabWidth), true)
}

// Home moves the caret to the beginning of its line.
func (e *Editor) Home(extend bool) {
	e.startOrUpdateSelection(extend)
	line, _ := e.CursorLineCol()
	start, _ := e.Buffer().LineOffset(line)
	e.moveCaret(start, false)
}

// End moves the caret to the end of its line.
func (e *Editor) End(extend bool) {
	e.startOrUpdateSelection(extend)
	buf := e.Buffer()
	line, _ := e.CursorLineCol()
	start, _ := buf.LineOffset(line)
	n, _ := buf.LineLength(line)
	e.moveCaret(start+n, false)
}

// PageMove moves the caret and viewport by whole pages; deltaPages is
// typically +1 (PageDown) or -1 (PageUp).
func (e *Editor) PageMove(deltaPages int) {
	if e.viewHeight <= 0 {
		return
	}
	e.moveLines(e.viewHeight*deltaPages, false)

	maxViewportY := max(0, e.Buffer().LineCount()-e.viewHeight)
	e.ViewportY = max(0, min(e.ViewportY+e.viewHeight*deltaPages, maxViewportY))
	e.ScrollToCursor()
}

// ScrollToCursor adjusts the viewport incorporating ScrollOff and visual width.
func (e *Editor) ScrollToCursor() {
	if e.viewHeight <= 0 || e.viewWidth <= 0 {
		return
	}

	scrollOff := e.ScrollOff
	if scrollOff*2 >= e.viewHeight {
		scrollOff = (e.viewHeight - 1) / 2
	}

	line, col := e.CursorLineCol()
	row := line - 1
	if row < e.ViewportY+scrollOff {
		e.ViewportY = max(0, row-scrollOff)
	} else if row >= e.ViewportY+e.viewHeight-scrollOff {
		e.ViewportY = row - e.viewHeight + 1 + scrollOff
	}

	text, err := e.Buffer().Line(line)
	if err != nil {
		logger.Debugf("ScrollToCursor: Error getting line %d: %v", line, err)
	}
	visual := visualColumn(text, col, e.TabWidth)
	if visual < e.ViewportX {
		e.ViewportX = visual
	} else if visual >= e.ViewportX+e.viewWidth {
		e.ViewportX = visual - e.viewWidth + 1
	}
	e.ViewportX = max(0, e.ViewportX)
}

// CursorScreenColumn is the caret's visual column within its line.
func (e *Editor) CursorScreenColumn() int {
	line, col := e.CursorLineCol()
	text, _ := e.Buffer().Line(line)
	return visualColumn(text, col, e.TabWidth)
}
