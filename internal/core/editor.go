// internal/core/editor.go
package core

import (
	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Editor is the single-caret editing front of a document. Positions are
// logical rune offsets into the document's buffer.
type Editor struct {
	doc *document.Document

	caret      int
	desiredCol int // Visual column kept across vertical moves, -1 when unset

	// --- Selection State ---
	selecting bool
	anchor    int // Fixed end of the selection; the caret is the moving end

	ViewportY  int // Top visible line index (0-based)
	ViewportX  int // Leftmost visible cell column (0-based)
	viewWidth  int
	viewHeight int
	ScrollOff  int
	TabWidth   int

	// Clipboard State
	clipboard       string
	systemClipboard bool
}

// NewEditor creates an editor over doc with the caret at the start.
func NewEditor(doc *document.Document, cfg config.EditorConfig) *Editor {
	e := &Editor{
		doc:             doc,
		desiredCol:      -1,
		ScrollOff:       cfg.ScrollOff,
		TabWidth:        cfg.TabWidth,
		systemClipboard: cfg.SystemClipboard,
	}
	if e.TabWidth <= 0 {
		e.TabWidth = config.DefaultTabWidth
	}

	// A reload swaps the buffer out from under the caret.
	doc.Events().Subscribe(event.TypeBufferLoaded, func(event.Event) bool {
		e.caret, e.anchor, e.selecting = 0, 0, false
		e.desiredCol = -1
		e.ViewportY, e.ViewportX = 0, 0
		return false
	})
	return e
}

// Document returns the document being edited.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// Buffer returns the document's current buffer.
func (e *Editor) Buffer() *buffer.GapBuffer {
	return e.doc.Buffer()
}

// Cursor returns the caret offset.
func (e *Editor) Cursor() int {
	return e.caret
}

// CursorLineCol returns the caret as a 1-based line and a 0-based rune column.
func (e *Editor) CursorLineCol() (line, col int) {
	buf := e.Buffer()
	line = buf.FindLineNumber(e.caret)
	start, err := buf.LineOffset(line)
	if err != nil {
		return 1, 0
	}
	return line, e.caret - start
}

// SetCursor moves the caret to offset, clamped to the text, and drops the selection.
func (e *Editor) SetCursor(offset int) {
	e.ClearSelection()
	e.moveCaret(offset, false)
}

// moveCaret is the single place the caret changes during navigation.
func (e *Editor) moveCaret(offset int, keepDesiredCol bool) {
	offset = max(0, min(offset, e.Buffer().Len()))
	if !keepDesiredCol {
		e.desiredCol = -1
	}
	if offset == e.caret {
		return
	}
	e.caret = offset
	e.ScrollToCursor()
	e.doc.Events().Dispatch(event.TypeCursorMoved, event.CursorMovedData{Offset: offset})
}

// SetViewSize updates the cached view dimensions. Called on resize or before drawing.
func (e *Editor) SetViewSize(width, height int) {
	e.viewWidth = width
	if height > config.StatusBarHeight {
		e.viewHeight = height - config.StatusBarHeight
	} else {
		e.viewHeight = 0
	}
	e.ScrollToCursor()
}

// Save writes the document to its current path.
func (e *Editor) Save() error {
	if err := e.doc.Save(""); err != nil {
		logger.Warnf("Editor: save failed: %v", err)
		return err
	}
	return nil
}
