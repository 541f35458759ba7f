package tui

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/highlight"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/wordindex"
	"github.com/gdamore/tcell/v2"
)

// App runs the editor in the terminal: it decodes keys into editor calls
// and redraws on demand.
type App struct {
	tui       *TUI
	editor    *core.Editor
	index     *wordindex.Indexer
	statusBar *StatusBar
	input     *InputProcessor
	theme     *Theme

	highlighter atomic.Pointer[highlight.Highlighter] // Replaced when a file is loaded

	quitArmed bool // Quit was requested once with unsaved changes

	finding    bool   // The status line is collecting a search pattern
	findBuffer string
	lastSearch string

	quit          chan struct{}
	redrawRequest chan struct{}
}

// NewApp wires the screen, editor and word index together.
func NewApp(t *TUI, editor *core.Editor, index *wordindex.Indexer) *App {
	a := &App{
		tui:           t,
		editor:        editor,
		index:         index,
		statusBar:     NewStatusBar(4 * time.Second),
		input:         NewInputProcessor(),
		theme:         DefaultTheme,
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	events := editor.Document().Events()
	events.Subscribe(event.TypeBufferSaved, func(e event.Event) bool {
		if data, ok := e.Data.(event.BufferSavedData); ok {
			a.statusBar.SetTemporaryMessage("Saved %s", data.FilePath)
		}
		a.requestRedraw()
		return false
	})
	events.Subscribe(event.TypeBufferLoaded, func(event.Event) bool {
		a.resetHighlighter()
		a.requestRedraw()
		return false
	})
	a.resetHighlighter()
	if index != nil {
		index.OnUpdate(a.requestRedraw)
	}

	width, height := t.Size()
	editor.SetViewSize(width, height)
	return a
}

// StatusBar exposes the status bar.
func (a *App) StatusBar() *StatusBar {
	return a.statusBar
}

// SetTheme replaces the theme used for drawing. A nil theme restores the default.
func (a *App) SetTheme(theme *Theme) {
	if theme == nil {
		theme = DefaultTheme
	}
	a.theme = theme
	a.requestRedraw()
}

// Run starts the event loop and draws until the user quits.
func (a *App) Run() error {
	defer a.tui.Close()

	go a.eventLoop()

	a.statusBar.SetTemporaryMessage("Ctrl+S Save | Ctrl+Z Undo | Ctrl+Y Redo | Ctrl+F Find | Ctrl+Q Quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			if a.editor.Document().IsModified() {
				logger.Warnf("App: exited with unsaved changes")
			}
			logger.Infof("App: exiting")
			return nil
		case <-a.redrawRequest:
			a.Draw()
		}
	}
}

func (a *App) eventLoop() {
	for {
		ev := a.tui.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.tui.Screen().Sync()
			w, h := a.tui.Size()
			a.editor.SetViewSize(w, h)
			needsRedraw = true
		case *tcell.EventKey:
			needsRedraw = a.HandleKey(ev)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// HandleKey applies one key press to the editor and reports whether the
// screen needs redrawing.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	ae := a.input.ProcessEvent(ev)
	if ae.Action != ActionQuit {
		a.quitArmed = false
	}
	if a.finding {
		return a.handleFindKey(ae)
	}

	ed := a.editor
	switch ae.Action {
	case ActionQuit:
		if ed.Document().IsModified() && !a.quitArmed {
			a.quitArmed = true
			a.statusBar.SetTemporaryMessage("Unsaved changes! Ctrl+Q again to quit, Ctrl+S to save")
			return true
		}
		close(a.quit)
		return false
	case ActionSave:
		if err := ed.Save(); err != nil {
			if errors.Is(err, document.ErrNoFilePath) {
				a.statusBar.SetTemporaryMessage("No file name; start with a path to save")
			} else {
				a.statusBar.SetTemporaryMessage("Save failed: %v", err)
			}
		}
	case ActionMoveUp:
		ed.MoveUp(ae.Extend)
	case ActionMoveDown:
		ed.MoveDown(ae.Extend)
	case ActionMoveLeft:
		ed.MoveLeft(ae.Extend)
	case ActionMoveRight:
		ed.MoveRight(ae.Extend)
	case ActionMovePageUp:
		ed.PageMove(-1)
	case ActionMovePageDown:
		ed.PageMove(1)
	case ActionMoveHome:
		ed.Home(ae.Extend)
	case ActionMoveEnd:
		ed.End(ae.Extend)
	case ActionInsertRune:
		ed.InsertText(string(ae.Rune))
	case ActionInsertNewLine:
		ed.InsertNewLine()
	case ActionInsertTab:
		ed.InsertTab()
	case ActionDeleteCharBackward:
		ed.DeleteBackward()
	case ActionDeleteCharForward:
		ed.DeleteForward()
	case ActionUndo:
		if !ed.Undo() {
			a.statusBar.SetTemporaryMessage("Nothing to undo")
		}
	case ActionRedo:
		if !ed.Redo() {
			a.statusBar.SetTemporaryMessage("Nothing to redo")
		}
	case ActionCopy:
		if ed.Copy() {
			a.statusBar.SetTemporaryMessage("Copied")
		}
	case ActionCut:
		ed.Cut()
	case ActionPaste:
		ed.Paste()
	case ActionSelectAll:
		ed.SelectAll()
	case ActionClearSelection:
		ed.ClearSelection()
	case ActionComplete:
		a.complete()
	case ActionFind:
		a.finding = true
		a.findBuffer = ""
		a.statusBar.SetTemporaryMessage("/")
	case ActionFindNext:
		a.findNext()
	default:
		return false
	}
	return true
}

// complete extends the word before the caret with the first indexed match.
func (a *App) complete() {
	if a.index == nil {
		return
	}
	prefix := a.editor.WordBeforeCursor()
	candidates := a.index.Complete(prefix)
	if len(candidates) == 0 {
		a.statusBar.SetTemporaryMessage("No completions for '%s'", prefix)
		return
	}
	a.editor.InsertText(strings.TrimPrefix(candidates[0], prefix))
	if len(candidates) > 1 {
		a.statusBar.SetTemporaryMessage("Also: %s", strings.Join(candidates[1:min(len(candidates), 6)], " "))
	}
}

// Draw clears the screen and redraws every component.
func (a *App) Draw() {
	a.updateStatusBarContent()

	width, height := a.tui.Size()
	a.tui.Clear()
	DrawBuffer(a.tui, a.editor, a.theme, a.highlighter.Load())
	a.statusBar.Draw(a.tui.Screen(), width, height, a.theme)
	DrawCursor(a.tui, a.editor)
	a.tui.Show()
}

func (a *App) updateStatusBarContent() {
	doc := a.editor.Document()
	a.statusBar.SetFileInfo(doc.FilePath(), doc.IsModified())
	line, col := a.editor.CursorLineCol()
	a.statusBar.SetCursorInfo(line, col)
	a.statusBar.SetLanguage(a.highlighter.Load().Language())
	if a.index != nil {
		a.statusBar.SetWordCount(a.index.Stats().Words)
	}
}

// resetHighlighter picks a lexer for the document's current file.
func (a *App) resetHighlighter() {
	doc := a.editor.Document()
	a.highlighter.Store(highlight.New(doc.FilePath(), doc.Buffer()))
}

// requestRedraw sends a redraw signal without blocking.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}
