package tui

import (
	"github.com/bethropolis/tidecore/internal/logger"
)

// handleFindKey edits the search pattern while the find prompt is open.
func (a *App) handleFindKey(ae ActionEvent) bool {
	switch ae.Action {
	case ActionInsertRune:
		a.findBuffer += string(ae.Rune)
	case ActionDeleteCharBackward:
		if a.findBuffer == "" {
			a.cancelFind()
			return true
		}
		runes := []rune(a.findBuffer)
		a.findBuffer = string(runes[:len(runes)-1])
	case ActionInsertNewLine:
		a.finding = false
		if a.findBuffer == "" {
			a.statusBar.ClearTemporaryMessage()
			return true
		}
		a.lastSearch = a.findBuffer
		a.findBuffer = ""
		a.findNext()
		return true
	case ActionClearSelection, ActionQuit:
		a.cancelFind()
		return true
	default:
		return false
	}
	a.statusBar.SetTemporaryMessage("/%s", a.findBuffer)
	return true
}

func (a *App) cancelFind() {
	a.finding = false
	a.findBuffer = ""
	a.statusBar.ClearTemporaryMessage()
	logger.Debugf("App: find canceled")
}

// findNext selects the next match of the last pattern after the caret.
func (a *App) findNext() {
	if a.lastSearch == "" {
		a.statusBar.SetTemporaryMessage("No search term")
		return
	}
	if a.editor.FindNext(a.lastSearch) {
		a.statusBar.SetTemporaryMessage("Found: '%s'", a.lastSearch)
		return
	}
	a.statusBar.SetTemporaryMessage("Pattern not found: %s", a.lastSearch)
	logger.Debugf("App: pattern not found: '%s'", a.lastSearch)
}
