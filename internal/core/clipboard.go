package core

import (
	"github.com/atotto/clipboard"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Copy puts the selected text on the clipboard. Returns false without a selection.
func (e *Editor) Copy() bool {
	text := e.SelectedText()
	if text == "" {
		return false
	}
	e.setClipboard(text)
	logger.Debugf("Editor: Copied %d bytes", len(text))
	return true
}

// Cut copies the selection and deletes it as one undo step.
func (e *Editor) Cut() bool {
	if !e.Copy() {
		return false
	}
	e.deleteSelection()
	return true
}

// Paste inserts the clipboard at the caret, replacing the selection.
func (e *Editor) Paste() bool {
	text := e.clipboardText()
	if text == "" {
		return false
	}
	e.InsertText(text)
	logger.Debugf("Editor: Pasted %d bytes", len(text))
	return true
}

func (e *Editor) setClipboard(text string) {
	e.clipboard = text
	if !e.systemClipboard {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("Editor: system clipboard unavailable, keeping copy internal: %v", err)
	}
}

// clipboardText prefers the system clipboard and falls back to the
// internal register when it is disabled, empty or unavailable.
func (e *Editor) clipboardText() string {
	if e.systemClipboard && !clipboard.Unsupported {
		text, err := clipboard.ReadAll()
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			logger.Debugf("Editor: reading system clipboard: %v", err)
		}
	}
	return e.clipboard
}
