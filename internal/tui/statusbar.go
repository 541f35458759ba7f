package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// StatusBar is the last screen line: file, position and transient messages.
type StatusBar struct {
	mu sync.RWMutex

	filePath   string
	isModified bool
	line, col  int
	words      int
	language   string

	tempMessage     string
	tempMessageTime time.Time
	messageTimeout  time.Duration
	now             func() time.Time
}

// NewStatusBar creates a status bar whose messages last timeout.
func NewStatusBar(timeout time.Duration) *StatusBar {
	return &StatusBar{messageTimeout: timeout, now: time.Now}
}

// SetFileInfo updates the file path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the 1-based line and 0-based column shown.
func (sb *StatusBar) SetCursorInfo(line, col int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.line, sb.col = line, col
}

// SetWordCount updates the word count from the index.
func (sb *StatusBar) SetWordCount(n int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.words = n
}

// SetLanguage updates the detected file language; "" hides it.
func (sb *StatusBar) SetLanguage(lang string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.language = lang
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ClearTemporaryMessage drops the current message, if any.
func (sb *StatusBar) ClearTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns what the status bar currently shows and whether it is a message.
func (sb *StatusBar) Text() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.messageTimeout {
			return sb.tempMessage, true
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	path := sb.filePath
	if path == "" {
		path = "[No Name]"
	}
	modified := ""
	if sb.isModified {
		modified = " [Modified]"
	}
	text := fmt.Sprintf("%s%s -- Line: %d, Col: %d -- %d words", path, modified, sb.line, sb.col+1, sb.words)
	if sb.language != "" {
		text += " -- " + sb.language
	}
	return text, false
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, theme *Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, isMessage := sb.Text()

	style := theme.GetStyle("StatusBar")
	if isMessage {
		style = theme.GetStyle("StatusBarMessage")
	}
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	drawText(screen, 0, y, width, text, style)
}
