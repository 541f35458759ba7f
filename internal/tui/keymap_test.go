package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: 'q'}},
		{"shift rune", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift), ActionEvent{Action: ActionInsertRune, Rune: 'Q'}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEvent{Action: ActionInsertNewLine}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), ActionEvent{Action: ActionInsertTab}},
		{"shift left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), ActionEvent{Action: ActionMoveLeft, Extend: true}},
		{"undo", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionEvent{Action: ActionUndo}},
		{"save", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionEvent{Action: ActionSave}},
		{"find", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModCtrl), ActionEvent{Action: ActionFind}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), ActionEvent{Action: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ProcessEvent(tt.ev); got != tt.want {
				t.Errorf("ProcessEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatusBarText(t *testing.T) {
	now := time.Unix(0, 0)
	sb := NewStatusBar(time.Second)
	sb.now = func() time.Time { return now }
	sb.SetFileInfo("a.txt", true)
	sb.SetCursorInfo(3, 4)
	sb.SetWordCount(7)

	if got, msg := sb.Text(); msg || got != "a.txt [Modified] -- Line: 3, Col: 5 -- 7 words" {
		t.Errorf("Text() = %q, %v", got, msg)
	}
	sb.SetTemporaryMessage("hi %d", 1)
	if got, msg := sb.Text(); !msg || got != "hi 1" {
		t.Errorf("Text() = %q, %v", got, msg)
	}
	now = now.Add(2 * time.Second)
	if _, msg := sb.Text(); msg {
		t.Errorf("message did not expire")
	}

	sb.SetLanguage("Go")
	if got, _ := sb.Text(); got != "a.txt [Modified] -- Line: 3, Col: 5 -- 7 words -- Go" {
		t.Errorf("Text() with language = %q", got)
	}
}
