package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/wordindex"
	"github.com/gdamore/tcell/v2"
)

func newTestApp(t *testing.T, text string) (*App, tcell.SimulationScreen) {
	t.Helper()
	doc := document.New(config.DefaultBufferConfig())
	doc.Buffer().Insert(0, text, false)
	return newTestAppForDoc(t, doc)
}

func newTestAppForDoc(t *testing.T, doc *document.Document) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(screen)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	t.Cleanup(ui.Close)
	screen.SetSize(40, 8)

	cfg := config.NewDefaultConfig()
	cfg.Editor.SystemClipboard = false
	ed := core.NewEditor(doc, cfg.Editor)
	ix := wordindex.New(doc, time.Hour)
	t.Cleanup(ix.Close)
	return NewApp(ui, ed, ix), screen
}

func typeString(a *App, s string) {
	for _, r := range s {
		a.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func key(a *App, k tcell.Key, mod tcell.ModMask) bool {
	return a.HandleKey(tcell.NewEventKey(k, 0, mod))
}

func screenRow(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestTypingUndoRedo(t *testing.T) {
	a, _ := newTestApp(t, "")
	typeString(a, "hello")
	key(a, tcell.KeyEnter, tcell.ModNone)
	typeString(a, "world")

	buf := a.editor.Buffer()
	if got := buf.String(); got != "hello\nworld" {
		t.Fatalf("text = %q", got)
	}

	// Uninterrupted typing merges into a single undo step.
	key(a, tcell.KeyCtrlZ, tcell.ModCtrl)
	if got := buf.String(); got != "" {
		t.Errorf("after undo: %q", got)
	}
	if a.editor.Cursor() != 0 {
		t.Errorf("caret after undo = %d, want 0", a.editor.Cursor())
	}
	key(a, tcell.KeyCtrlY, tcell.ModCtrl)
	if got := buf.String(); got != "hello\nworld" {
		t.Errorf("after redo: %q", got)
	}
	if a.editor.Cursor() != 11 {
		t.Errorf("caret after redo = %d, want 11", a.editor.Cursor())
	}
}

func TestShiftSelectAndType(t *testing.T) {
	a, _ := newTestApp(t, "hello world")
	key(a, tcell.KeyEnd, tcell.ModNone)
	for i := 0; i < 5; i++ {
		key(a, tcell.KeyLeft, tcell.ModShift)
	}
	if got := a.editor.SelectedText(); got != "world" {
		t.Fatalf("selection = %q", got)
	}

	typeString(a, "X")
	if got := a.editor.Buffer().String(); got != "hello X" {
		t.Fatalf("text = %q", got)
	}

	key(a, tcell.KeyCtrlZ, tcell.ModCtrl)
	if got := a.editor.Buffer().String(); got != "hello world" {
		t.Errorf("after undo: %q", got)
	}
	if got := a.editor.SelectedText(); got != "world" {
		t.Errorf("undo restored selection %q, want \"world\"", got)
	}
}

func TestCutPaste(t *testing.T) {
	a, _ := newTestApp(t, "abc def")
	key(a, tcell.KeyCtrlA, tcell.ModCtrl)
	key(a, tcell.KeyCtrlX, tcell.ModCtrl)
	if got := a.editor.Buffer().String(); got != "" {
		t.Fatalf("after cut: %q", got)
	}
	key(a, tcell.KeyCtrlV, tcell.ModCtrl)
	key(a, tcell.KeyCtrlV, tcell.ModCtrl)
	if got := a.editor.Buffer().String(); got != "abc defabc def" {
		t.Errorf("after paste: %q", got)
	}
}

func TestComplete(t *testing.T) {
	a, _ := newTestApp(t, "elephant\n")
	a.index.Rebuild()
	a.editor.SetCursor(a.editor.Buffer().Len())
	typeString(a, "ele")
	key(a, tcell.KeyCtrlN, tcell.ModCtrl)
	if got := a.editor.Buffer().String(); got != "elephant\nelephant" {
		t.Errorf("text = %q", got)
	}
}

func TestQuitNeedsConfirmationWhenModified(t *testing.T) {
	a, _ := newTestApp(t, "")
	typeString(a, "x")
	key(a, tcell.KeyCtrlQ, tcell.ModCtrl)
	select {
	case <-a.quit:
		t.Fatal("quit without confirmation")
	default:
	}
	if msg, ok := a.statusBar.Text(); !ok || !strings.Contains(msg, "Unsaved") {
		t.Errorf("status = %q", msg)
	}
	key(a, tcell.KeyCtrlQ, tcell.ModCtrl)
	select {
	case <-a.quit:
	default:
		t.Fatal("second Ctrl+Q did not quit")
	}
}

func TestDraw(t *testing.T) {
	a, screen := newTestApp(t, "one\ntwo")
	a.Draw()

	if got := screenRow(screen, 0); got != "1 one" {
		t.Errorf("row 0 = %q", got)
	}
	if got := screenRow(screen, 1); got != "2 two" {
		t.Errorf("row 1 = %q", got)
	}
	_, h := screen.Size()
	if got := screenRow(screen, h-1); !strings.HasPrefix(got, "[No Name]") {
		t.Errorf("status row = %q", got)
	}
	x, y, visible := screen.GetCursor()
	if !visible || x != 2 || y != 0 {
		t.Errorf("cursor at (%d,%d) visible=%v, want (2,0)", x, y, visible)
	}
}

func TestFindPrompt(t *testing.T) {
	a, _ := newTestApp(t, "one two\none two")
	ed := a.editor

	key(a, tcell.KeyCtrlF, tcell.ModCtrl)
	typeString(a, "twx")
	key(a, tcell.KeyBackspace2, tcell.ModNone)
	typeString(a, "o")
	if text, _ := a.statusBar.Text(); text != "/two" {
		t.Errorf("prompt = %q", text)
	}
	key(a, tcell.KeyEnter, tcell.ModNone)

	if got := ed.Buffer().String(); got != "one two\none two" {
		t.Fatalf("find prompt edited the text: %q", got)
	}
	if ed.SelectedText() != "two" || ed.Cursor() != 7 {
		t.Errorf("first match: %q caret %d", ed.SelectedText(), ed.Cursor())
	}

	key(a, tcell.KeyCtrlG, tcell.ModCtrl)
	if ed.Cursor() != 15 {
		t.Errorf("second match caret = %d, want 15", ed.Cursor())
	}

	// Typing again edits the document.
	typeString(a, "!")
	if got := ed.Buffer().String(); got != "one two\none !" {
		t.Errorf("text = %q", got)
	}
}

func TestFindPromptCancel(t *testing.T) {
	a, _ := newTestApp(t, "abc")
	key(a, tcell.KeyCtrlF, tcell.ModCtrl)
	key(a, tcell.KeyEscape, tcell.ModNone)
	if text, msg := a.statusBar.Text(); msg || !strings.HasPrefix(text, "[No Name]") {
		t.Errorf("status after cancel = %q", text)
	}
	typeString(a, "x")
	if got := a.editor.Buffer().String(); got != "xabc" {
		t.Errorf("text = %q", got)
	}

	key(a, tcell.KeyCtrlG, tcell.ModCtrl)
	if text, _ := a.statusBar.Text(); text != "No search term" {
		t.Errorf("status = %q", text)
	}
}

func TestSetTheme(t *testing.T) {
	a, screen := newTestApp(t, "hi")
	theme := &Theme{Name: "plain", Styles: map[string]tcell.Style{
		"Default": tcell.StyleDefault.Foreground(tcell.ColorRed),
	}}
	a.SetTheme(theme)
	a.Draw()

	_, _, style, _ := screen.GetContent(2, 0)
	if fg, _, _ := style.Decompose(); fg != tcell.ColorRed {
		t.Errorf("text foreground = %v, want red", fg)
	}

	a.SetTheme(nil)
	if a.theme != DefaultTheme {
		t.Errorf("SetTheme(nil) did not restore the default")
	}
}

func TestDrawHighlightsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := document.Open(path, config.DefaultBufferConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, screen := newTestAppForDoc(t, doc)
	a.Draw()

	// "1 package main": the keyword starts after the gutter.
	_, _, style, _ := screen.GetContent(2, 0)
	if style != DefaultTheme.GetStyle("keyword") {
		t.Errorf("keyword drawn with %v", style)
	}
	_, _, style, _ = screen.GetContent(10, 0)
	if style != DefaultTheme.GetStyle("Default") {
		t.Errorf("identifier drawn with %v", style)
	}
	if text, _ := a.statusBar.Text(); !strings.HasSuffix(text, " -- Go") {
		t.Errorf("status = %q", text)
	}
}
