package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/types"
)

func newTestEditor(t *testing.T, text string) *Editor {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Editor.SystemClipboard = false
	doc := document.New(cfg.Buffer)
	doc.Buffer().Insert(0, text, false)
	return NewEditor(doc, cfg.Editor)
}

func expectText(t *testing.T, e *Editor, want string) {
	t.Helper()
	if got := e.Buffer().String(); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestInsertTextMovesCaret(t *testing.T) {
	e := newTestEditor(t, "")
	e.InsertText("héllo")
	e.InsertNewLine()
	e.InsertText("x")
	expectText(t, e, "héllo\nx")
	if e.Cursor() != 7 {
		t.Errorf("Cursor() = %d, want 7", e.Cursor())
	}
	if line, col := e.CursorLineCol(); line != 2 || col != 1 {
		t.Errorf("CursorLineCol() = %d,%d", line, col)
	}
}

func TestDeleteBackwardGraphemes(t *testing.T) {
	// "e" + combining acute, then a flag made of two regional indicators.
	e := newTestEditor(t, "ae\u0301\U0001F1E9\U0001F1EA\nb")
	e.SetCursor(5)

	if !e.DeleteBackward() {
		t.Fatal("DeleteBackward() = false")
	}
	expectText(t, e, "ae\u0301\nb")
	e.DeleteBackward()
	expectText(t, e, "a\nb")
	if e.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1", e.Cursor())
	}

	e.SetCursor(2)
	e.DeleteBackward() // joins the lines
	expectText(t, e, "ab")

	e.SetCursor(0)
	if e.DeleteBackward() {
		t.Errorf("DeleteBackward() at start reported a deletion")
	}
}

func TestDeleteForward(t *testing.T) {
	e := newTestEditor(t, "e\u0301x\n")
	e.SetCursor(0)
	e.DeleteForward()
	expectText(t, e, "x\n")
	e.SetCursor(1)
	e.DeleteForward()
	expectText(t, e, "x")
	if e.DeleteForward() {
		t.Errorf("DeleteForward() at end reported a deletion")
	}
}

func TestBackspaceRunUndoesAtOnce(t *testing.T) {
	e := newTestEditor(t, "hello")
	e.SetCursor(5)
	for i := 0; i < 3; i++ {
		e.DeleteBackward()
	}
	expectText(t, e, "he")
	if !e.Undo() {
		t.Fatal("Undo() = false")
	}
	expectText(t, e, "hello")
	if e.Cursor() != 5 {
		t.Errorf("Cursor() = %d, want 5", e.Cursor())
	}
	if e.Undo() {
		t.Errorf("second Undo() found more history")
	}
}

func TestMoveLeftRight(t *testing.T) {
	e := newTestEditor(t, "a\U0001F44D\U0001F3FDb")
	e.SetCursor(0)
	e.MoveRight(false)
	e.MoveRight(false) // skin tone modifier belongs to the thumb
	if e.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", e.Cursor())
	}
	e.MoveLeft(true)
	if got := e.SelectedText(); got != "\U0001F44D\U0001F3FD" {
		t.Errorf("SelectedText() = %q", got)
	}
	e.MoveRight(false) // collapses to the end of the selection
	if e.HasSelection() || e.Cursor() != 3 {
		t.Errorf("after collapse: selection %v caret %d", e.HasSelection(), e.Cursor())
	}
}

func TestMoveUpDownKeepsColumn(t *testing.T) {
	e := newTestEditor(t, "abcdef\nab\nabcdef")
	e.SetCursor(5)
	e.MoveDown(false)
	if e.Cursor() != 9 {
		t.Errorf("Cursor() = %d, want 9 (end of short line)", e.Cursor())
	}
	e.MoveDown(false)
	if e.Cursor() != 15 {
		t.Errorf("Cursor() = %d, want 15 (column restored)", e.Cursor())
	}
	e.MoveDown(false)
	if e.Cursor() != 16 {
		t.Errorf("Cursor() = %d, want end of text", e.Cursor())
	}
	e.MoveUp(true)
	if got := e.SelectedText(); got != "\nabcdef" {
		t.Errorf("SelectedText() = %q", got)
	}
}

func TestMoveUpDownWideCharacters(t *testing.T) {
	e := newTestEditor(t, "世界x\nabcde")
	e.SetCursor(2) // visual column 4
	e.MoveDown(false)
	if e.Cursor() != 8 {
		t.Errorf("Cursor() = %d, want 8", e.Cursor())
	}
	e.MoveUp(false)
	if e.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", e.Cursor())
	}
}

func TestHomeEnd(t *testing.T) {
	e := newTestEditor(t, "one\ntwo three")
	e.SetCursor(6)
	e.End(false)
	if e.Cursor() != 13 {
		t.Errorf("End: %d", e.Cursor())
	}
	e.Home(true)
	if got := e.SelectedText(); got != "two three" {
		t.Errorf("Home with selection: %q", got)
	}
}

func TestReplaceSelectionUndoRestoresSelection(t *testing.T) {
	e := newTestEditor(t, "hello world")
	e.SetCursor(6)
	e.SelectTo(11)
	e.InsertText("there")
	expectText(t, e, "hello there")
	if e.HasSelection() {
		t.Errorf("selection survived typing")
	}

	e.Undo()
	expectText(t, e, "hello world")
	want := types.Selection{Start: 6, End: 11, IsRange: true}
	if got := e.Selection(); got != want {
		t.Errorf("Selection() after undo = %+v, want %+v", got, want)
	}

	e.Redo()
	expectText(t, e, "hello there")
	if got := e.Selection(); got != types.Caret(11) {
		t.Errorf("Selection() after redo = %+v", got)
	}
}

func TestUndoRedoEvents(t *testing.T) {
	e := newTestEditor(t, "")
	var got []event.HistoryData
	for _, typ := range []event.Type{event.TypeUndo, event.TypeRedo} {
		e.Document().Events().Subscribe(typ, func(ev event.Event) bool {
			got = append(got, ev.Data.(event.HistoryData))
			return false
		})
	}
	e.InsertText("abc")
	e.Undo()
	e.Redo()
	if len(got) != 2 || got[0].Caret != 0 || got[1].Caret != 3 {
		t.Errorf("history events = %+v", got)
	}
	if e.Undo() && e.Undo() {
		t.Errorf("undo past the start succeeded")
	}
}

func TestCopyCutPasteInternal(t *testing.T) {
	e := newTestEditor(t, "abc def")
	if e.Copy() {
		t.Errorf("Copy() without a selection succeeded")
	}
	e.SetCursor(4)
	e.SelectTo(7)
	if !e.Cut() {
		t.Fatal("Cut() = false")
	}
	expectText(t, e, "abc ")
	e.SetCursor(0)
	e.Paste()
	expectText(t, e, "defabc ")
	if e.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", e.Cursor())
	}
}

func TestFind(t *testing.T) {
	e := newTestEditor(t, "héllo wörld, hello")
	start, end, ok := e.Find("h.llo", 1, true)
	if !ok || start != 13 || end != 18 {
		t.Errorf("forward Find = %d,%d,%v", start, end, ok)
	}
	start, end, ok = e.Find("w.rld", 18, false)
	if !ok || start != 6 || end != 11 {
		t.Errorf("backward Find = %d,%d,%v", start, end, ok)
	}
	if _, _, ok := e.Find("(", 0, true); ok {
		t.Errorf("invalid pattern matched")
	}

	e.SetCursor(14)
	if !e.FindNext("h.llo") || e.SelectedText() != "héllo" {
		t.Errorf("FindNext did not wrap: %q", e.SelectedText())
	}
}

func TestReplaceAllIsOneUndoStep(t *testing.T) {
	e := newTestEditor(t, "cat hat cat")
	n, err := e.ReplaceAll(`c(at)`, "b$1")
	if err != nil || n != 2 {
		t.Fatalf("ReplaceAll() = %d, %v", n, err)
	}
	expectText(t, e, "bat hat bat")
	e.Undo()
	expectText(t, e, "cat hat cat")
	if _, err := e.ReplaceAll("(", "x"); err == nil {
		t.Errorf("invalid pattern accepted")
	}
}

func TestWordBeforeCursor(t *testing.T) {
	e := newTestEditor(t, "foo bar_baz\nqu")
	tests := []struct {
		caret int
		want  string
	}{
		{3, "foo"},
		{4, ""},
		{11, "bar_baz"},
		{14, "qu"},
		{12, ""},
	}
	for _, tt := range tests {
		e.SetCursor(tt.caret)
		if got := e.WordBeforeCursor(); got != tt.want {
			t.Errorf("WordBeforeCursor() at %d = %q, want %q", tt.caret, got, tt.want)
		}
	}
}

func TestReloadResetsCaret(t *testing.T) {
	e := newTestEditor(t, "some text")
	e.SetCursor(5)
	e.SelectTo(9)

	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.Document().Load(path); err != nil {
		t.Fatal(err)
	}
	if e.Cursor() != 0 || e.HasSelection() {
		t.Errorf("caret %d selection %v after reload", e.Cursor(), e.HasSelection())
	}
	e.InsertText("y")
	expectText(t, e, "yx")
}

func TestScrollToCursor(t *testing.T) {
	e := newTestEditor(t, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10")
	e.ScrollOff = 1
	e.SetViewSize(20, 5) // four text rows plus the status bar
	e.SetCursor(e.Buffer().Len())
	if e.ViewportY != 7 {
		t.Errorf("ViewportY = %d, want 7", e.ViewportY)
	}
	e.SetCursor(0)
	if e.ViewportY != 0 {
		t.Errorf("ViewportY = %d, want 0", e.ViewportY)
	}
}
