package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/event"
)

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	d, err := Open(path, config.DefaultBufferConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Buffer().Len() != 0 || d.FilePath() != path {
		t.Errorf("got len %d path %q", d.Buffer().Len(), d.FilePath())
	}
	if d.IsModified() {
		t.Errorf("fresh document reports modified")
	}
}

func TestLoadEditSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, config.DefaultBufferConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b := d.Buffer()
	if b.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", b.LineCount())
	}
	if b.CanUndo() {
		t.Errorf("loaded document has undo history")
	}

	b.Insert(5, ",", true)
	if !d.IsModified() {
		t.Errorf("IsModified() = false after edit")
	}
	if err := d.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.IsModified() {
		t.Errorf("IsModified() = true after save")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "hello,\nworld\n" {
		t.Errorf("file = %q", got)
	}
}

func TestCRLFRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dos.txt")
	if err := os.WriteFile(path, []byte("a\r\nb\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, config.DefaultBufferConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := d.Buffer().String(); got != "a\nb\n" {
		t.Errorf("buffer = %q", got)
	}
	d.Buffer().Insert(1, "!", true)
	if err := d.Save(""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "a!\r\nb\r\n" {
		t.Errorf("file = %q", got)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	d := New(config.DefaultBufferConfig())
	if err := d.Save(""); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("Save() err = %v, want ErrNoFilePath", err)
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	d.Buffer().Insert(0, "x", true)
	if err := d.Save(path); err != nil {
		t.Fatalf("Save(path): %v", err)
	}
	if d.FilePath() != path {
		t.Errorf("FilePath() = %q", d.FilePath())
	}
}

func TestEventsDispatched(t *testing.T) {
	dir := t.TempDir()
	d := New(config.DefaultBufferConfig())

	var seen []event.Type
	var lastEdit event.BufferModifiedData
	for _, typ := range []event.Type{event.TypeBufferLoaded, event.TypeBufferModified, event.TypeBufferSaved} {
		d.Events().Subscribe(typ, func(e event.Event) bool {
			seen = append(seen, e.Type)
			if data, ok := e.Data.(event.BufferModifiedData); ok {
				lastEdit = data
			}
			return false
		})
	}

	if err := d.Load(filepath.Join(dir, "x.txt")); err != nil {
		t.Fatal(err)
	}
	d.Buffer().Insert(0, "abc", true)
	d.Buffer().Undo()
	if err := d.Save(""); err != nil {
		t.Fatal(err)
	}

	want := []event.Type{event.TypeBufferLoaded, event.TypeBufferModified, event.TypeBufferModified, event.TypeBufferSaved}
	if len(seen) != len(want) {
		t.Fatalf("events = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, seen[i], want[i])
		}
	}
	if lastEdit.Edit.Start != 0 || lastEdit.Edit.OldEnd != 3 || lastEdit.Edit.NewEnd != 0 {
		t.Errorf("undo edit = %+v", lastEdit.Edit)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	d := New(config.DefaultBufferConfig())
	// A directory cannot be read as a file.
	if err := d.Load(dir); err == nil {
		t.Errorf("Load(dir) succeeded")
	}
}
