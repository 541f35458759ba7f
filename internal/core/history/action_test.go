package history

import (
	"testing"
	"time"
)

func TestMergeAction(t *testing.T) {
	t0 := time.Unix(100, 0)
	window := 750 * time.Millisecond

	tests := []struct {
		name       string
		prev       Action
		typ        ActionType
		start, end int
		at         time.Duration
		want       bool
		wantStart  int
		wantEnd    int
	}{
		{"typing continues insert", Action{Type: InsertAction, Start: 0, End: 3}, InsertAction, 3, 4, 100 * time.Millisecond, true, 0, 4},
		{"insert elsewhere", Action{Type: InsertAction, Start: 0, End: 3}, InsertAction, 1, 2, 100 * time.Millisecond, false, 0, 3},
		{"backspace continues delete", Action{Type: DeleteAction, Start: 5, End: 6}, DeleteAction, 4, 5, 10 * time.Millisecond, true, 4, 6},
		{"forward delete", Action{Type: DeleteAction, Start: 5, End: 6}, DeleteAction, 5, 6, 10 * time.Millisecond, false, 5, 6},
		{"different type", Action{Type: InsertAction, Start: 0, End: 3}, DeleteAction, 2, 3, 0, false, 0, 3},
		{"window elapsed", Action{Type: InsertAction, Start: 0, End: 3}, InsertAction, 3, 4, window, false, 0, 3},
		{"clock went back", Action{Type: InsertAction, Start: 0, End: 3}, InsertAction, 3, 4, -time.Millisecond, false, 0, 3},
		{"recorded", Action{Type: InsertAction, Start: 0, End: 3, Recorded: true}, InsertAction, 3, 4, 0, false, 0, 3},
		{"too large", Action{Type: InsertAction, Start: 0, End: 10}, InsertAction, 10, 11, 0, false, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.prev
			a.Time = t0
			got := mergeAction(&a, tt.typ, tt.start, tt.end, t0.Add(tt.at), window, 10)
			if got != tt.want {
				t.Fatalf("mergeAction() = %v, want %v", got, tt.want)
			}
			if a.Start != tt.wantStart || a.End != tt.wantEnd {
				t.Errorf("action = [%d,%d), want [%d,%d)", a.Start, a.End, tt.wantStart, tt.wantEnd)
			}
			if got && !a.Time.Equal(t0.Add(tt.at)) {
				t.Errorf("merged action time not advanced")
			}
		})
	}
}

func TestUndoRedoPositions(t *testing.T) {
	ins := &Action{Type: InsertAction, Start: 2, End: 5}
	del := &Action{Type: DeleteAction, Start: 2, End: 5}
	if undoPosition(ins) != 2 || redoPosition(ins) != 5 {
		t.Errorf("insert positions = %d/%d", undoPosition(ins), redoPosition(ins))
	}
	if undoPosition(del) != 5 || redoPosition(del) != 2 {
		t.Errorf("delete positions = %d/%d", undoPosition(del), redoPosition(del))
	}
}

func TestEndBatchWithoutBegin(t *testing.T) {
	h := NewHistory()
	h.EndBatchEdit()
	if h.IsBatchEdit() {
		t.Errorf("unbalanced EndBatchEdit opened a batch")
	}
	h.BeginBatchEdit()
	h.BeginBatchEdit()
	h.EndBatchEdit()
	if !h.IsBatchEdit() {
		t.Errorf("inner EndBatchEdit closed the outer batch")
	}
	h.EndBatchEdit()
	if h.IsBatchEdit() {
		t.Errorf("batch still open")
	}
}

// runeText is an Editable without a gap: pending actions are always
// recorded from the text itself.
type runeText struct {
	text []rune
}

func (r *runeText) Substring(start, end int) string { return string(r.text[start:end]) }
func (r *runeText) GapStart() int                   { return -1 }
func (r *runeText) GapSubstring(n int) string       { return "" }
func (r *runeText) ShiftGapStart(delta int)         { panic("no gap") }

func (r *runeText) Insert(offset int, text string) {
	r.text = append(r.text[:offset], append([]rune(text), r.text[offset:]...)...)
}

func (r *runeText) Delete(start, end int) {
	r.text = append(r.text[:start], r.text[end:]...)
}

func TestActionsSnapshot(t *testing.T) {
	h := NewHistory()
	e := &runeText{}
	t0 := time.Unix(100, 0)
	edit := func(offset int, text string, at time.Duration) {
		h.CaptureInsert(offset, offset+len([]rune(text)), t0.Add(at), e)
		e.Insert(offset, text)
	}

	edit(0, "ab", 0)
	edit(2, "c", 10*time.Millisecond)
	h.BeginBatchEdit()
	edit(0, "X", 20*time.Millisecond)
	edit(4, "Y", 30*time.Millisecond)
	h.EndBatchEdit()

	got := h.Actions()
	want := []struct {
		start, end, group int
		data              string
		recorded          bool
	}{
		{0, 3, 0, "abc", true},
		{0, 1, 1, "X", true},
		{4, 5, 1, "", false},
	}
	if len(got) != len(want) {
		t.Fatalf("Actions() has %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		a := got[i]
		if a.Start != w.start || a.End != w.end || a.Group != w.group || a.Data != w.data || a.Recorded != w.recorded {
			t.Errorf("action %d = %v data %q, want [%d,%d) group %d data %q", i, &a, a.Data, w.start, w.end, w.group, w.data)
		}
	}

	got[0].Data = "changed"
	if h.Actions()[0].Data != "abc" {
		t.Errorf("Actions() returned shared entries")
	}

	if pos := h.Undo(e); pos != 0 || string(e.text) != "abc" {
		t.Errorf("Undo() = %d, text %q", pos, string(e.text))
	}
	if h.Top() != 1 || h.Len() != 3 {
		t.Errorf("top %d len %d", h.Top(), h.Len())
	}
}
