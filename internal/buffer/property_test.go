package buffer

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

var alphabet = []rune("ab \nxé")

func randomText(r *rand.Rand, max int) string {
	n := r.Intn(max) + 1
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}

// refLineOffset computes the start of the 1-based line the slow way.
func refLineOffset(rs []rune, line int) int {
	if line == 1 {
		return 0
	}
	seen := 1
	for i, c := range rs {
		if c == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return -1
}

func refFindLine(rs []rune, offset int) int {
	offset = max(0, min(offset, len(rs)))
	line := 1
	for _, c := range rs[:offset] {
		if c == '\n' {
			line++
		}
	}
	return line
}

func checkAgainst(t *testing.T, r *rand.Rand, b *GapBuffer, ref []rune, step int) {
	t.Helper()
	if got := b.String(); got != string(ref) {
		t.Fatalf("step %d: String() = %q, want %q", step, got, string(ref))
	}
	if b.Len() != len(ref) || b.Capacity()-b.GapSize() != len(ref) {
		t.Fatalf("step %d: Len() = %d cap %d gap %d, want %d", step, b.Len(), b.Capacity(), b.GapSize(), len(ref))
	}
	if b.GapSize() < 1 {
		t.Fatalf("step %d: gap closed", step)
	}
	lines := strings.Count(string(ref), "\n") + 1
	if b.LineCount() != lines {
		t.Fatalf("step %d: LineCount() = %d, want %d", step, b.LineCount(), lines)
	}
	for i := 0; i < 3; i++ {
		line := r.Intn(lines) + 1
		off, err := b.LineOffset(line)
		if err != nil || off != refLineOffset(ref, line) {
			t.Fatalf("step %d: LineOffset(%d) = %d, %v; want %d", step, line, off, err, refLineOffset(ref, line))
		}
		if got := b.FindLineNumber(off); got != line {
			t.Fatalf("step %d: FindLineNumber(LineOffset(%d)) = %d", step, line, got)
		}
		probe := r.Intn(len(ref)+3) - 1
		if got, want := b.FindLineNumber(probe), refFindLine(ref, probe); got != want {
			t.Fatalf("step %d: FindLineNumber(%d) = %d, want %d", step, probe, got, want)
		}
	}
}

func TestRandomEditsMatchReference(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234} {
		r := rand.New(rand.NewSource(seed))
		now := time.Unix(0, 0)
		b := New(WithInitialGap(2), WithClock(func() time.Time { return now }))
		var ref []rune

		for step := 0; step < 300; step++ {
			now = now.Add(time.Duration(r.Intn(1000)) * time.Millisecond)
			capture := r.Intn(4) != 0
			if len(ref) == 0 || r.Intn(3) != 0 {
				off := r.Intn(len(ref) + 1)
				text := []rune(randomText(r, 8))
				b.Insert(off, string(text), capture)
				ref = append(ref[:off], append(text, ref[off:]...)...)
			} else {
				start := r.Intn(len(ref))
				end := start + r.Intn(min(len(ref)-start, 6)+1)
				b.Delete(start, end, capture)
				ref = append(ref[:start], ref[end:]...)
			}
			checkAgainst(t, r, b, ref, step)
		}
	}
}

// Edits appended at the end never invalidate earlier undo steps, so undoing
// everything must restore the empty text and redoing must rebuild it.
func TestRandomUndoRedoRoundTrip(t *testing.T) {
	for _, seed := range []int64{3, 99} {
		r := rand.New(rand.NewSource(seed))
		now := time.Unix(0, 0)
		b := New(WithClock(func() time.Time { return now }), WithHistoryLimit(0))

		for step := 0; step < 200; step++ {
			now = now.Add(time.Duration(r.Intn(1500)) * time.Millisecond)
			n := b.Len()
			switch {
			case n == 0 || r.Intn(3) != 0:
				b.Insert(r.Intn(n+1), randomText(r, 5), true)
			default:
				start := r.Intn(n)
				b.Delete(start, min(n, start+r.Intn(4)+1), true)
			}
		}
		final := b.String()

		for b.CanUndo() {
			if b.Undo() < 0 {
				t.Fatalf("seed %d: Undo returned -1 while CanUndo", seed)
			}
		}
		if b.String() != "" {
			t.Fatalf("seed %d: after undoing everything: %q", seed, b.String())
		}
		for b.CanRedo() {
			b.Redo()
		}
		if b.String() != final {
			t.Fatalf("seed %d: after redoing everything: %q, want %q", seed, b.String(), final)
		}
	}
}
