// Package wordindex keeps a sorted list of the words in a document for
// completion and statistics. It only reads the buffer.
package wordindex

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/utils"
	"github.com/rivo/uniseg"
)

// Stats summarizes a text.
type Stats struct {
	Lines int
	Words int
	Runes int
}

// Indexer rebuilds its word list a short delay after the document stops changing.
type Indexer struct {
	doc       *document.Document
	delay     time.Duration
	debouncer utils.Debouncer
	subs      []event.SubscriptionID

	mu       sync.RWMutex
	words    []string // Sorted, unique
	stats    Stats
	indexed  buffer.Reader
	version  uint64
	closed   bool
	onUpdate func()
}

// New creates an indexer for doc and schedules the first build.
func New(doc *document.Document, delay time.Duration) *Indexer {
	ix := &Indexer{doc: doc, delay: delay}
	schedule := func(event.Event) bool {
		ix.schedule()
		return false
	}
	ix.subs = append(ix.subs,
		doc.Events().Subscribe(event.TypeBufferModified, schedule),
		doc.Events().Subscribe(event.TypeBufferLoaded, schedule),
	)
	ix.schedule()
	return ix
}

// OnUpdate registers fn to run on the indexing goroutine after each rebuild.
func (ix *Indexer) OnUpdate(fn func()) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.onUpdate = fn
}

func (ix *Indexer) schedule() {
	ix.mu.RLock()
	closed := ix.closed
	ix.mu.RUnlock()
	if closed {
		return
	}
	ix.debouncer.Debounce(ix.delay, ix.Rebuild)
}

// Rebuild indexes the current buffer now. It does nothing when the buffer
// has not changed since the last build.
func (ix *Indexer) Rebuild() {
	ix.rebuildFrom(ix.doc.Buffer())
}

func (ix *Indexer) rebuildFrom(buf buffer.Reader) {
	version := buf.Version()

	ix.mu.RLock()
	fresh := ix.indexed == buf && ix.version == version && ix.words != nil
	closed := ix.closed
	ix.mu.RUnlock()
	if fresh || closed {
		return
	}

	text := buf.String()
	words, stats := index(text)
	stats.Lines = buf.LineCount()

	ix.mu.Lock()
	ix.words = words
	ix.stats = stats
	ix.indexed = buf
	ix.version = version
	fn := ix.onUpdate
	ix.mu.Unlock()

	logger.DebugTagf("index", "Indexer: %d unique words at version %d", len(words), version)
	if fn != nil {
		fn()
	}
}

// Words returns a copy of the sorted word list.
func (ix *Indexer) Words() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.words...)
}

// Stats returns the counts from the last build.
func (ix *Indexer) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.stats
}

// Complete returns the indexed words that start with prefix, excluding
// prefix itself, in sorted order.
func (ix *Indexer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []string
	for i := sort.SearchStrings(ix.words, prefix); i < len(ix.words); i++ {
		w := ix.words[i]
		if !strings.HasPrefix(w, prefix) {
			break
		}
		if w != prefix {
			out = append(out, w)
		}
	}
	return out
}

// Close stops listening to the document and cancels a pending rebuild.
func (ix *Indexer) Close() {
	ix.mu.Lock()
	ix.closed = true
	ix.mu.Unlock()
	for _, id := range ix.subs {
		ix.doc.Events().Unsubscribe(id)
	}
	ix.debouncer.Stop()
}

// Count computes the statistics of text without an indexer.
func Count(text string) Stats {
	_, stats := index(text)
	stats.Lines = strings.Count(text, "\n") + 1
	return stats
}

// IsWord reports whether a word segment holds a letter or digit, as
// opposed to spaces or punctuation.
func IsWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return true
		}
	}
	return false
}

func index(text string) ([]string, Stats) {
	var stats Stats
	seen := make(map[string]struct{})
	state := -1
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		stats.Runes += len([]rune(word))
		if !IsWord(word) {
			continue
		}
		stats.Words++
		seen[word] = struct{}{}
	}

	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words, stats
}
