// Package document ties a gap buffer to a file on disk and announces its
// changes on an event bus.
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/event"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/types"
)

// ErrNoFilePath is returned by Save when the document was never given a path.
var ErrNoFilePath = errors.New("no file path specified for saving")

// Document owns the buffer being edited. Load swaps in a fresh buffer, so
// callers should fetch Buffer() again after a TypeBufferLoaded event.
type Document struct {
	mu           sync.Mutex
	buf          *buffer.GapBuffer
	filePath     string
	crlf         bool // The file on disk used \r\n line endings
	savedVersion uint64

	cfg    config.BufferConfig
	opts   []buffer.Option
	events *event.Manager
}

// New creates an empty, unnamed document. Extra buffer options are applied
// to every buffer the document creates.
func New(cfg config.BufferConfig, opts ...buffer.Option) *Document {
	d := &Document{
		cfg:    cfg,
		opts:   opts,
		events: event.NewManager(),
	}
	d.buf = d.newBuffer("")
	return d
}

// Open creates a document and loads filePath into it.
func Open(filePath string, cfg config.BufferConfig, opts ...buffer.Option) (*Document, error) {
	d := New(cfg, opts...)
	if err := d.Load(filePath); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) newBuffer(text string) *buffer.GapBuffer {
	opts := make([]buffer.Option, 0, len(d.opts)+2)
	opts = append(opts, buffer.WithConfig(d.cfg))
	opts = append(opts, d.opts...)
	opts = append(opts, buffer.WithEditHook(d.onEdit))
	return buffer.NewFromString(text, opts...)
}

func (d *Document) onEdit(e types.EditInfo) {
	d.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: e})
}

// Load replaces the buffer and its history with the contents of filePath.
// A missing file yields an empty document that will be created on save.
func (d *Document) Load(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}

	text := string(content)
	crlf := strings.Contains(text, "\r\n")
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	buf := d.newBuffer(text)

	d.mu.Lock()
	d.buf = buf
	d.filePath = filePath
	d.crlf = crlf
	d.savedVersion = buf.Version()
	d.mu.Unlock()

	logger.Infof("Document: loaded '%s' (%d runes, %d lines)", filePath, buf.Len(), buf.LineCount())
	d.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: filePath})
	return nil
}

// Save writes the text to filePath, or to the current path when filePath
// is empty. Line endings are written back the way they were loaded.
func (d *Document) Save(filePath string) error {
	d.mu.Lock()
	path := d.filePath
	if filePath != "" {
		path = filePath
	}
	buf, crlf := d.buf, d.crlf
	d.mu.Unlock()

	if path == "" {
		return ErrNoFilePath
	}

	version := buf.Version()
	text := buf.String()
	if crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	d.mu.Lock()
	d.filePath = path
	d.savedVersion = version
	d.mu.Unlock()

	logger.Infof("Document: saved '%s'", path)
	d.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	return nil
}

// Buffer returns the current buffer.
func (d *Document) Buffer() *buffer.GapBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf
}

// FilePath returns the path the document was loaded from or last saved to.
func (d *Document) FilePath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filePath
}

// IsModified reports whether the buffer changed since the last load or save.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	buf, saved := d.buf, d.savedVersion
	d.mu.Unlock()
	return buf.Version() != saved
}

// Events returns the bus the document dispatches on.
func (d *Document) Events() *event.Manager {
	return d.events
}
