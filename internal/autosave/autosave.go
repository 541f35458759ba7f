// Package autosave periodically writes a modified document back to its file.
package autosave

import (
	"errors"
	"sync"
	"time"

	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/logger"
)

// Saver saves a document on a fixed interval whenever it has unsaved
// changes and a file path.
type Saver struct {
	doc      *document.Document
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}  // Signals the saver goroutine to stop
	wg       sync.WaitGroup // Waits for the goroutine to finish
}

// New creates a saver for doc. It does nothing until Start is called.
func New(doc *document.Document, interval time.Duration) *Saver {
	return &Saver{doc: doc, interval: interval}
}

// Start launches the saver goroutine. A non-positive interval or a
// second Start is a no-op.
func (s *Saver) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval <= 0 || s.stopChan != nil {
		return
	}
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.saverLoop(s.interval, s.stopChan)
	logger.DebugTagf("autosave", "AutoSave: started with interval %v", s.interval)
}

// Stop signals the saver goroutine and waits for it to exit.
func (s *Saver) Stop() {
	s.mu.Lock()
	stop := s.stopChan
	s.stopChan = nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()
	logger.DebugTagf("autosave", "AutoSave: stopped")
}

func (s *Saver) saverLoop(interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SaveIfModified(); err != nil {
				logger.Errorf("AutoSave: save failed for '%s': %v", s.doc.FilePath(), err)
			}
		case <-stop:
			return
		}
	}
}

// SaveIfModified saves the document when it has unsaved changes and a
// path. It reports whether a save was attempted.
func (s *Saver) SaveIfModified() (bool, error) {
	if !s.doc.IsModified() {
		logger.DebugTagf("autosave", "AutoSave: buffer not modified, skipping")
		return false, nil
	}
	path := s.doc.FilePath()
	if path == "" {
		logger.DebugTagf("autosave", "AutoSave: buffer is modified but has no name, skipping")
		return false, nil
	}

	logger.InfoTagf("autosave", "AutoSave: saving modified buffer: %s", path)
	if err := s.doc.Save(""); err != nil {
		if errors.Is(err, document.ErrNoFilePath) {
			return false, nil
		}
		return true, err
	}
	return true, nil
}
