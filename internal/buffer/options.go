package buffer

import (
	"time"

	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/types"
)

// Option is a functional option for configuring a GapBuffer.
type Option func(*GapBuffer)

// WithClock sets the time source used for undo merge decisions.
func WithClock(now func() time.Time) Option {
	return func(b *GapBuffer) {
		if now != nil {
			b.clock = now
		}
	}
}

// WithMergeWindow sets the longest pause between adjacent edits that
// still merge into one undo step.
func WithMergeWindow(d time.Duration) Option {
	return func(b *GapBuffer) {
		b.hist.SetMergeWindow(d)
	}
}

// WithMaxMergeSize caps the characters a merged undo step may cover.
func WithMaxMergeSize(n int) Option {
	return func(b *GapBuffer) {
		b.hist.SetMaxMergeSize(n)
	}
}

// WithHistoryLimit bounds the stored undo actions; 0 keeps all of them.
func WithHistoryLimit(n int) Option {
	return func(b *GapBuffer) {
		b.hist.SetMaxHistory(n)
	}
}

// WithInitialGap sets the free space allocated up front.
func WithInitialGap(n int) Option {
	return func(b *GapBuffer) {
		if n > 0 {
			b.initialGap = n
		}
	}
}

// WithEditHook registers fn to be called after every primitive change.
// fn runs after the buffer lock is released and may read the buffer.
func WithEditHook(fn func(types.EditInfo)) Option {
	return func(b *GapBuffer) {
		b.onEdit = fn
	}
}

// WithConfig applies the [buffer] section of the configuration.
func WithConfig(cfg config.BufferConfig) Option {
	return func(b *GapBuffer) {
		cfg = cfg.Validated()
		b.hist.SetMergeWindow(cfg.MergeWindow)
		b.hist.SetMaxMergeSize(cfg.MaxMergeSize)
		b.hist.SetMaxHistory(cfg.HistoryLimit)
		b.initialGap = cfg.InitialGap
	}
}
