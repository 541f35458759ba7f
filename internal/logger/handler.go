package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to add custom filtering.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config // Reference to processed config
	tag         string  // Tag inherited through WithAttrs
}

// newFilteringHandler creates a handler with filtering capabilities.
func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{
		baseHandler: base,
		cfg:         cfg,
	}
}

// Enabled checks if the level is enabled by the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

// Helper function for set lookup
func foundInSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, found := set[key]
	return found
}

// passes applies the disabled-overrides-enabled rule shared by every filter kind.
func passes(kind, value string, enabled, disabled map[string]struct{}) bool {
	if foundInSet(disabled, value) {
		if debugFilter {
			fmt.Fprintf(os.Stderr, "[FILTER] FILTERED OUT: disabled %s '%s'\n", kind, value)
		}
		return false
	}
	if enabled != nil && !foundInSet(enabled, value) {
		if debugFilter {
			fmt.Fprintf(os.Stderr, "[FILTER] FILTERED OUT: %s '%s' not in enabled list\n", kind, value)
		}
		return false
	}
	return true
}

// recordSource resolves the package directory and file name of a record.
func recordSource(r slog.Record) (pkg, file string, ok bool) {
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != slog.SourceKey {
			return true
		}
		if source, isSource := a.Value.Any().(*slog.Source); isSource && source != nil && source.File != "" {
			file = filepath.Base(source.File)
			pkg = filepath.Base(filepath.Dir(source.File))
			ok = true
		}
		return false
	})
	if ok || r.PC == 0 {
		return pkg, file, ok
	}

	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] Message: Level=%s, Msg=%s\n", r.Level, r.Message)
	}

	if pkg, file, ok := recordSource(r); ok {
		if !passes("package", strings.ToLower(pkg), h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet) {
			return nil
		}
		if !passes("file", strings.ToLower(file), h.cfg.enabledFilesSet, h.cfg.disabledFilesSet) {
			return nil
		}
	}

	tag := h.tag
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})

	if tag != "" {
		if !passes("tag", tag, h.cfg.enabledTagsSet, h.cfg.disabledTagsSet) {
			return nil
		}
	} else if h.cfg.enabledTagsSet != nil {
		// Specific tags requested and this message has none.
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
	next.tag = h.tag
	for _, a := range attrs {
		if a.Key == tagKey {
			next.tag = strings.ToLower(a.Value.String())
		}
	}
	return next
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	next := newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
	next.tag = h.tag
	return next
}
