package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler to drop records by tag,
// originating package or originating file.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
	attrTag     string // tag attached through WithAttrs
}

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

func foundInSet(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, found := set[key]
	return found
}

// Handle applies filtering logic before passing the record to the base handler.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	if pkg, file := recordOrigin(r); file != "" {
		if foundInSet(h.cfg.disabledPackagesSet, pkg) {
			return nil
		}
		if h.cfg.enabledPackagesSet != nil && !foundInSet(h.cfg.enabledPackagesSet, pkg) {
			return nil
		}
		if foundInSet(h.cfg.disabledFilesSet, file) {
			return nil
		}
		if h.cfg.enabledFilesSet != nil && !foundInSet(h.cfg.enabledFilesSet, file) {
			return nil
		}
	}

	tag := h.attrTag
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})

	if tag != "" {
		if foundInSet(h.cfg.disabledTagsSet, tag) {
			return nil
		}
		if h.cfg.enabledTagsSet != nil && !foundInSet(h.cfg.enabledTagsSet, tag) {
			return nil
		}
	} else if h.cfg.enabledTagsSet != nil {
		// Filtering for specific tags drops untagged messages.
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

// recordOrigin returns the lowercase directory and file name of the record's
// caller.
func recordOrigin(r slog.Record) (pkg, file string) {
	if r.PC == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return "", ""
	}
	pkg = strings.ToLower(filepath.Base(filepath.Dir(frame.File)))
	file = strings.ToLower(filepath.Base(frame.File))
	return pkg, file
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
	next.attrTag = h.attrTag
	for _, a := range attrs {
		if a.Key == tagKey {
			next.attrTag = strings.ToLower(a.Value.String())
		}
	}
	return next
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	next := newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
	next.attrTag = h.attrTag
	return next
}
