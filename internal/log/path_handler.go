package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// pathKeys are attribute keys whose string values are file system paths.
var pathKeys = map[string]bool{
	"path":   true,
	"file":   true,
	"dir":    true,
	"source": true,
	"old":    true,
	"new":    true,
	"cache":  true,
	"config": true,
	"output": true,
}

// isPathKey reports whether an attribute key names a path.
func isPathKey(key string) bool {
	key = strings.ToLower(key)
	if pathKeys[key] {
		return true
	}
	return strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_dir") || strings.HasSuffix(key, "_source")
}

// PathHandler wraps an slog.Handler and rewrites path attributes under the
// home directory to start with "~".
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the home directory prefix; empty disables rewriting.
	home string
}

// NewPathHandler creates a PathHandler wrapping the given handler.
// If handler is nil, the returned PathHandler uses slog.Default().Handler().
func NewPathHandler(handler slog.Handler) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &PathHandler{handler: handler, home: filepath.Clean(home)}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if a.Value.Kind() != slog.KindString || !isPathKey(a.Key) {
		return a
	}
	return slog.String(a.Key, h.ShortenPath(a.Value.String()))
}

// ShortenPath replaces a leading home directory with "~".
// Other values are returned unchanged.
func (h *PathHandler) ShortenPath(p string) string {
	if h.home == "" || h.home == "." || h.home == string(filepath.Separator) {
		return p
	}
	if p == h.home {
		return "~"
	}
	if strings.HasPrefix(p, h.home+string(filepath.Separator)) {
		return "~" + p[len(h.home):]
	}
	return p
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger whose path attributes are shortened.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewPathHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a JSON slog.Logger whose path attributes are
// shortened. The serve command logs with it.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewPathHandler(slog.NewJSONHandler(w, opts)))
}
