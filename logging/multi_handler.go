package logging

import (
	"context"
	"log/slog"
	"sync"
)

// MultiHandler fans every record out to a fixed set of destination
// handlers, e.g. the tinted console plus the sqlite log store. Each
// destination applies its own level filter in Handle.
type MultiHandler struct {
	mu       *sync.Mutex
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers, mu: &sync.Mutex{}}
}

// Enabled reports true unconditionally; per-destination filtering
// happens in the destinations themselves.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, dest := range h.handlers {
		if err := dest.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.handlers = make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		clone.handlers[i] = dest.WithGroup(name)
	}
	return &clone
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.handlers = make([]slog.Handler, len(h.handlers))
	for i, dest := range h.handlers {
		clone.handlers[i] = dest.WithAttrs(attrs)
	}
	return &clone
}
