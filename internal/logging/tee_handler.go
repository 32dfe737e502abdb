package logging

import (
	"context"
	"log/slog"
)

// TeeHandler duplicates each record to every target handler that accepts its
// level. One failing target does not stop delivery to the others; the first
// error is reported.
type TeeHandler struct {
	targets []slog.Handler
}

func NewTeeHandler(targets ...slog.Handler) *TeeHandler {
	return &TeeHandler{targets: targets}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.targets {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range t.targets {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record past this call.
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(t.targets))
	for i, h := range t.targets {
		derived[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{targets: derived}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(t.targets))
	for i, h := range t.targets {
		derived[i] = h.WithGroup(name)
	}
	return &TeeHandler{targets: derived}
}
