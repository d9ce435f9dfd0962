// Package analytics provides in-process analytics sinks and fan-out.
// Networked sinks live in pkg/adapters/mqtt and pkg/adapters/postgres.
package analytics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/ports"
)

// Nop discards every event.
type Nop struct{}

// Emit implements ports.AnalyticsSink.
func (Nop) Emit(context.Context, domain.AnalyticsEvent) error { return nil }

// LogSink writes events to a structured logger at info level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink logging to logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit implements ports.AnalyticsSink.
func (s *LogSink) Emit(ctx context.Context, e domain.AnalyticsEvent) error {
	s.logger.InfoContext(ctx, "analytics event",
		"event", e.Name,
		"page", e.Page,
		"selection_id", e.SelectionID,
		"session_id", e.SessionID,
	)
	return nil
}

// Multi fans an event out to several sinks.
// Every sink is called; their errors are joined.
type Multi []ports.AnalyticsSink

// Emit implements ports.AnalyticsSink.
func (m Multi) Emit(ctx context.Context, e domain.AnalyticsEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a function to ports.AnalyticsSink.
type Func func(context.Context, domain.AnalyticsEvent) error

// Emit implements ports.AnalyticsSink.
func (f Func) Emit(ctx context.Context, e domain.AnalyticsEvent) error { return f(ctx, e) }
