package sensorlog

import (
	"log/slog"
)

// Parsing stages reported through trace events.
const (
	StageHeader  = "header"
	StageRegion  = "region"
	StageDemux   = "demux"
	StagePreview = "preview"
)

// TraceEvent is one structured diagnostic emitted while parsing a file.
// The engine stays silent on its own; callers inject a sink to observe
// header decisions, region boundaries and dropped rows.
type TraceEvent struct {
	Stage   string
	Message string
	Attrs   map[string]any
}

// TraceSink receives parsing diagnostics.
type TraceSink interface {
	Event(e TraceEvent)
}

// TraceFunc adapts a function to the TraceSink interface.
type TraceFunc func(e TraceEvent)

func (f TraceFunc) Event(e TraceEvent) { f(e) }

// Discard is a sink that drops all events. It is the engine default.
var Discard TraceSink = TraceFunc(func(TraceEvent) {})

// SlogSink bridges trace events to a slog logger at debug level.
func SlogSink(logger *slog.Logger) TraceSink {
	return TraceFunc(func(e TraceEvent) {
		attrs := make([]any, 0, len(e.Attrs)+1)
		attrs = append(attrs, slog.String("stage", e.Stage))
		for k, v := range e.Attrs {
			attrs = append(attrs, slog.Any(k, v))
		}
		logger.Debug(e.Message, attrs...)
	})
}
