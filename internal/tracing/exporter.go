package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	traceFileMaxSizeMB  = 10
	traceFileMaxBackups = 3
)

var errExporterClosed = errors.New("trace exporter closed")

// FileExporter writes one JSON line per span to a size-rotated file.
type FileExporter struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewFileExporter returns an exporter appending to path. The file and its
// directory are created on the first export.
func NewFileExporter(path string) (*FileExporter, error) {
	if path == "" {
		return nil, fmt.Errorf("trace file path is empty")
	}
	return &FileExporter{out: &lumberjack.Logger{
		Filename:   filepath.Clean(path),
		MaxSize:    traceFileMaxSizeMB,
		MaxBackups: traceFileMaxBackups,
	}}, nil
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.out == nil {
		return errExporterClosed
	}
	for _, span := range spans {
		line, err := json.Marshal(newSpanRecord(span))
		if err != nil {
			return fmt.Errorf("encode span %s: %w", span.Name(), err)
		}
		if _, err := e.out.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write span: %w", err)
		}
	}
	return nil
}

// Shutdown closes the file. Exports after shutdown fail.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.out == nil {
		return nil
	}
	err := e.out.Close()
	e.out = nil
	return err
}

// SpanRecord is one line of the trace file. Search attributes are lifted
// into fields; anything else lands in Extra.
type SpanRecord struct {
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	ParentID   string         `json:"parent_id,omitempty"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Start      time.Time      `json:"start"`
	DurationMs float64        `json:"duration_ms"`
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Service    string         `json:"service,omitempty"`
	Type       string         `json:"type,omitempty"`
	URL        string         `json:"url,omitempty"`
	Text       string         `json:"text,omitempty"`
	Matched    int64          `json:"matched,omitempty"`
	CacheHit   bool           `json:"cache_hit,omitempty"`
	ErrorCode  string         `json:"error_code,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

func newSpanRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		TraceID:    span.SpanContext().TraceID().String(),
		SpanID:     span.SpanContext().SpanID().String(),
		Name:       span.Name(),
		Kind:       span.SpanKind().String(),
		Start:      span.StartTime().UTC(),
		DurationMs: float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000,
		Status:     statusName(span.Status().Code),
		Message:    span.Status().Description,
	}
	if parent := span.Parent(); parent.IsValid() {
		rec.ParentID = parent.SpanID().String()
	}
	for _, kv := range span.Attributes() {
		rec.setAttribute(kv)
	}
	return rec
}

func (r *SpanRecord) setAttribute(kv attribute.KeyValue) {
	switch string(kv.Key) {
	case AttrServiceName:
		r.Service = kv.Value.AsString()
	case AttrServiceType:
		r.Type = kv.Value.AsString()
	case AttrServiceURL:
		r.URL = kv.Value.AsString()
	case AttrSearchText:
		r.Text = kv.Value.AsString()
	case AttrMatched:
		r.Matched = kv.Value.AsInt64()
	case AttrCacheHit:
		r.CacheHit = kv.Value.AsBool()
	case AttrErrorCode:
		r.ErrorCode = kv.Value.AsString()
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[string(kv.Key)] = kv.Value.AsInterface()
	}
}

func statusName(code codes.Code) string {
	switch code {
	case codes.Ok:
		return "ok"
	case codes.Error:
		return "error"
	default:
		return "unset"
	}
}
