package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const (
	contextKeyWideEvent contextKey = "wide_event"
	contextKeyTraceID   contextKey = "trace_id"
)

// WideEvent is a single structured log entry describing one request. It is
// filled in as the request passes through middleware, handlers and pipeline
// stages, then emitted once.
type WideEvent struct {
	mu sync.Mutex

	// Core identifiers
	TraceID   string    `json:"trace_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	// Request metadata
	HTTPMethod     string `json:"http_method,omitempty"`
	HTTPPath       string `json:"http_path,omitempty"`
	HTTPStatusCode int    `json:"http_status_code,omitempty"`
	HTTPDurationMs int64  `json:"http_duration_ms,omitempty"`

	// Identity and account
	UserID       string `json:"user_id,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	Plan         string `json:"plan,omitempty"`
	CreditsUsed  int    `json:"credits_used,omitempty"`
	CreditsLimit int    `json:"credits_limit,omitempty"`

	// Document context
	FileName  string `json:"file_name,omitempty"`
	SourceRef string `json:"source_ref,omitempty"`
	SummaryID string `json:"summary_id,omitempty"`
	Model     string `json:"model,omitempty"`

	// Pipeline context
	PipelineStage string `json:"pipeline_stage,omitempty"`
	StageDuration int64  `json:"stage_duration_ms,omitempty"`

	// Billing context
	BillingEventID   string `json:"billing_event_id,omitempty"`
	BillingEventType string `json:"billing_event_type,omitempty"`
	BillingOutcome   string `json:"billing_outcome,omitempty"`

	// Error tracking
	Error          string `json:"error,omitempty"`
	ErrorStage     string `json:"error_stage,omitempty"`
	PanicRecovered bool   `json:"panic_recovered,omitempty"`

	// Additional metadata
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewWideEvent creates a new WideEvent with a trace ID and timestamp
func NewWideEvent(eventType string) *WideEvent {
	return &WideEvent{
		TraceID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
		Metadata:  make(map[string]interface{}),
	}
}

// WithContext attaches a WideEvent to a context
func WithContext(ctx context.Context, event *WideEvent) context.Context {
	ctx = context.WithValue(ctx, contextKeyWideEvent, event)
	ctx = context.WithValue(ctx, contextKeyTraceID, event.TraceID)
	return ctx
}

// FromContext retrieves the WideEvent from a context
func FromContext(ctx context.Context) *WideEvent {
	if event, ok := ctx.Value(contextKeyWideEvent).(*WideEvent); ok {
		return event
	}
	return nil
}

// GetTraceID retrieves just the trace ID from context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(contextKeyTraceID).(string); ok {
		return traceID
	}
	return ""
}

func enrich(ctx context.Context, fn func(*WideEvent)) {
	if event := FromContext(ctx); event != nil {
		event.mu.Lock()
		fn(event)
		event.mu.Unlock()
	}
}

func EnrichHTTP(ctx context.Context, method, path string) {
	enrich(ctx, func(e *WideEvent) {
		e.HTTPMethod = method
		e.HTTPPath = path
	})
}

func EnrichHTTPStatus(ctx context.Context, statusCode int) {
	enrich(ctx, func(e *WideEvent) { e.HTTPStatusCode = statusCode })
}

func EnrichHTTPDuration(ctx context.Context, duration time.Duration) {
	enrich(ctx, func(e *WideEvent) { e.HTTPDurationMs = duration.Milliseconds() })
}

func EnrichUser(ctx context.Context, userID, email string) {
	enrich(ctx, func(e *WideEvent) {
		e.UserID = userID
		e.UserEmail = email
	})
}

func EnrichAccount(ctx context.Context, plan string, creditsUsed, creditsLimit int) {
	enrich(ctx, func(e *WideEvent) {
		e.Plan = plan
		e.CreditsUsed = creditsUsed
		e.CreditsLimit = creditsLimit
	})
}

func EnrichDocument(ctx context.Context, fileName, sourceRef string) {
	enrich(ctx, func(e *WideEvent) {
		e.FileName = fileName
		e.SourceRef = sourceRef
	})
}

func EnrichSummary(ctx context.Context, summaryID string) {
	enrich(ctx, func(e *WideEvent) { e.SummaryID = summaryID })
}

func EnrichModel(ctx context.Context, model string) {
	enrich(ctx, func(e *WideEvent) { e.Model = model })
}

func EnrichStage(ctx context.Context, stage string, duration time.Duration) {
	enrich(ctx, func(e *WideEvent) {
		e.PipelineStage = stage
		e.StageDuration = duration.Milliseconds()
	})
}

func EnrichBillingEvent(ctx context.Context, eventID, eventType string) {
	enrich(ctx, func(e *WideEvent) {
		e.BillingEventID = eventID
		e.BillingEventType = eventType
	})
}

func EnrichBillingOutcome(ctx context.Context, outcome string) {
	enrich(ctx, func(e *WideEvent) { e.BillingOutcome = outcome })
}

func EnrichError(ctx context.Context, err error, stage string) {
	if err == nil {
		return
	}
	enrich(ctx, func(e *WideEvent) {
		e.Error = err.Error()
		e.ErrorStage = stage
	})
}

func EnrichPanic(ctx context.Context) {
	enrich(ctx, func(e *WideEvent) { e.PanicRecovered = true })
}

func EnrichMetadata(ctx context.Context, key string, value interface{}) {
	enrich(ctx, func(e *WideEvent) { e.Metadata[key] = value })
}

// Emit outputs the WideEvent as a structured log
func Emit(ctx context.Context) {
	event := FromContext(ctx)
	if event == nil {
		return
	}

	event.mu.Lock()
	attrs := event.attrs()
	failed := event.Error != "" || event.PanicRecovered
	event.mu.Unlock()

	level := slog.LevelInfo
	if failed {
		level = slog.LevelError
	}

	slog.LogAttrs(ctx, level, "wide_event", attrs...)
}

func (e *WideEvent) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("trace_id", e.TraceID),
		slog.String("event_type", e.EventType),
		slog.Time("timestamp", e.Timestamp),
	}

	str := func(key, value string) {
		if value != "" {
			attrs = append(attrs, slog.String(key, value))
		}
	}
	num := func(key string, value int64) {
		if value != 0 {
			attrs = append(attrs, slog.Int64(key, value))
		}
	}

	str("http_method", e.HTTPMethod)
	str("http_path", e.HTTPPath)
	num("http_status_code", int64(e.HTTPStatusCode))
	num("http_duration_ms", e.HTTPDurationMs)

	str("user_id", e.UserID)
	str("user_email", e.UserEmail)
	str("plan", e.Plan)
	if e.Plan != "" {
		attrs = append(attrs, slog.Int("credits_used", e.CreditsUsed), slog.Int("credits_limit", e.CreditsLimit))
	}

	str("file_name", e.FileName)
	str("source_ref", e.SourceRef)
	str("summary_id", e.SummaryID)
	str("model", e.Model)

	str("pipeline_stage", e.PipelineStage)
	num("stage_duration_ms", e.StageDuration)

	str("billing_event_id", e.BillingEventID)
	str("billing_event_type", e.BillingEventType)
	str("billing_outcome", e.BillingOutcome)

	str("error", e.Error)
	str("error_stage", e.ErrorStage)
	if e.PanicRecovered {
		attrs = append(attrs, slog.Bool("panic_recovered", true))
	}

	if len(e.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", e.Metadata))
	}
	return attrs
}

// EmitStageEvent logs one pipeline stage outcome, inheriting identity and
// document fields from the request's event.
func EmitStageEvent(ctx context.Context, stage string, duration time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(ctx)),
		slog.String("event_type", "pipeline.stage"),
		slog.String("pipeline_stage", stage),
		slog.Int64("stage_duration_ms", duration.Milliseconds()),
	}

	if parent := FromContext(ctx); parent != nil {
		parent.mu.Lock()
		if parent.UserID != "" {
			attrs = append(attrs, slog.String("user_id", parent.UserID))
		}
		if parent.SourceRef != "" {
			attrs = append(attrs, slog.String("source_ref", parent.SourceRef))
		}
		parent.mu.Unlock()
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		slog.LogAttrs(ctx, slog.LevelError, "stage_event", attrs...)
		return
	}
	slog.LogAttrs(ctx, slog.LevelInfo, "stage_event", attrs...)
}
