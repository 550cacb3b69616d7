// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"vibefeed/internal/models"
	"vibefeed/internal/reaction"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	GlobalLogger = NewLogger(os.Stdout, "info", "json")
}

// NewLogger builds a logger writing to w. Format is "json" or "text".
func NewLogger(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// InitLogger replaces GlobalLogger.
func InitLogger(w io.Writer, level, format string) {
	GlobalLogger = NewLogger(w, level, format)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying a correlation ID.
const CorrelationID LogContextKey = "correlation_id"

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// FeedLogger provides structured logging for feed interactions.
type FeedLogger struct {
	session string
	logger  *Logger
}

// NewFeedLogger creates a FeedLogger tagged with a session name. A nil
// logger means GlobalLogger at the time of each call.
func NewFeedLogger(session string, logger *Logger) *FeedLogger {
	return &FeedLogger{session: session, logger: logger}
}

func (l *FeedLogger) log() *Logger {
	if l.logger != nil {
		return l.logger
	}
	return GlobalLogger
}

// LogReaction logs a reaction transition.
func (l *FeedLogger) LogReaction(postID string, ev reaction.Event, fx reaction.Effects, likes int) {
	l.log().Debug("reaction applied",
		slog.String("session", l.session),
		slog.String("post_id", postID),
		slog.String("event", ev.Type.String()),
		slog.String("kind", ev.Kind.String()),
		slog.String("outcome", string(fx.Outcome)),
		slog.Int("likes", likes),
	)
}

// LogComment logs a locally added comment.
func (l *FeedLogger) LogComment(postID string, c models.Comment, total int) {
	l.log().Debug("comment added",
		slog.String("session", l.session),
		slog.String("post_id", postID),
		slog.String("comment_id", c.ID),
		slog.Int("comment_count", total),
	)
}

// LogPublish logs a new post.
func (l *FeedLogger) LogPublish(postID string) {
	l.log().Info("post published",
		slog.String("session", l.session),
		slog.String("post_id", postID),
	)
}

// LogExpiry logs feedback events removed by expiry.
func (l *FeedLogger) LogExpiry(postID string, evs []models.FeedbackEvent) {
	ids := make([]uint64, len(evs))
	for i, ev := range evs {
		ids[i] = ev.ID
	}
	l.log().Debug("feedback expired",
		slog.String("session", l.session),
		slog.String("post_id", postID),
		slog.Any("event_ids", ids),
	)
}

// LogLifecycle logs a session lifecycle event.
func (l *FeedLogger) LogLifecycle(ctx context.Context, event string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("session", l.session),
		slog.String("event", event),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.log().InfoContext(ctx, "session lifecycle", attrs...)
}

// LogError logs a failed operation with any extra attributes.
func (l *FeedLogger) LogError(ctx context.Context, err error, operation string, extra ...slog.Attr) {
	attrs := []any{
		slog.String("session", l.session),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
		slog.String("error", err.Error()),
	}
	for _, a := range extra {
		attrs = append(attrs, a)
	}
	l.log().ErrorContext(ctx, "feed error", attrs...)
}
