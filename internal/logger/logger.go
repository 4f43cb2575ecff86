package logger

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// loopTags are the fields promoted to Sentry tags so events can be filtered by loop
var loopTags = []string{"request_id", "style", "key", "seed", "stage"}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	fields := Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}

	if userID, exists := c.Get("user_id"); exists {
		fields["user_id"] = userID
	}

	return fields
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %s", msg, formatFields(fields))
	breadcrumb(sentry.LevelInfo, category(fields), msg, fields)
}

// Warn logs a warning message. Loop warnings (a skipped score, a missing
// font) land in the "loop" breadcrumb category.
func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %s", msg, formatFields(fields))
	breadcrumb(sentry.LevelWarning, category(fields), msg, fields)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	log.Printf("[DEBUG] %s %s", msg, formatFields(fields))
	breadcrumb(sentry.LevelDebug, category(fields), msg, fields)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	withScope(sentry.LevelError, fields, func(hub *sentry.Hub) {
		hub.CaptureException(err)
	})
}

// LogToSentry sends a message directly to Sentry as an event
func LogToSentry(level sentry.Level, msg string, fields Fields) {
	withScope(level, fields, func(hub *sentry.Hub) {
		hub.CaptureMessage(msg)
	})
}

// LogAPIRequest logs a completed API request
func LogAPIRequest(c *gin.Context, duration time.Duration, statusCode int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	fields["request_id"] = c.GetString("request_id")
	fields["method"] = c.Request.Method
	fields["path"] = c.Request.URL.Path
	fields["client_ip"] = c.ClientIP()

	log.Printf("[INFO] API request completed %s", formatFields(fields))
	breadcrumb(sentry.LevelInfo, "api", "API request", fields)
}

// LogLoopGenerated logs a finished loop generation and marks it on the request trace
func LogLoopGenerated(ctx context.Context, style string, seed uint64, duration time.Duration, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["style"] = style
	fields["seed"] = seed
	fields["duration_ms"] = duration.Milliseconds()

	Info("Loop generated", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, "loop.compose")
		span.Description = style
		span.SetData("seed", seed)
		span.Finish()
	}
}

func category(fields Fields) string {
	if _, ok := fields["style"]; ok {
		return "loop"
	}
	return "log"
}

func breadcrumb(level sentry.Level, category, msg string, fields Fields) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	data := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		data[k] = v
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     string(level),
		Category: category,
		Message:  msg,
		Data:     data,
		Level:    level,
	})
}

// withScope runs capture on a scope carrying the fields as context and the loop tags
func withScope(level sentry.Level, fields Fields, capture func(hub *sentry.Hub)) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{"value": value})
		}
		for _, tag := range loopTags {
			if v, ok := fields[tag]; ok {
				scope.SetTag(tag, formatValue(v))
			}
		}
		capture(hub)
	})
}

// formatFields renders fields sorted by key, e.g. "{bpm=70, style=reggae}"
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float32, float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprint(val)
	}
}
