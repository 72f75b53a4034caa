package logger

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"email":         {},
	"password":      {},
	"authorization": {},
	"token":         {},
}

// Logger is a structured logger handed to each component. A nil *Logger discards everything.
type Logger struct {
	zl *zap.Logger
}

// New builds a JSON logger, or a console logger when development is set.
func New(level string, development bool) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{zl: zl}, nil
}

func FromZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl}
}

func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// Named returns a child logger tagged with the component name.
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.raw().With(zap.String("component", component))}
}

func (l *Logger) With(fields Fields) *Logger {
	return &Logger{zl: l.raw().With(toZap(fields)...)}
}

func (l *Logger) Debug(ctx context.Context, message string, fields Fields) {
	l.raw().Debug(message, withTrace(ctx, toZap(fields))...)
}

func (l *Logger) Info(ctx context.Context, message string, fields Fields) {
	l.raw().Info(message, withTrace(ctx, toZap(fields))...)
}

func (l *Logger) Warn(ctx context.Context, message string, fields Fields) {
	l.raw().Warn(message, withTrace(ctx, toZap(fields))...)
}

func (l *Logger) Error(ctx context.Context, message string, err error, fields Fields) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.String("error", err.Error()))
	}
	l.raw().Error(message, withTrace(ctx, zf)...)
}

func (l *Logger) Sync() error {
	return l.raw().Sync()
}

func (l *Logger) raw() *zap.Logger {
	if l == nil || l.zl == nil {
		return zap.NewNop()
	}
	return l.zl
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func toZap(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if isSensitiveKey(k) {
			out = append(out, zap.String(k, "******"))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
