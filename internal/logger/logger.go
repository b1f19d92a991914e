package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

// RequestIDKey is the context key under which middleware stores the request id
const RequestIDKey ctxKey = "request_id"

const serviceName = "loan-backend"

// helperCallerSkip skips logMessage and the exported helper so the caller
// field points at the code that logged.
const helperCallerSkip = 2

var (
	log   *zap.Logger // used by Info/Debug/Warn/Error
	typed *zap.Logger // returned by L for direct zap calls
)

func init() {
	l, _ := build("info", "json")
	setLogger(l)
}

// setLogger installs l, which must carry helperCallerSkip
func setLogger(l *zap.Logger) {
	log = l
	typed = l.WithOptions(zap.AddCallerSkip(-helperCallerSkip))
}

// Init rebuilds the global logger from configured level and encoding
// ("json" or "console").
func Init(level, format string) error {
	l, err := build(level, format)
	if err != nil {
		return err
	}
	setLogger(l)
	return nil
}

func build(level, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.Encoding = "json"
	if strings.ToLower(format) == "console" {
		config.Encoding = "console"
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "log_level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stdout"}
	config.InitialFields = map[string]interface{}{"service_name": serviceName}

	return config.Build(zap.AddCallerSkip(helperCallerSkip))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// L exposes the underlying zap logger for callers that want typed fields
func L() *zap.Logger {
	return typed
}

// Sync flushes buffered entries; call before exit
func Sync() {
	_ = log.Sync()
}

func Info(args ...interface{}) {
	logMessage(zap.InfoLevel, args...)
}

func Debug(args ...interface{}) {
	logMessage(zap.DebugLevel, args...)
}

func Warn(args ...interface{}) {
	logMessage(zap.WarnLevel, args...)
}

func Error(args ...interface{}) {
	logMessage(zap.ErrorLevel, args...)
}

// logMessage accepts an optional context.Context as the first argument,
// followed by a printf-style format and its arguments.
func logMessage(level zapcore.Level, args ...interface{}) {
	var ctx context.Context
	if len(args) > 0 {
		if c, ok := args[0].(context.Context); ok {
			ctx = c
			args = args[1:]
		}
	}

	msg := formatMessage(args...)
	fields := contextFields(ctx)

	switch level {
	case zap.DebugLevel:
		log.Debug(msg, fields...)
	case zap.InfoLevel:
		log.Info(msg, fields...)
	case zap.WarnLevel:
		log.Warn(msg, fields...)
	case zap.ErrorLevel:
		log.Error(msg, fields...)
	}
}

func formatMessage(args ...interface{}) string {
	if len(args) == 0 {
		return ""
	}
	msg, ok := args[0].(string)
	if !ok {
		msg = fmt.Sprintf("%v", args[0])
	}

	if len(args) > 1 {
		msg = fmt.Sprintf(msg, args[1:]...)
	}
	return msg
}

func contextFields(ctx context.Context) []zapcore.Field {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return []zapcore.Field{zap.String("request_id", id)}
	}
	return nil
}

// WithRequestID returns a copy of ctx carrying the request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
