package logger

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config represents logger configuration
type Config struct {
	Level          string // debug, info, warn, error
	Format         string // json, console
	OutputPath     string // stdout, stderr, or file path
	EnableSampling bool   // enable sampling for long-running processes
	ServiceName    string // service name for logs
	ServiceVersion string // service version for logs
	Environment    string // environment (production, development, etc.)
}

// NewWithConfig creates a zap logger writing to the configured output.
// File outputs are rotated through lumberjack.
func NewWithConfig(cfg Config) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		if cfg.Environment != "production" && isTerminalOutput(cfg.OutputPath) {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.New("unsupported log format: " + cfg.Format)
	}

	core := zapcore.NewCore(encoder, getWriteSyncer(cfg.OutputPath), ParseLevel(cfg.Level))

	if cfg.EnableSampling {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 10)
	}

	l := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return l.With(
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.String("environment", cfg.Environment),
	), nil
}

// ParseLevel converts a string log level to zapcore.Level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "dpanic":
		return zapcore.DPanicLevel
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func isTerminalOutput(outputPath string) bool {
	return outputPath == "" || outputPath == "stdout" || outputPath == "stderr"
}

// getWriteSyncer returns write syncer based on output path
func getWriteSyncer(outputPath string) zapcore.WriteSyncer {
	switch outputPath {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	default:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   outputPath,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}
}

// Sync flushes the logger, ignoring the EINVAL/ENOTTY that stdout and stderr
// report on most platforms.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// ContextKey is the type for context keys
type ContextKey string

const (
	// RunIDKey is the context key for a seeding run ID
	RunIDKey ContextKey = "run_id"
	// RequestIDKey is the context key for an HTTP request ID
	RequestIDKey ContextKey = "request_id"
)

// WithContext returns a logger carrying the run_id and request_id found in ctx.
func WithContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 2)

	if id := GetRunID(ctx); id != "" {
		fields = append(fields, zap.String("run_id", id))
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
