// Package monitoring provides structured logging and metrics for the
// application.
package monitoring

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string
	Format      string // "json" or "console"
	Output      string // "stdout", "stderr", or file path
	ServiceName string
	Environment string
	Version     string
}

// Logger wraps zap logger with workflow-aware helpers
type Logger struct {
	*zap.Logger
	config LogConfig
}

// NewLogger creates a new structured logger
func NewLogger(config LogConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder

	if config.Format == "json" {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.MessageKey = "message"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	switch config.Output {
	case "stdout", "":
		writeSyncer = zapcore.AddSync(os.Stdout)
	case "stderr":
		writeSyncer = zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", config.Output, err)
		}
		writeSyncer = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	logger = logger.With(
		zap.String("service", config.ServiceName),
		zap.String("environment", config.Environment),
		zap.String("version", config.Version),
	)

	return &Logger{
		Logger: logger,
		config: config,
	}, nil
}

// AIRequestLogger logs AI gateway request details
func (l *Logger) AIRequestLogger(ctx context.Context, provider, model, operation string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	}

	if err != nil {
		l.Error("AI request failed", append(fields, zap.Error(err))...)
	} else {
		l.Info("AI request completed", fields...)
	}
}

// WorkflowLogger logs the outcome of an orchestrated workflow
func (l *Logger) WorkflowLogger(ctx context.Context, workflow string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("workflow", workflow),
		zap.Duration("duration", duration),
	}

	if err != nil {
		l.Error("Workflow failed", append(fields, zap.Error(err))...)
	} else {
		l.Info("Workflow completed", fields...)
	}
}
