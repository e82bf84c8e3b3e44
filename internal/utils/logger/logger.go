// internal/utils/logger/logger.go
package logger

import (
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger расширяет функционал zap.Logger
type Logger struct {
	*zap.Logger
	config *Config
}

// New создает логгер: консоль в stdout и JSON-файл с ротацией.
func New(cfg *Config) (*Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter создает логгер, выводящий консольные записи в console.
// TUI передает сюда io.Discard, чтобы логи не ломали экран.
func NewWithWriter(cfg *Config, console io.Writer) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Консоль в development-режиме использует ключи разработчика,
	// схема JSON-файла от режима не зависит.
	consoleConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		consoleConfig = zap.NewDevelopmentEncoderConfig()
	}
	consoleConfig = withCommonKeys(consoleConfig)
	fileConfig := withCommonKeys(zap.NewProductionEncoderConfig())

	level := zapcore.InfoLevel
	if cfg.Development {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(console), level),
	}

	// Настройка ротации логов
	if cfg.LogFile != "" {
		logRotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(logRotator), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

func withCommonKeys(encoderConfig zapcore.EncoderConfig) zapcore.EncoderConfig {
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return encoderConfig
}

// WithOperation добавляет к логгеру имя операции и correlation_id.
func WithOperation(base *zap.Logger, operation string) *zap.Logger {
	return base.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// Sync реализует безопасный вызов Sync.
// Терминалы и пайпы не поддерживают fsync (EINVAL, ENOTTY), такие ошибки отбрасываются.
func (l *Logger) Sync() error {
	var kept error
	for _, err := range multierr.Errors(l.Logger.Sync()) {
		if isUnsyncable(err) {
			continue
		}
		kept = multierr.Append(kept, err)
	}
	return kept
}

func isUnsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}

// TrackPerformance отслеживает производительность операции
func TrackPerformance(base *zap.Logger, operation string) (end func()) {
	start := time.Now()
	base.Debug("Starting operation", zap.String("operation", operation))

	return func() {
		duration := time.Since(start)
		base.Debug("Operation completed",
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	}
}
