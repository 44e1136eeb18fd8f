package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"` // json or console
	OutputPath  string `mapstructure:"output_path"`
	ErrorPath   string `mapstructure:"error_path"`
	Development bool   `mapstructure:"development"`
}

// NewLogger creates a new configured logger instance.
func NewLogger(config LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	if config.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var core zapcore.Core

	if config.Development {
		core = zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	} else {
		outputFile, err := openLogFile(config.OutputPath)
		if err != nil {
			return nil, err
		}

		errorFile, err := openLogFile(config.ErrorPath)
		if err != nil {
			outputFile.Close()
			return nil, err
		}

		// Everything goes to the output file; errors are duplicated to the
		// error file.
		core = zapcore.NewTee(
			zapcore.NewCore(encoder, zapcore.AddSync(outputFile), level),
			zapcore.NewCore(encoder, zapcore.AddSync(errorFile), zapcore.ErrorLevel),
		)
	}

	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if config.Development {
		options = append(options, zap.Development())
	}

	return zap.New(core, options...), nil
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log path is required outside development mode")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// SyncLogger ensures all buffered logs are written before shutdown.
func SyncLogger(logger *zap.Logger) {
	_ = logger.Sync()
}
