package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "multisearch"

// NewLogger собирает zap по LOG_LEVEL и LOG_FORMAT.
// Все записи несут поле service, чтобы их можно было отделить в общем стоке.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	zc := loggerConfig(cfg)

	logger, err := zc.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func loggerConfig(cfg LogConfig) zap.Config {
	level := parseLogLevel(cfg.Level)

	var zc zap.Config
	if useConsole(cfg.Format, level) {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		// в консоли стектрейсы только для error
		zc.Development = false
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.MessageKey = "msg"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.CallerKey = "caller"
	zc.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zc
}

// console для debug по умолчанию, явный формат важнее
func useConsole(format string, level zapcore.Level) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	default:
		return level == zapcore.DebugLevel
	}
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
