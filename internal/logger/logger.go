// Package logger builds the zap loggers used across the reconciler.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a production JSON logger tagged with the service name.
func New(service string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": service,
	}
	return config.Build()
}

// NewDevelopment creates a colored console logger for local runs.
func NewDevelopment(service string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.InitialFields = map[string]interface{}{
		"service": service,
	}
	return config.Build()
}

// ForEnv picks the development logger for "development" and "local" and the
// production logger otherwise.
func ForEnv(env, service string) (*zap.Logger, error) {
	switch env {
	case "development", "local", "":
		return NewDevelopment(service)
	default:
		return New(service)
	}
}
