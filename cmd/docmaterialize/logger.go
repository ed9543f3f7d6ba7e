package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dconnelly/cosmosdb-go/documentdb"
)

// zapLogger adapts a zap logger to documentdb.Logger. Args are slog style key-value pairs.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(logger *zap.Logger) zapLogger {
	return zapLogger{sugar: logger.Sugar()}
}

// buildZapLogger builds a JSON logger on stderr at the given level name.
func buildZapLogger(level string) (*zap.Logger, error) {
	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsedLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

func (l zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

var _ documentdb.Logger = zapLogger{}
