package logging

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New はdevなら開発用、それ以外は本番用のloggerを作る
func New(env string, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// StdLog はgormなど *log.Logger を欲しがるライブラリ用
func StdLog(l *zap.Logger, name string) *log.Logger {
	return zap.NewStdLog(l.Named(name))
}
