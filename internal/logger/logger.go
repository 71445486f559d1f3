package logger

import (
	"strings"

	"go.uber.org/zap"
)

// L is the process-wide logger. Init must be called before use.
var L *zap.Logger

func Init(env string) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	L = l
}

func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}
