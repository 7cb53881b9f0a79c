package logger

import (
	"sync"

	"go-inventory-ledger/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.Logger
)

// Init builds the global logger: JSON in production, colored console otherwise.
func Init(cfg *config.Config) *zap.Logger {
	var logConfig zap.Config
	if cfg.Server.IsProduction() {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.OutputPaths = []string{"stdout"}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(level)

	built, err := logConfig.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	mu.Lock()
	log = built
	mu.Unlock()

	built.Info("Logger initialized", zap.String("level", level.String()))
	return built
}

// Get returns the global logger, falling back to a production logger
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		fallback, err := zap.NewProduction()
		if err != nil {
			panic("Failed to create fallback logger: " + err.Error())
		}
		log = fallback
	}
	return log
}
