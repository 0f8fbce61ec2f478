package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line as the "service" field.
const ServiceName = "photosearch"

var consoleEnvs = map[string]bool{"local": true, "dev": true, "docker": true, "test": true}

// New builds the process logger. prod writes JSON at info level; local, dev,
// docker and test write colored console output at debug. A non-empty level
// (debug, info, warn, error) replaces the environment default.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch {
	case env == "prod":
		cfg = zap.NewProductionConfig()
	case consoleEnvs[env]:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.InitialFields = map[string]any{"service": ServiceName, "env": env}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
