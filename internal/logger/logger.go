package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the CLI logger. Log lines go to stderr so tables printed on
// stdout stay clean. Console output is the default; json switches to
// machine-readable lines. debug lowers the level and adds the caller.
func New(json bool, debug bool) (*zap.Logger, error) {
	return build(json, debug, []string{"stderr"})
}

func build(json, debug bool, outputs []string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:          "console",
		Level:             zap.NewAtomicLevelAt(level),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
		DisableCaller:     !debug,
		EncoderConfig:     encoderConfig(json),
	}
	if json {
		cfg.Encoding = "json"
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}

func encoderConfig(json bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		MessageKey: "step",

		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,

		TimeKey:    "time",
		EncodeTime: zapcore.RFC3339TimeEncoder,

		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,

		NameKey:        "logger",
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if !json {
		cfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
		cfg.ConsoleSeparator = "  "
	}
	return cfg
}
