package common

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/berrythewa/pueue/internal/config"
)

// LoggerOptions tweaks NewLogger for a single invocation.
type LoggerOptions struct {
	// Level overrides cfg.Log.Level when set.
	Level string
	// NoFile disables file output even if the config enables it.
	NoFile bool
	// Console receives warnings and errors for the user. Defaults to stderr.
	Console io.Writer
}

// NewLogger creates a new logger instance. Warnings and errors always go to
// the console; with file logging enabled every entry at the configured level
// is also written to a size-rotated file in the log directory.
func NewLogger(cfg *config.Config, opts LoggerOptions) (*zap.Logger, error) {
	levelName := cfg.Log.Level
	if opts.Level != "" {
		levelName = opts.Level
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = zapcore.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	// Debug runs echo everything; otherwise the console only shows warnings.
	consoleLevel := zapcore.WarnLevel
	if level < zapcore.InfoLevel {
		consoleLevel = level
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(console), consoleLevel),
	}

	if cfg.Log.EnableFileLogging && !opts.NoFile && cfg.SystemPaths.LogDir != "" {
		if err := os.MkdirAll(cfg.SystemPaths.LogDir, 0755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.SystemPaths.LogDir, "pueue.log"),
			MaxSize:    cfg.Log.MaxLogSize,
			MaxBackups: cfg.Log.MaxLogFiles,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder(cfg.Log.Format), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func consoleEncoder() zapcore.Encoder {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	return zapcore.NewConsoleEncoder(encCfg)
}

func fileEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "text" {
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}
