package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/pueue/internal/config"
	"github.com/berrythewa/pueue/internal/journal"
)

// Shared variables across all commands
var (
	cfg       *config.Config
	zapLogger *zap.Logger

	journalStore *journal.Journal
)

// SetConfig sets the configuration for commands
func SetConfig(config *config.Config) {
	cfg = config
}

func GetConfig() *config.Config {
	return cfg
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}

func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}

// getJournal opens the journal file on first use.
func getJournal() (*journal.Journal, error) {
	if journalStore != nil {
		return journalStore, nil
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	j, err := journal.Open(journal.Config{
		Path:   cfg.SystemPaths.JournalFile,
		Logger: GetZapLogger(),
	})
	if err != nil {
		return nil, err
	}
	journalStore = j
	return j, nil
}

// Cleanup releases resources opened by commands.
func Cleanup() {
	if journalStore != nil {
		if err := journalStore.Close(); err != nil {
			GetZapLogger().Warn("Failed to close journal", zap.Error(err))
		}
		journalStore = nil
	}
}
