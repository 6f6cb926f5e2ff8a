// File: internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// redirectPaths points config and data paths into a temp dir for one test.
func redirectPaths(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	origGetConfigPath := getConfigPath
	origGetDefaultDataDir := getDefaultDataDir
	t.Cleanup(func() {
		getConfigPath = origGetConfigPath
		getDefaultDataDir = origGetDefaultDataDir
	})

	getConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "config.yaml"), nil
	}
	getDefaultDataDir = func() (string, error) {
		return filepath.Join(tempDir, "data"), nil
	}

	for _, key := range []string{"PUEUE_SOCKET", "PUEUE_RETRIES", "PUEUE_TIMEOUT", "PUEUE_LOG_LEVEL", "PUEUE_EDITOR", "PUEUE_JOURNAL"} {
		t.Setenv(key, "")
	}
	return tempDir
}

func TestLoad(t *testing.T) {
	tempDir := redirectPaths(t)

	// Test loading default config when file doesn't exist
	configPath, _ := getConfigPath()
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Expected default config to be written to %s: %v", configPath, err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected Log.Level info, got %s", cfg.Log.Level)
	}
	if cfg.Daemon.Retries != 3 {
		t.Errorf("Expected Daemon.Retries 3, got %d", cfg.Daemon.Retries)
	}
	if cfg.SystemPaths.DataDir != filepath.Join(tempDir, "data") {
		t.Errorf("Expected DataDir %s, got %s", filepath.Join(tempDir, "data"), cfg.SystemPaths.DataDir)
	}
	if cfg.SystemPaths.JournalFile != filepath.Join(tempDir, "data", "journal.db") {
		t.Errorf("Unexpected JournalFile %s", cfg.SystemPaths.JournalFile)
	}

	// Test loading existing config
	content := []byte(`
log:
  level: debug
daemon:
  socket_path: /run/user/1000/pueue.sock
  retry_delay: 50ms
client:
  editor: nano
`)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err = Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected Log.Level debug, got %s", cfg.Log.Level)
	}
	if cfg.Daemon.SocketPath != "/run/user/1000/pueue.sock" {
		t.Errorf("Unexpected SocketPath %s", cfg.Daemon.SocketPath)
	}
	if cfg.Daemon.RetryDelay != 50*time.Millisecond {
		t.Errorf("Expected RetryDelay 50ms, got %v", cfg.Daemon.RetryDelay)
	}
	// Fields absent from the file keep their defaults
	if cfg.Daemon.Timeout != 10*time.Second {
		t.Errorf("Expected default Timeout, got %v", cfg.Daemon.Timeout)
	}
	if cfg.EditorCommand() != "nano" {
		t.Errorf("Expected editor nano, got %s", cfg.EditorCommand())
	}
}

func TestSave(t *testing.T) {
	redirectPaths(t)

	paths, err := GetConfigPaths()
	if err != nil {
		t.Fatalf("GetConfigPaths() failed: %v", err)
	}
	testConfig := DefaultConfig(*paths)
	testConfig.Log.Level = "debug"
	testConfig.Daemon.SocketPath = "/tmp/custom.sock"

	configPath, _ := getConfigPath()
	if err := testConfig.Save(configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Verify saved config
	file, err := os.Open(configPath)
	if err != nil {
		t.Fatalf("Failed to open saved config: %v", err)
	}
	defer file.Close()

	var loadedConfig Config
	if err := yaml.NewDecoder(file).Decode(&loadedConfig); err != nil {
		t.Fatalf("Failed to decode saved config: %v", err)
	}

	if !reflect.DeepEqual(testConfig, &loadedConfig) {
		t.Errorf("Saved config doesn't match original. Got %+v, want %+v", loadedConfig, testConfig)
	}
}

func TestLoadConfigErrorHandling(t *testing.T) {
	tempDir := redirectPaths(t)

	// Test loading malformed config
	configPath, _ := getConfigPath()
	if err := os.WriteFile(configPath, []byte("log: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write invalid config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should fail with invalid YAML")
	}

	// Test error in getConfigPath
	getConfigPath = func() (string, error) {
		return "", os.ErrPermission
	}
	if _, err := Load(""); err == nil {
		t.Error("Load() should fail when getConfigPath fails")
	}

	// Test error in getDefaultDataDir
	getConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "other.yaml"), nil
	}
	getDefaultDataDir = func() (string, error) {
		return "", os.ErrPermission
	}
	if _, err := Load(""); err == nil {
		t.Error("Load() should fail when getDefaultDataDir fails")
	}
}

func TestOverrideFromEnv(t *testing.T) {
	redirectPaths(t)

	t.Setenv("PUEUE_SOCKET", "/tmp/env.sock")
	t.Setenv("PUEUE_RETRIES", "7")
	t.Setenv("PUEUE_TIMEOUT", "3s")
	t.Setenv("PUEUE_JOURNAL", "false")
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Daemon.SocketPath != "/tmp/env.sock" {
		t.Errorf("Expected SocketPath from env, got %s", cfg.Daemon.SocketPath)
	}
	if cfg.Daemon.Retries != 7 {
		t.Errorf("Expected Retries 7, got %d", cfg.Daemon.Retries)
	}
	if cfg.Daemon.Timeout != 3*time.Second {
		t.Errorf("Expected Timeout 3s, got %v", cfg.Daemon.Timeout)
	}
	if cfg.Client.Journal {
		t.Error("Expected journal disabled by env")
	}
	if cfg.Client.Colors {
		t.Error("Expected colors disabled by NO_COLOR")
	}
}

func TestEditorCommandFallback(t *testing.T) {
	cfg := &Config{}

	t.Setenv("EDITOR", "emacs")
	if got := cfg.EditorCommand(); got != "emacs" {
		t.Errorf("Expected $EDITOR, got %s", got)
	}

	t.Setenv("EDITOR", "")
	if got := cfg.EditorCommand(); got != "vi" {
		t.Errorf("Expected vi fallback, got %s", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	tempDir := t.TempDir()
	paths := pathsFor(filepath.Join(tempDir, "config.yaml"), filepath.Join(tempDir, "data"))

	if err := paths.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() failed: %v", err)
	}
	for _, dir := range []string{paths.DataDir, paths.LogDir, paths.TempDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}
}
