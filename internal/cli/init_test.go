package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)

	logger.Info("quiet")
	logger.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Errorf("info should be filtered at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("warn record missing: %s", buf.String())
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "csv")
	t.Setenv("EVENTS_FILE", filepath.Join(t.TempDir(), "events.csv"))
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.DataBackend != "csv" {
		t.Errorf("DataBackend = %v, want csv", cfg.DataBackend)
	}

	t.Setenv("DATA_BACKEND", "floppy")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBootstrapReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EVENTS_FILE=from-dotenv.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	// godotenv never overrides variables that are already set.
	t.Setenv("EVENTS_FILE", "")
	os.Unsetenv("EVENTS_FILE")
	t.Setenv("DATA_BACKEND", "csv")

	var buf bytes.Buffer
	cfg, _, err := Bootstrap(&buf)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if cfg.EventsFile != "from-dotenv.csv" {
		t.Errorf("EventsFile = %v, want from-dotenv.csv", cfg.EventsFile)
	}
}

func TestGracefulShutdown(t *testing.T) {
	logger := SetupLogger("error", &bytes.Buffer{})

	ctx, stop := GracefulShutdown(context.Background(), logger)
	defer stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}
