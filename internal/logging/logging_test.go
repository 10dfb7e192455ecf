package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aspcal/config"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aspcal.log")
	closer := Setup(config.LogSettings{File: path, MaxSizeMB: 1, MaxBackups: 1})
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
	})

	log.Printf("[test] hello from the logger")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[test] hello from the logger") {
		t.Fatalf("log file missing message: %q", data)
	}
}

func TestSetup_NoFile(t *testing.T) {
	closer := Setup(config.LogSettings{})
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
