package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		log       func(Logger)
		shouldLog bool
	}{
		{"debug at debug level", LevelDebug, func(l Logger) { l.Debug("msg") }, true},
		{"debug at info level", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info at warn level", LevelWarn, func(l Logger) { l.Info("msg") }, false},
		{"error at warn level", LevelWarn, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := NewSlogLogger(Config{Level: tt.level, Writer: buf})
			if err != nil {
				t.Fatalf("NewSlogLogger() error = %v", err)
			}
			defer logger.Shutdown()

			tt.log(logger)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("logged = %v, want %v (output %q)", logged, tt.shouldLog, buf.String())
			}
		})
	}
}

func TestSlogLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewSlogLogger(Config{Level: LevelInfo, Format: FormatJSON, Writer: buf})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}

	logger.Info("matched", "paths", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "matched" || entry["paths"] != float64(3) {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSlogLogger_Sanitization(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, _ := NewSlogLogger(Config{Level: LevelInfo, Writer: buf})

	logger.Info("resolved /home/alice/notes", "cwd", "/home/alice/notes", "token", "abcdefghijkl")

	out := buf.String()
	if strings.Contains(out, "alice") {
		t.Errorf("home directory leaked: %s", out)
	}
	if strings.Contains(out, "abcdefghijkl") {
		t.Errorf("token leaked: %s", out)
	}
}

func TestSlogLogger_FileOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "logs", "fmatch.log")

	logger, err := NewSlogLogger(Config{
		Level:  LevelInfo,
		Writer: &bytes.Buffer{},
		File:   FileConfig{Path: logPath, MaxSizeMB: 1, MaxBackups: 1},
	})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}

	logger.Info("file message")
	if err := logger.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "file message") {
		t.Errorf("log file missing message: %s", data)
	}
}

func TestSlogLogger_ChildDoesNotOwnWriters(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fmatch.log")
	logger, err := NewSlogLogger(Config{Writer: &bytes.Buffer{}, File: FileConfig{Path: logPath}})
	if err != nil {
		t.Fatalf("NewSlogLogger() error = %v", err)
	}
	defer logger.Shutdown()

	child := logger.With("component", "match")
	if err := child.Shutdown(); err != nil {
		t.Errorf("child Shutdown() error = %v", err)
	}

	// Parent still writes after child shutdown
	logger.Info("still open")
	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), "still open") {
		t.Errorf("parent writer closed by child: %s", data)
	}
}
