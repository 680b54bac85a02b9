package logger

import (
	"fmt"
	"sync"
)

var (
	mu      sync.RWMutex
	current Logger // nil until Init

	null Logger = &NullLogger{}
)

// Init 初始化全域 logger
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return fmt.Errorf("logger already initialized; use Replace or call Shutdown first")
	}

	l, err := NewSlogLogger(config)
	if err != nil {
		return fmt.Errorf("failed to create slog logger: %w", err)
	}
	current = l
	return nil
}

// Replace 以新設定取代全域 logger，並關閉舊的。
// A command run more than once in a process (tests) re-initializes through here.
func Replace(config Config) error {
	l, err := NewSlogLogger(config)
	if err != nil {
		return fmt.Errorf("failed to create slog logger: %w", err)
	}

	mu.Lock()
	old := current
	current = l
	mu.Unlock()

	if old != nil {
		return old.Shutdown()
	}
	return nil
}

// Get 取得全域 logger，未初始化時回傳 NullLogger
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return null
	}
	return current
}

// With 建立帶 context 的子 logger
func With(args ...any) Logger {
	return Get().With(args...)
}

// Sync 強制 flush
func Sync() error {
	return Get().Sync()
}

// Shutdown 優雅關閉；之後 Get 回傳 NullLogger
func Shutdown() error {
	mu.Lock()
	l := current
	current = nil
	mu.Unlock()

	if l == nil {
		return nil
	}
	// Outside the lock: closing a file writer may block
	return l.Shutdown()
}

// NullLogger 空 logger（不做任何事）
type NullLogger struct{}

func (n *NullLogger) Debug(msg string, args ...any) {}
func (n *NullLogger) Info(msg string, args ...any)  {}
func (n *NullLogger) Warn(msg string, args ...any)  {}
func (n *NullLogger) Error(msg string, args ...any) {}
func (n *NullLogger) With(args ...any) Logger       { return n }
func (n *NullLogger) Sync() error                   { return nil }
func (n *NullLogger) Shutdown() error               { return nil }
