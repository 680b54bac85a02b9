package domain

import "errors"

// Filesystem errors - 檔案系統層錯誤
var (
	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory indicates expected a directory but got a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotFile indicates expected a file but got a directory
	ErrNotFile = errors.New("not a file")

	// ErrNotImplemented is returned by reserved entity actions (copy, move, delete)
	ErrNotImplemented = errors.New("not implemented")
)

// Match errors - 比對邏輯層錯誤
var (
	// ErrBadPattern indicates a malformed glob pattern
	ErrBadPattern = errors.New("bad glob pattern")

	// ErrResolution indicates the glob resolver failed
	ErrResolution = errors.New("glob resolution failed")

	// ErrUpdateInProgress indicates another update is already running on the match
	ErrUpdateInProgress = errors.New("update already in progress")

	// ErrUninitialized indicates a browse or hash call before any successful update
	ErrUninitialized = errors.New("match has no paths yet; call Update first")

	// ErrChanged indicates a fingerprint differs from the last recorded one
	ErrChanged = errors.New("fingerprint changed")
)

// Config errors - 設定檔錯誤
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")

	// ErrTargetNotFound indicates referenced target doesn't exist
	ErrTargetNotFound = errors.New("target not found")

	// ErrWatcherRunning indicates another process already watches the target
	ErrWatcherRunning = errors.New("watcher already running")
)
