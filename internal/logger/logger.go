package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// VaultLoaded logs a completed notes directory crawl
func (l *Logger) VaultLoaded(dir string, pages int, duration time.Duration) {
	l.Info("vault loaded",
		"dir", dir,
		"pages", pages,
		"duration", duration.Round(time.Millisecond))
}

// VaultSaved logs a completed write-back of changed pages
func (l *Logger) VaultSaved(pages int) {
	l.Info("vault saved", "pages", pages)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// ParseError logs a rejected document edit
func (l *Logger) ParseError(page string, err error) {
	l.Warn("malformed note, not saved",
		"page", page,
		"error", err)
}

// PageServed logs a rendered page response
func (l *Logger) PageServed(page string, duration time.Duration) {
	l.Debug("page served",
		"page", page,
		"duration", duration.Round(time.Microsecond))
}

// PageMissing logs a request for an unknown page
func (l *Logger) PageMissing(page string) {
	l.Debug("page not found", "page", page)
}

// BookmarkSaved logs a captured bookmark
func (l *Logger) BookmarkSaved(url, title string) {
	l.Info("bookmark saved",
		"url", url,
		"title", title)
}

// StoreError logs a failed write-back of pending changes
func (l *Logger) StoreError(operation string, err error) {
	l.Error("store error",
		"operation", operation,
		"error", err)
}

// ScrapeError logs a failed title fetch
func (l *Logger) ScrapeError(url string, err error) {
	l.Warn("scrape failed",
		"url", url,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(notesDir, addr string, foldThreshold int) {
	l.Debug("config loaded",
		"notes_dir", notesDir,
		"addr", addr,
		"fold_threshold", foldThreshold)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}
