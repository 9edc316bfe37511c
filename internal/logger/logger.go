// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger dispatches structured log calls to the configured backends.
// Calls made before Init are dropped.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Backend is a logging destination.
type Backend interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

var backends []Backend

// Init replaces the active backends.
func Init(b ...Backend) {
	backends = b
}

// Debug logs at DEBUG level.
func Debug(message string, keyvals ...any) {
	for _, b := range backends {
		b.Debug(message, keyvals...)
	}
}

// Info logs at INFO level.
func Info(message string, keyvals ...any) {
	for _, b := range backends {
		b.Info(message, keyvals...)
	}
}

// Warn logs at WARN level.
func Warn(message string, keyvals ...any) {
	for _, b := range backends {
		b.Warn(message, keyvals...)
	}
}

// Error logs at ERROR level.
func Error(message string, keyvals ...any) {
	for _, b := range backends {
		b.Error(message, keyvals...)
	}
}

// Console writes to a terminal stream through charmbracelet/log.
type Console struct {
	logger *log.Logger
}

// NewConsole returns a Console writing to w, or stderr when w is nil.
// verbose lowers the level to DEBUG.
func NewConsole(w io.Writer, verbose bool) *Console {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &Console{logger: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "coggraph",
	})}
}

// Debug writes a message at DEBUG level.
func (c *Console) Debug(message string, keyvals ...any) {
	c.logger.Debug(message, keyvals...)
}

// Info writes a message at INFO level.
func (c *Console) Info(message string, keyvals ...any) {
	c.logger.Info(message, keyvals...)
}

// Warn writes a message at WARN level.
func (c *Console) Warn(message string, keyvals ...any) {
	c.logger.Warn(message, keyvals...)
}

// Error writes a message at ERROR level.
func (c *Console) Error(message string, keyvals ...any) {
	c.logger.Error(message, keyvals...)
}
