// Package config handles application configuration and setup
package config

import (
	"path/filepath"

	"github.com/retroenv/chip8vm/internal/snapshot"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings.
// Instruction tracing is logged at debug level and therefore enables it.
func CreateLogger(debug, quiet, trace bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug, trace:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// StateFileName returns the name of the quick save file for an input file.
func StateFileName(input string) string {
	ext := filepath.Ext(input)
	if ext == snapshot.FileExtension {
		return input
	}
	return input[:len(input)-len(ext)] + snapshot.FileExtension
}
