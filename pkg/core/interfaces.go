package core

import (
	"log"
	"os"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NewDefaultLogger returns a Logger that writes to stderr with timestamps
func NewDefaultLogger() Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

// NopLogger discards everything
type NopLogger struct{}

// Printf does nothing
func (NopLogger) Printf(format string, args ...interface{}) {}
