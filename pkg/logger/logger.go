// Package logger builds the application's zerolog logger from either a log
// file path or an arbitrary writer.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const logFilePermission = 0664

// Build accumulates logger options before Make assembles the logger.
type Build struct {
	writer io.Writer
	path   string
}

// New starts an empty logger build. With no options, Make logs to stdout.
func New() *Build {
	return &Build{}
}

// ToPath directs log output to the file at path, created or appended to as
// needed. It overrides ToWriter.
func (b *Build) ToPath(path string) *Build {
	b.path = path
	return b
}

// ToWriter directs log output to w.
func (b *Build) ToWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// Log pairs the assembled logger with the file it writes to, when any, so
// the caller can close it on shutdown.
type Log struct {
	Logger  zerolog.Logger
	LogFile *os.File
}

// Close releases the log file if one was opened.
func (l *Log) Close() error {
	if l.LogFile == nil {
		return nil
	}
	return l.LogFile.Close()
}

// Make assembles the logger from the accumulated options.
func (b *Build) Make() (*Log, error) {
	out := b.writer
	if out == nil {
		out = os.Stdout
	}

	log := &Log{}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermission)
		if err != nil {
			return nil, err
		}
		log.LogFile = f
		out = zerolog.SyncWriter(f)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log, nil
}
