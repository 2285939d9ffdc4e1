// Package logging builds the process zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0600

// Build collects logger options; Make turns them into a Log.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Log is a ready logger plus the file it may own.
type Log struct {
	Logger zerolog.Logger
	file   *os.File
}

func New() *Build {
	return &Build{writer: os.Stderr, level: zerolog.InfoLevel}
}

// FromPath appends to a log file instead of the writer. Empty keeps the writer.
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// WithLevel parses a level name; unknown names keep the default.
func (b *Build) WithLevel(name string) *Build {
	if lvl, err := zerolog.ParseLevel(name); err == nil && name != "" {
		b.level = lvl
	}
	return b
}

func (b *Build) Make() (*Log, error) {
	log := &Log{}
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		log.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		w = io.Discard
	}
	log.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return log, nil
}

// Close releases the log file, if any.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
