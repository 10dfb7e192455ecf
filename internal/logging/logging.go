// Package logging routes the standard logger to stderr and, optionally, a
// size-rotated log file.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"aspcal/config"
)

// Setup points the standard logger at stderr plus the configured log file.
// The returned closer flushes and closes the file; it is a no-op without one.
func Setup(cfg config.LogSettings) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.Printf("[logging] writing logs to %s (max %dMB, %d backups)", cfg.File, cfg.MaxSizeMB, cfg.MaxBackups)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
