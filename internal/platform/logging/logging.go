// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logging builds the process-wide structured logger.
//
// Records are always emitted as JSON on stdout. When a log file is configured,
// the same records are also written to a size-rotated file managed by lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the optional log file.
const (
	maxSizeMB  = 100
	maxBackups = 5
	maxAgeDays = 28
)

// Options controls logger construction.
type Options struct {
	// Debug lowers the minimum level to [slog.LevelDebug].
	Debug bool

	// File is an optional path for a rotating log file.
	File string

	// App is attached to every record under the "app" key.
	App string

	// Source adds the caller's file and line to every record.
	Source bool
}

// New returns a JSON logger and a closer for the file sink (a no-op when no file is used).
func New(options Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if options.Debug {
		level = slog.LevelDebug
	}

	var (
		writer io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if options.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	return newLogger(writer, &slog.HandlerOptions{Level: level, AddSource: options.Source}, options.App), closer
}

// NewWithWriter builds the JSON logger on top of an arbitrary writer.
func NewWithWriter(writer io.Writer, level slog.Level, app string) *slog.Logger {
	return newLogger(writer, &slog.HandlerOptions{Level: level}, app)
}

func newLogger(writer io.Writer, handlerOptions *slog.HandlerOptions, app string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(writer, handlerOptions))
	if app != "" {
		logger = logger.With(slog.String("app", app))
	}
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
