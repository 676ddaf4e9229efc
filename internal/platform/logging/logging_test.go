// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gallery/internal/platform/logging"
)

/*
TestNewWithWriter_JSONRecord verifies the app attribute and JSON shape.
*/
func TestNewWithWriter_JSONRecord(t *testing.T) {
	var buffer bytes.Buffer
	logger := logging.NewWithWriter(&buffer, slog.LevelInfo, "gallery")

	logger.Info("hello", slog.Int("n", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "gallery", record["app"])
	assert.Equal(t, "hello", record["msg"])
	assert.EqualValues(t, 3, record["n"])
}

/*
TestNewWithWriter_LevelFilter ensures debug records are dropped at info level.
*/
func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buffer bytes.Buffer
	logger := logging.NewWithWriter(&buffer, slog.LevelInfo, "")

	logger.Debug("hidden")
	assert.Zero(t, buffer.Len())
}

/*
TestNew_FileSink checks that a configured file receives log records.
*/
func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.log")

	logger, closer := logging.New(logging.Options{File: path, App: "gallery"})
	logger.Info("written_to_file")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written_to_file")
}

/*
TestNew_Source records the caller when enabled.
*/
func TestNew_Source(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.log")

	logger, closer := logging.New(logging.Options{File: path, Source: true})
	logger.Info("with_source")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"source":`)
	assert.Contains(t, string(content), "logging_test.go")
}
