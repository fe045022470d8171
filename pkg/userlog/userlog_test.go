package userlog_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/fileops/pkg/fsops"
	"github.com/walteh/fileops/pkg/userlog"
)

// 🧪 TestLogOperation tests that outcomes reach the structured log
func TestLogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ulog := userlog.New(logger)

	ulog.LogOperation(fsops.Result{
		Operation:   fsops.KindCreateFile,
		Destination: "/tmp/x.txt",
		Success:     true,
	})
	assert.Contains(t, buf.String(), "operation succeeded")
	assert.Contains(t, buf.String(), "/tmp/x.txt")

	buf.Reset()
	ulog.LogOperation(fsops.Result{
		Operation:   fsops.KindDelete,
		Destination: "/tmp/x.txt",
		Error:       fsops.DenialAdvisory,
	})
	assert.Contains(t, buf.String(), "operation failed")
}

// 🧪 TestLogBatch tests the batch summary log
func TestLogBatch(t *testing.T) {
	var buf bytes.Buffer
	ulog := userlog.New(zerolog.New(&buf))

	ulog.LogBatch(&fsops.BatchResult{Total: 3, Succeeded: 2, Failed: 1})
	assert.Contains(t, buf.String(), `"total":3`)
	assert.Contains(t, buf.String(), `"failed":1`)
}

// 🧪 TestLogFatal tests run-level failure logging
func TestLogFatal(t *testing.T) {
	var buf bytes.Buffer
	ulog := userlog.New(zerolog.New(&buf))

	ulog.LogFatal("could not start", assert.AnError)
	assert.Contains(t, buf.String(), "could not start")
	assert.Contains(t, buf.String(), "assert.AnError")
}
