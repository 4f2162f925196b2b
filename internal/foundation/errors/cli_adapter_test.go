package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"filesystem", FileSystemError("missing source").Build(), 11},
		{"transform", TransformError("compile failed").Build(), 11},
		{"serialization", SerializationError("bad json").Build(), 11},
		{"notify", NotifyError("nats down").Build(), 8},
		{"runtime", RuntimeError("watcher").Build(), 12},
		{"internal", InternalError("bug").Build(), 10},
		{"wrapped classified", fmt.Errorf("fatal stage compile_styles: %w", TransformError("compile").Build()), 11},
		{"unclassified", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, outBuf bytes.Buffer
	adapter := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(&logBuf, nil)))
	adapter.out = &outBuf
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(FileSystemError("copy fonts").WithContext("stage", "copy_fonts").Build())

	assert.Equal(t, 11, code)
	assert.Contains(t, outBuf.String(), "Error: copy fonts")
	assert.Contains(t, logBuf.String(), "category=filesystem")
	assert.Contains(t, logBuf.String(), "stage=copy_fonts")
}

func TestCLIErrorAdapter_HandleNilIsNoop(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)
	called := false
	adapter.exit = func(int) { called = true }
	adapter.HandleError(nil)
	assert.False(t, called)
}
