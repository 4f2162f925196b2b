package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "dist.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "dist.yaml", file)
	})

	t.Run("Cause surfaces verbatim", func(t *testing.T) {
		cause := errors.New("Expected expression. line 3")
		err := WrapError(cause, CategoryTransform, "compile index-scoped.scss").Build()

		assert.Equal(t, "compile index-scoped.scss: Expected expression. line 3", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := FileSystemError("copy icons").Build()
		wrapped := fmt.Errorf("stage copy_icons: %w", err)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryFileSystem))
		assert.Equal(t, CategoryFileSystem, GetCategory(wrapped))
		assert.True(t, err.IsFatal())
	})

	t.Run("Unclassified defaults to internal", func(t *testing.T) {
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("boom")))
		assert.False(t, IsClassified(nil))
	})
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := SerializationError("read manifest").Build()
	derived := base.WithContext("path", "package.json")

	_, ok := base.Context().Get("path")
	assert.False(t, ok)
	path, ok := derived.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "package.json", path)
}

func TestClassifiedError_Is(t *testing.T) {
	a := TransformError("compile").Build()
	b := TransformError("compile").Build()
	c := FileSystemError("compile").Build()

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestConvenienceConstructors(t *testing.T) {
	cases := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"config", ConfigError("x"), CategoryConfig, SeverityFatal},
		{"validation", ValidationError("x"), CategoryValidation, SeverityFatal},
		{"filesystem", FileSystemError("x"), CategoryFileSystem, SeverityFatal},
		{"transform", TransformError("x"), CategoryTransform, SeverityFatal},
		{"serialization", SerializationError("x"), CategorySerialization, SeverityFatal},
		{"notify", NotifyError("x"), CategoryNotify, SeverityWarning},
		{"runtime", RuntimeError("x"), CategoryRuntime, SeverityFatal},
		{"internal", InternalError("x"), CategoryInternal, SeverityFatal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.builder.Build()
			assert.Equal(t, tc.category, err.Category())
			assert.Equal(t, tc.severity, err.Severity())
		})
	}
}
