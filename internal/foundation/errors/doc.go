// Package errors provides foundational, type-safe error primitives used across ndsdist.
//
// Every pipeline failure is surfaced as a ClassifiedError so the CLI can pick
// an exit code without string matching:
//   - ErrorCategory: broad classification (filesystem, transform, serialization, ...)
//   - ErrorSeverity: impact level
//   - ErrorBuilder: fluent construction with context
//   - CLIErrorAdapter: exit codes and stderr presentation
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryTransform, "compile stylesheet").
//		WithContext("entry", entryPath).
//		Fatal().
//		Build()
package errors
