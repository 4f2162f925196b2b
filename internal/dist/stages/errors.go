package stages

import (
	"errors"

	"github.com/newport-ds/ndsdist/internal/fileset"
	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
)

// fsFailure classifies an I/O failure of a step. A missing required source
// is reported as not found so the message names the absent path.
func fsFailure(err error, msg, path string) error {
	var missing *fileset.MissingSourceError
	if errors.As(err, &missing) {
		return ferrors.WrapError(err, ferrors.CategoryNotFound, "required source missing").
			WithContext("path", missing.Path).Fatal().Build()
	}
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, msg).
		WithContext("path", path).Fatal().Build()
}

func transformFailure(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryTransform, msg).
		WithContext("path", path).Fatal().Build()
}

func serializationFailure(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategorySerialization, msg).
		WithContext("path", path).Fatal().Build()
}

func validationFailure(err error, msg, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, msg).
		WithContext("path", path).Fatal().Build()
}
