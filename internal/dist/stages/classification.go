package stages

import (
	"context"
	"errors"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/fileset"
	"github.com/newport-ds/ndsdist/internal/styles"
)

// Sentinels for the verification steps.
var (
	ErrBannerMissing = errors.New("ndsdist: banner missing")
	ErrReadmeInvalid = errors.New("ndsdist: readme heading invalid")
	ErrManifest      = errors.New("ndsdist: manifest error")
)

// StageOutcome normalized result of step execution.
type StageOutcome struct {
	Stage     models.StageName
	Error     *models.StageError
	Result    models.StageResult
	IssueCode models.ReportIssueCode
}

// ClassifyStageResult converts a raw error from a step into a StageOutcome.
// ctx is the build context: a canceled build is reported as canceled, while
// a step that ran out its own timeout is a fatal failure.
func ClassifyStageResult(ctx context.Context, stage models.StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: models.StageResultSuccess}
	}

	var se *models.StageError
	if !errors.As(err, &se) {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			se = models.NewCanceledStageError(stage, err)
		} else {
			se = models.NewFatalStageError(stage, err)
		}
	}

	if se.Kind == models.StageErrorCanceled {
		return StageOutcome{Stage: stage, Error: se, Result: models.StageResultCanceled, IssueCode: models.IssueCanceled}
	}
	return StageOutcome{Stage: stage, Error: se, Result: models.StageResultFatal, IssueCode: classifyIssueCode(se.Err)}
}

// classifyIssueCode determines the issue code from the underlying cause.
func classifyIssueCode(err error) models.ReportIssueCode {
	var (
		missing *fileset.MissingSourceError
		entry   *styles.EntryError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.IssueStepTimeout
	case errors.As(err, &missing):
		return models.IssueMissingSource
	case errors.As(err, &entry):
		return models.IssueCompileFailure
	case errors.Is(err, ErrManifest):
		return models.IssueManifestInvalid
	case errors.Is(err, ErrBannerMissing):
		return models.IssueBannerMissing
	case errors.Is(err, ErrReadmeInvalid):
		return models.IssueReadmeInvalid
	default:
		return models.IssueGenericStageError
	}
}
