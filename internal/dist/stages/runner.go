package stages

import (
	"context"
	"log/slog"
	"time"

	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/logfields"
)

// RunStages executes stages strictly in order, recording timing, and stops
// at the first failure. Steps after the failing one never start.
func RunStages(ctx context.Context, bs *models.BuildState, stages []models.StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := models.NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.AddIssue(models.IssueCanceled, st.Name, se.Error(), se)
			bs.Report.RecordStageResult(st.Name, models.StageResultCanceled, bs.Recorder())
			bs.Observer().OnStageComplete(st.Name, 0, models.StageResultCanceled)
			return se
		default:
		}

		bs.Observer().OnStageStart(st.Name)

		t0 := time.Now()
		err := runOne(ctx, bs, st)
		dur := time.Since(t0)

		bs.Report.StageDurations[st.Name] = dur

		out := ClassifyStageResult(ctx, st.Name, err)
		if out.Error != nil {
			bs.Report.AddIssue(out.IssueCode, out.Stage, out.Error.Error(), out.Error)
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.Recorder())
		bs.Observer().OnStageComplete(st.Name, dur, out.Result)

		if out.Error != nil {
			slog.Debug("Aborting build", logfields.Stage(string(st.Name)), logfields.Error(out.Error))
			return out.Error
		}
	}
	return nil
}

// runOne applies the per-step timeout, when configured.
func runOne(ctx context.Context, bs *models.BuildState, st models.StageDef) error {
	if bs.StepTimeout <= 0 {
		return st.Fn(ctx, bs)
	}
	stepCtx, cancel := context.WithTimeout(ctx, bs.StepTimeout)
	defer cancel()
	return st.Fn(stepCtx, bs)
}
