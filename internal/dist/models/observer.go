package models

import (
	"context"
	"log/slog"
	"time"

	"github.com/newport-ds/ndsdist/internal/logfields"
	"github.com/newport-ds/ndsdist/internal/metrics"
)

// BuildObserver receives callbacks around step execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(_ StageName)                                    {}
func (NoopObserver) OnStageComplete(_ StageName, _ time.Duration, _ StageResult) {}
func (NoopObserver) OnBuildComplete(_ *BuildReport)                              {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(_ StageName) {}
func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, _ StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	r.Recorder.IncBuildOutcome(string(report.Outcome))
	var total int64
	for _, c := range report.Checksums {
		total += c.Size
	}
	r.Recorder.SetArtifactBytes(total)
}

// LogObserver writes one structured line per step.
type LogObserver struct {
	Logger  *slog.Logger
	BuildID string
}

func (l LogObserver) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l LogObserver) OnStageStart(stage StageName) {
	l.logger().Debug("Stage start", logfields.BuildID(l.BuildID), logfields.Stage(string(stage)))
}

func (l LogObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	level := slog.LevelInfo
	if result != StageResultSuccess {
		level = slog.LevelError
	}
	l.logger().Log(context.Background(), level, "Stage complete",
		logfields.BuildID(l.BuildID),
		logfields.Stage(string(stage)),
		logfields.DurationMS(float64(d.Microseconds())/1000),
		logfields.Outcome(string(result)))
}

func (l LogObserver) OnBuildComplete(report *BuildReport) {
	l.logger().Info("Build complete",
		logfields.BuildID(report.BuildID),
		logfields.Version(report.Version),
		logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(float64(report.End.Sub(report.Start).Microseconds())/1000))
}

// MultiObserver fans callbacks out to several observers in order.
type MultiObserver []BuildObserver

func (m MultiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m MultiObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, result)
	}
}

func (m MultiObserver) OnBuildComplete(report *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}
