package models

import (
	"time"

	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/metrics"
	"github.com/newport-ds/ndsdist/internal/styles"
)

// Tools are the stylesheet processors the style steps run.
type Tools struct {
	Compiler styles.Compiler
	Prefixer *styles.Prefixer
	Minifier *styles.Minifier
}

// OutputState tracks what the style steps produced, for later steps and the report.
type OutputState struct {
	Stylesheets []string
	Minified    []string
}

// BuildState carries mutable state and metrics across steps.
type BuildState struct {
	Context BuildContext
	Config  *config.Config
	Tools   Tools
	Report  *BuildReport
	Outputs OutputState

	// StepTimeout bounds each step when positive.
	StepTimeout time.Duration

	recorder metrics.Recorder
	observer BuildObserver
}

// NewBuildState constructs a BuildState with a fresh report and no-op hooks.
func NewBuildState(bc BuildContext, cfg *config.Config, tools Tools) *BuildState {
	bs := &BuildState{
		Context:  bc,
		Config:   cfg,
		Tools:    tools,
		Report:   NewBuildReport(bc.BuildID, bc.Version),
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
	}
	if cfg != nil {
		bs.StepTimeout = cfg.Build.StepTimeout
	}
	return bs
}

// WithRecorder attaches a metrics recorder.
func (bs *BuildState) WithRecorder(r metrics.Recorder) *BuildState {
	if r != nil {
		bs.recorder = r
	}
	return bs
}

// WithObserver attaches a lifecycle observer.
func (bs *BuildState) WithObserver(o BuildObserver) *BuildState {
	if o != nil {
		bs.observer = o
	}
	return bs
}

func (bs *BuildState) Recorder() metrics.Recorder { return bs.recorder }
func (bs *BuildState) Observer() BuildObserver    { return bs.observer }

// CountFiles records how many files a step copied, wrote or removed.
func (bs *BuildState) CountFiles(stage StageName, n int) {
	bs.Report.AddFiles(stage, n)
	bs.recorder.AddFiles(string(stage), n)
}
