package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("copy_fonts", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("copy_fonts", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.AddFiles("copy_fonts", 12)
	pr.AddFiles("copy_fonts", 0)
	pr.SetArtifactBytes(4096)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"ndsdist_stage_duration_seconds",
		"ndsdist_build_duration_seconds",
		"ndsdist_stage_results_total",
		"ndsdist_build_outcomes_total",
		"ndsdist_stage_files_total",
		"ndsdist_artifact_bytes",
	} {
		assert.True(t, names[want], want)
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncStageResult("x", ResultFatal)
		pr.AddFiles("x", 1)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncStageResult("compile_styles", ResultFatal)
	pr.IncBuildOutcome("failed")

	path := filepath.Join(t.TempDir(), "metrics", "ndsdist.prom")
	require.NoError(t, WriteTextfile(path, pr.Registry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ndsdist_stage_results_total{result="fatal",stage="compile_styles"} 1`)
	assert.Contains(t, string(data), `ndsdist_build_outcomes_total{outcome="failed"} 1`)

	assert.Error(t, WriteTextfile(path, nil))
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
