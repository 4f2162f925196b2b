package dist

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/dist/models"
	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
	dtesting "github.com/newport-ds/ndsdist/internal/testing"
)

type stubCompiler struct {
	fail error
}

func (s stubCompiler) Compile(_ context.Context, _ string, _ []string) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	return ".nds-button {\n  color: red;\n}\n\n.nds-card {\n  margin: 0px;\n}\n", nil
}

type capturePublisher struct {
	payloads [][]byte
	err      error
	closed   bool
}

func (c *capturePublisher) Publish(_ context.Context, payload []byte) error {
	c.payloads = append(c.payloads, payload)
	return c.err
}

func (c *capturePublisher) Close() { c.closed = true }

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Paths.Root = root
	cfg.Build.ReportFile = "reports/dist-report.json"
	cfg.Build.MetricsFile = "reports/ndsdist.prom"
	return cfg
}

func TestBuilder_Build_Success(t *testing.T) {
	root := dtesting.NewProject(t)
	pub := &capturePublisher{}
	b := NewBuilder(testConfig(root), WithCompiler(stubCompiler{}), WithPublisher(pub))

	report, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, models.OutcomeSuccess, report.Outcome)
	assert.Equal(t, dtesting.ProjectVersion, report.Version)
	assert.Len(t, report.BuildID, 36)
	assert.Len(t, report.StageOrder, 29)
	assert.Empty(t, report.Source.Commit)

	out := filepath.Join(root, "dist")
	fa := dtesting.NewFileAssertions(t, out)
	banner := "/*! Vlocity Newport Design System " + dtesting.ProjectVersion + " */\n"
	fa.AssertEntries(".", "README.md", "RELEASENOTES.md", "RELEASENOTES.txt", "assets", "package.json", "ui.icons.json").
		AssertEntries("assets", "fonts", "icons", "images", "styles").
		AssertFileHasPrefix("assets/styles/vlocity-newport-design-system.css", banner).
		AssertFileHasPrefix("assets/styles/vlocity-newport-design-system.min.css", banner).
		AssertNotLarger("assets/styles/nds-fonts.min.css", "assets/styles/nds-fonts.css").
		AssertFileContains("package.json", `"name": "@vlocity/newport-design-system"`).
		AssertNoMatches("assets/icons", "**/*.png")

	paths := make(map[string]bool, len(report.Checksums))
	for _, c := range report.Checksums {
		paths[c.Path] = true
		assert.Len(t, c.Sum, 64, c.Path)
	}
	assert.True(t, paths["package.json"])
	assert.True(t, paths["assets/styles/vlocity-newport-design-system.rtl.min.css"])
	assert.False(t, paths["README-dist.md"])

	t.Run("report file", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "reports", "dist-report.json"))
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "success", got["outcome"])
		assert.Equal(t, report.BuildID, got["build_id"])
		assert.Len(t, got["stages"], 29)
	})

	t.Run("metrics file", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "reports", "ndsdist.prom"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `ndsdist_build_outcomes_total{outcome="success"} 1`)
		assert.Contains(t, string(data), `ndsdist_stage_results_total{result="success",stage="compile_styles"} 1`)
	})

	t.Run("notification", func(t *testing.T) {
		require.Len(t, pub.payloads, 1)
		var got map[string]any
		require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
		assert.Equal(t, report.BuildID, got["build_id"])
		assert.False(t, pub.closed, "injected publishers are owned by the caller")
	})
}

func TestBuilder_Build_CompileFailure(t *testing.T) {
	root := dtesting.NewProject(t)
	pub := &capturePublisher{}
	b := NewBuilder(testConfig(root), WithCompiler(stubCompiler{fail: errors.New("Undefined variable")}), WithPublisher(pub))

	report, err := b.Build(context.Background())
	require.Error(t, err)
	require.NotNil(t, report)

	assert.Equal(t, models.OutcomeFailed, report.Outcome)
	assert.Contains(t, err.Error(), "compile_styles")
	assert.Contains(t, err.Error(), "Undefined variable")
	assert.Empty(t, report.Checksums)
	assert.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	stage, ok := report.FailedStage()
	require.True(t, ok)
	assert.Equal(t, models.StageCompileStyles, stage)

	// the failed run is still reported and announced
	assert.FileExists(t, filepath.Join(root, "reports", "dist-report.json"))
	require.Len(t, pub.payloads, 1)
}

func TestBuilder_Build_MissingManifest(t *testing.T) {
	root := dtesting.NewProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "package.json")))

	report, err := NewBuilder(testConfig(root), WithCompiler(stubCompiler{})).Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.NoDirExists(t, filepath.Join(root, "dist"))
}

func TestBuilder_Build_ManifestWithoutVersion(t *testing.T) {
	root := dtesting.NewProject(t)
	dtesting.WriteFile(t, root, "package.json", `{"name": "newport-design-system"}`)

	_, err := NewBuilder(testConfig(root), WithCompiler(stubCompiler{})).Build(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategorySerialization))
}

func TestBuilder_Build_Canceled(t *testing.T) {
	root := dtesting.NewProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewBuilder(testConfig(root), WithCompiler(stubCompiler{})).Build(ctx)
	require.Error(t, err)
	assert.Equal(t, models.OutcomeCanceled, report.Outcome)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
	assert.Equal(t, 12, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuilder_Build_RecordsSourceCommit(t *testing.T) {
	root := dtesting.NewProject(t)
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("package.json")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Release Bot", Email: "release@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	cfg := testConfig(root)
	cfg.Build.ReportFile = ""
	cfg.Build.MetricsFile = ""
	report, err := NewBuilder(cfg, WithCompiler(stubCompiler{})).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash.String(), report.Source.Commit)
}

func TestBuilder_WithPlan(t *testing.T) {
	root := dtesting.NewProject(t)
	var ran []models.StageName
	plan := models.NewPipeline().
		Add("probe", func(_ context.Context, bs *models.BuildState) error {
			ran = append(ran, "probe")
			assert.Equal(t, dtesting.ProjectVersion, bs.Context.Version)
			assert.Equal(t, filepath.Join(root, "dist"), bs.Context.Roots.Output)
			return nil
		}).
		Build()

	cfg := testConfig(root)
	cfg.Build.ReportFile = ""
	report, err := NewBuilder(cfg, WithCompiler(stubCompiler{}), WithPlan(plan)).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StageName{"probe"}, ran)
	assert.Equal(t, models.OutcomeSuccess, report.Outcome)
}

type flakyPublisher struct {
	capturePublisher
	failures int
}

func (f *flakyPublisher) Publish(ctx context.Context, payload []byte) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("no responders")
	}
	return f.capturePublisher.Publish(ctx, payload)
}

func TestBuilder_RetriesNotification(t *testing.T) {
	root := dtesting.NewProject(t)
	plan := models.NewPipeline().Add("noop", func(context.Context, *models.BuildState) error { return nil }).Build()

	cfg := testConfig(root)
	cfg.Notify.Retries = 2
	cfg.Notify.Backoff = config.RetryBackoffFixed
	cfg.Notify.RetryDelay = time.Millisecond

	pub := &flakyPublisher{failures: 2}
	_, err := NewBuilder(cfg, WithCompiler(stubCompiler{}), WithPublisher(pub), WithPlan(plan)).Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, pub.payloads, 1)

	cfg.Notify.Retries = 0
	pub = &flakyPublisher{failures: 1}
	_, err = NewBuilder(cfg, WithCompiler(stubCompiler{}), WithPublisher(pub), WithPlan(plan)).Build(context.Background())
	require.NoError(t, err, "notification failures never fail the build")
	assert.Empty(t, pub.payloads)
}

func TestBuilder_PublishFailureIsNotifyCategory(t *testing.T) {
	root := dtesting.NewProject(t)
	cfg := testConfig(root)
	report := models.NewBuildReport("b1", dtesting.ProjectVersion)

	b := NewBuilder(cfg, WithPublisher(&flakyPublisher{failures: 1}))
	err := b.publish(context.Background(), report)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
	assert.Contains(t, err.Error(), "no responders")

	assert.NoError(t, NewBuilder(cfg, WithPublisher(&capturePublisher{})).publish(context.Background(), report))
	assert.NoError(t, NewBuilder(cfg).publish(context.Background(), report), "notification disabled")

	cfg.Notify.NATSURL = "nats://127.0.0.1:1"
	cfg.Notify.Timeout = 100 * time.Millisecond
	err = NewBuilder(cfg).publish(context.Background(), report)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotify))
}
