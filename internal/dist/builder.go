package dist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/digest"
	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/dist/stages"
	ferrors "github.com/newport-ds/ndsdist/internal/foundation/errors"
	"github.com/newport-ds/ndsdist/internal/git"
	"github.com/newport-ds/ndsdist/internal/logfields"
	"github.com/newport-ds/ndsdist/internal/manifest"
	"github.com/newport-ds/ndsdist/internal/metrics"
	"github.com/newport-ds/ndsdist/internal/notify"
	"github.com/newport-ds/ndsdist/internal/retry"
	"github.com/newport-ds/ndsdist/internal/styles"
)

// ArtifactPatterns selects the files checksummed into the report.
var ArtifactPatterns = []string{"**/*"}

// Builder runs the distribution pipeline for one project configuration.
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	compiler  styles.Compiler
	publisher notify.Publisher
	recorder  *metrics.PrometheusRecorder
	plan      []models.StageDef
}

// Option customizes a Builder.
type Option func(*Builder)

// WithCompiler replaces the dart-sass compiler.
func WithCompiler(c styles.Compiler) Option {
	return func(b *Builder) { b.compiler = c }
}

// WithPublisher replaces the NATS publisher configured under notify.
func WithPublisher(p notify.Publisher) Option {
	return func(b *Builder) { b.publisher = p }
}

// WithLogger sets the logger used for step and build events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithPlan replaces the canonical step list.
func WithPlan(defs []models.StageDef) Option {
	return func(b *Builder) { b.plan = defs }
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NewPrometheusRecorder(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.plan == nil {
		b.plan = stages.Canonical()
	}
	return b
}

// Recorder exposes the metrics collected across builds.
func (b *Builder) Recorder() *metrics.PrometheusRecorder { return b.recorder }

// Build runs every step against a freshly recreated output root. The report
// is returned even when a step fails; the error names the failing step.
func (b *Builder) Build(ctx context.Context) (*models.BuildReport, error) {
	bc, err := b.resolveContext()
	if err != nil {
		return nil, err
	}

	tools, closeTools, err := b.tools()
	if err != nil {
		return nil, err
	}
	defer closeTools()

	bs := models.NewBuildState(bc, b.cfg, tools).
		WithRecorder(b.recorder).
		WithObserver(models.MultiObserver{
			models.LogObserver{Logger: b.logger, BuildID: bc.BuildID},
			models.RecorderObserver{Recorder: b.recorder},
		})
	bs.Report.Source = b.readSource(bc.Roots.Project)

	b.logger.Info("Starting distribution build",
		logfields.BuildID(bc.BuildID),
		logfields.Version(bc.Version),
		logfields.Dest(bc.Roots.Output))

	runErr := stages.RunStages(ctx, bs, b.plan)
	if runErr == nil {
		sums, err := digest.Tree(ctx, bc.Roots.Output, ArtifactPatterns)
		if err != nil {
			b.logger.Warn("Failed to checksum artifacts", logfields.Error(err))
		}
		bs.Report.Checksums = sums
	}

	report := bs.Report
	report.Finish()
	report.DeriveOutcome()
	bs.Observer().OnBuildComplete(report)
	b.finalize(ctx, report)

	if runErr != nil && report.Outcome == models.OutcomeCanceled {
		return report, ferrors.WrapError(runErr, ferrors.CategoryRuntime, "build canceled").Build()
	}
	return report, runErr
}

func (b *Builder) resolveContext() (models.BuildContext, error) {
	roots, err := b.cfg.Roots()
	if err != nil {
		return models.BuildContext{}, err
	}
	manifestPath := filepath.Join(roots.Project, filepath.FromSlash(b.cfg.Project.Manifest))
	ver, err := manifest.ReadVersion(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.BuildContext{}, ferrors.WrapError(err, ferrors.CategoryNotFound, "project manifest missing").
				WithContext("path", manifestPath).Fatal().Build()
		}
		return models.BuildContext{}, ferrors.WrapError(err, ferrors.CategorySerialization, "read project version").
			WithContext("path", manifestPath).Fatal().Build()
	}
	p := b.cfg.Project
	return models.BuildContext{
		Roots:          roots,
		DisplayName:    p.DisplayName,
		ModuleName:     p.ModuleName,
		PublicName:     p.PublicName,
		InternalMarker: p.InternalMarker,
		Version:        ver,
		BuildID:        uuid.NewString(),
	}, nil
}

func (b *Builder) tools() (models.Tools, func(), error) {
	prefixer, err := styles.NewPrefixer(b.cfg.Styles.Targets)
	if err != nil {
		return models.Tools{}, nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid styles.targets").Build()
	}
	tools := models.Tools{
		Compiler: b.compiler,
		Prefixer: prefixer,
		Minifier: styles.NewMinifier(),
	}
	closeFn := func() {}
	if tools.Compiler == nil {
		sass := styles.NewDartSass(b.cfg.Styles.SassBinary, b.cfg.Build.StepTimeout)
		tools.Compiler = sass
		closeFn = func() {
			if err := sass.Close(); err != nil {
				b.logger.Warn("Failed to stop dart-sass", logfields.Error(err))
			}
		}
	}
	return tools, closeFn, nil
}

// readSource is best effort: a project outside git still builds.
func (b *Builder) readSource(dir string) git.SourceInfo {
	info, err := git.ReadSource(dir, true)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		b.logger.Debug("Project is not a git repository", logfields.Path(dir))
	case err != nil:
		b.logger.Warn("Failed to read source revision", logfields.Path(dir), logfields.Error(err))
	}
	return info
}

// finalize writes the run artifacts. None of them can fail the build: the
// output root is already complete or already abandoned.
func (b *Builder) finalize(ctx context.Context, report *models.BuildReport) {
	project := filepath.Clean(b.cfg.Paths.Root)
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(project, p)
	}

	if f := b.cfg.Build.ReportFile; f != "" {
		path := resolve(f)
		if err := report.Persist(path); err != nil {
			b.logger.Warn("Failed to persist build report", logfields.Path(path), logfields.Error(err))
		}
	}
	if f := b.cfg.Build.MetricsFile; f != "" {
		path := resolve(f)
		if err := metrics.WriteTextfile(path, b.recorder.Registry()); err != nil {
			b.logger.Warn("Failed to write metrics", logfields.Path(path), logfields.Error(err))
		}
	}
	if err := b.publish(ctx, report); err != nil {
		b.logger.Warn("Build notification failed", logfields.Error(err))
	}
}

// publish announces the report. Every failure comes back as a notify
// category error; the caller only logs it.
func (b *Builder) publish(ctx context.Context, report *models.BuildReport) error {
	pub := b.publisher
	if pub == nil {
		n := b.cfg.Notify
		if !n.Enabled() {
			return nil
		}
		nats, err := notify.NewNATSPublisher(n.NATSURL, n.Subject, n.Timeout)
		if err != nil {
			return asNotifyError(err, "build notification skipped")
		}
		defer nats.Close()
		pub = nats
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return asNotifyError(err, "failed to encode build notification")
	}
	// a canceled build still announces itself
	send := func(ctx context.Context) error { return pub.Publish(ctx, payload) }
	err = retry.Do(context.WithoutCancel(ctx), retry.FromNotify(b.cfg.Notify), send, func(attempt int, err error) {
		b.logger.Debug("Retrying build notification", slog.Int("attempt", attempt), logfields.Error(err))
	})
	if err != nil {
		return asNotifyError(err, "failed to publish build notification")
	}
	b.logger.Debug("Published build notification", logfields.BuildID(report.BuildID))
	return nil
}

func asNotifyError(err error, msg string) error {
	if ferrors.HasCategory(err, ferrors.CategoryNotify) {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryNotify, msg).Warning().Build()
}
