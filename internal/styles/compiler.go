package styles

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/godartsass/v2"
)

// Compiler turns one Sass entry file into CSS.
type Compiler interface {
	Compile(ctx context.Context, entryPath string, includePaths []string) (string, error)
}

// DartSass compiles through the dart-sass embedded protocol. The process is
// started on first use and reused until Close. Dart Sass always emits numbers
// with ten digits of precision.
type DartSass struct {
	binary  string
	timeout time.Duration

	mu         sync.Mutex
	transpiler *godartsass.Transpiler
}

// NewDartSass returns a compiler that runs binary (looked up in PATH when not absolute).
func NewDartSass(binary string, timeout time.Duration) *DartSass {
	return &DartSass{binary: binary, timeout: timeout}
}

func (d *DartSass) start() (*godartsass.Transpiler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transpiler != nil {
		return d.transpiler, nil
	}
	t, err := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: d.binary,
		Timeout:                  d.timeout,
		LogEventHandler: func(e godartsass.LogEvent) {
			slog.Warn("sass", "message", e.Message)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start dart-sass %q: %w", d.binary, err)
	}
	d.transpiler = t
	return t, nil
}

// Compile implements Compiler.
func (d *DartSass) Compile(ctx context.Context, entryPath string, includePaths []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.ReadFile(entryPath)
	if err != nil {
		return "", err
	}
	t, err := d.start()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return "", err
	}
	res, err := t.Execute(godartsass.Args{
		Source:       string(src),
		URL:          (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		IncludePaths: append([]string{filepath.Dir(abs)}, includePaths...),
		OutputStyle:  godartsass.OutputStyleExpanded,
		SourceSyntax: godartsass.SourceSyntaxSCSS,
	})
	if err != nil {
		return "", err
	}
	return res.CSS, nil
}

// Close stops the dart-sass process if one was started.
func (d *DartSass) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.transpiler == nil {
		return nil
	}
	err := d.transpiler.Close()
	d.transpiler = nil
	return err
}
