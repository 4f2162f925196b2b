package models

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in the distribution build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName is a strongly-typed identifier for a build step.
type StageName string

// Canonical step names, in pipeline order.
const (
	StageCleanOutput          StageName = "clean_output"
	StageCopyRootFiles        StageName = "copy_root_files"
	StageCleanManifest        StageName = "clean_manifest"
	StageCopySCSS             StageName = "copy_scss"
	StageCopySassLicense      StageName = "copy_sass_license"
	StageCopyIcons            StageName = "copy_icons"
	StageCopyIconList         StageName = "copy_icon_list"
	StageCopyFonts            StageName = "copy_fonts"
	StageCopyFontLicense      StageName = "copy_font_license"
	StageCopyImages           StageName = "copy_images"
	StageCopyImagesLicense    StageName = "copy_images_license"
	StageCopySwatches         StageName = "copy_swatches"
	StageCopyDesignTokens     StageName = "copy_design_tokens"
	StageCopyComponentTokens  StageName = "copy_component_tokens"
	StageValidateTokens       StageName = "validate_tokens"
	StageCompileStyles        StageName = "compile_styles"
	StageMinifyStyles         StageName = "minify_styles"
	StageBannerCSS            StageName = "banner_css"
	StageBannerSCSS           StageName = "banner_scss"
	StageVerifyBanners        StageName = "verify_banners"
	StageReadme               StageName = "readme"
	StageVerifyReadme         StageName = "verify_readme"
	StageRemoveReadmeTemplate StageName = "remove_readme_template"
	StageRemoveSwatches       StageName = "remove_swatches"
	StageRemoveDesignTokens   StageName = "remove_design_tokens"
	StageRemoveUI             StageName = "remove_ui"
	StageRemoveSCSS           StageName = "remove_scss"
	StageRemoveInternal       StageName = "remove_internal"
	StageRemovePNGIcons       StageName = "remove_png_icons"
)

// StageErrorKind classifies the outcome of a step. Every failure aborts the
// build; there is no warning kind.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing step and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageResult captures the high-level outcome of a step.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
	StageResultNotRun   StageResult = "not_run"
)

// NewFatalStageError creates a new fatal stage error.
func NewFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func NewCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageDef pairs a step name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered step definitions.
type Pipeline struct{ Defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{Defs: make([]StageDef, 0, 32)} }

// Add appends a step.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.Defs = append(p.Defs, StageDef{Name: name, Fn: fn})
	return p
}

// Build returns a copy of the step definitions slice.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.Defs))
	copy(out, p.Defs)
	return out
}

// Names lists the step names of defs in order.
func Names(defs []StageDef) []StageName {
	out := make([]StageName, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}
