package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newport-ds/ndsdist/internal/digest"
	"github.com/newport-ds/ndsdist/internal/git"
	"github.com/newport-ds/ndsdist/internal/metrics"
	"github.com/newport-ds/ndsdist/internal/version"
)

// ReportSchemaVersion is bumped whenever the JSON shape changes incompatibly.
const ReportSchemaVersion = 1

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueMissingSource     ReportIssueCode = "MISSING_SOURCE"
	IssueManifestInvalid   ReportIssueCode = "MANIFEST_INVALID"
	IssueTokensInvalid     ReportIssueCode = "TOKENS_INVALID"
	IssueCompileFailure    ReportIssueCode = "COMPILE_FAILURE"
	IssueBannerMissing     ReportIssueCode = "BANNER_MISSING"
	IssueReadmeInvalid     ReportIssueCode = "README_INVALID"
	IssueStepTimeout       ReportIssueCode = "STEP_TIMEOUT"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// ReportIssue is a structured entry describing the problem that stopped a build.
type ReportIssue struct {
	Code    ReportIssueCode `json:"code"`
	Stage   StageName       `json:"stage"`
	Message string          `json:"message"`
}

// BuildReport captures what a run did and produced.
type BuildReport struct {
	SchemaVersion  int
	BuildID        string
	Version        string // version of the design system being packaged
	ToolVersion    string
	Source         git.SourceInfo
	Start          time.Time
	End            time.Time
	Errors         []error // the error that aborted the build, if any
	StageOrder     []StageName
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]StageResult
	StageFiles     map[StageName]int
	Issues         []ReportIssue
	Warnings       []ReportIssue // problems that did not stop the build
	Outcome        BuildOutcome
	Checksums      []digest.Checksum
}

// NewBuildReport constructs a new BuildReport.
func NewBuildReport(buildID, ver string) *BuildReport {
	return &BuildReport{
		SchemaVersion:  ReportSchemaVersion,
		BuildID:        buildID,
		Version:        ver,
		ToolVersion:    version.Version,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
		StageFiles:     make(map[StageName]int),
	}
}

// AddIssue appends a structured issue and mirrors err into Errors.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Message: msg})
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// AddWarning records a problem that the build carried on past.
func (r *BuildReport) AddWarning(code ReportIssueCode, stage StageName, msg string) {
	r.Warnings = append(r.Warnings, ReportIssue{Code: code, Stage: stage, Message: msg})
}

// AddFiles accumulates the file count of a step.
func (r *BuildReport) AddFiles(stage StageName, n int) {
	if r.StageFiles == nil {
		r.StageFiles = make(map[StageName]int)
	}
	r.StageFiles[stage] += n
}

// RecordStageResult stores the result of a step and emits metrics (if recorder non-nil).
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageResults == nil {
		r.StageResults = make(map[StageName]StageResult)
	}
	if _, seen := r.StageResults[stage]; !seen {
		r.StageOrder = append(r.StageOrder, stage)
	}
	r.StageResults[stage] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	case StageResultNotRun:
	}
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// DeriveOutcome sets the Outcome field based on recorded errors.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) == 0 {
		r.Outcome = OutcomeSuccess
		return
	}
	for _, e := range r.Errors {
		var se *StageError
		if errors.As(e, &se) && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	r.Outcome = OutcomeFailed
}

// FailedStage returns the step that aborted the build, if any.
func (r *BuildReport) FailedStage() (StageName, bool) {
	if len(r.Issues) == 0 {
		return "", false
	}
	return r.Issues[len(r.Issues)-1].Stage, true
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	files := 0
	for _, n := range r.StageFiles {
		files += n
	}
	return fmt.Sprintf("version=%s build=%s stages=%d files=%d artifacts=%d duration=%s outcome=%s",
		r.Version, r.BuildID, len(r.StageOrder), files, len(r.Checksums), dur.Truncate(time.Millisecond), string(r.Outcome))
}

// BuildReportSerializable is the JSON shape of a BuildReport.
type BuildReportSerializable struct {
	SchemaVersion int               `json:"schema_version"`
	BuildID       string            `json:"build_id"`
	Version       string            `json:"version"`
	ToolVersion   string            `json:"tool_version"`
	Source        git.SourceInfo    `json:"source"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	DurationMS    int64             `json:"duration_ms"`
	Outcome       string            `json:"outcome"`
	Errors        []string          `json:"errors"`
	Stages        []StageSummary    `json:"stages"`
	Issues        []ReportIssue     `json:"issues"`
	Warnings      []ReportIssue     `json:"warnings,omitempty"`
	Checksums     []digest.Checksum `json:"checksums"`
}

// StageSummary is one step entry of the serialized report.
type StageSummary struct {
	Name       StageName   `json:"name"`
	Result     StageResult `json:"result"`
	DurationMS float64     `json:"duration_ms"`
	Files      int         `json:"files,omitempty"`
}

// SanitizedCopy converts the report into its JSON-friendly form.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion: r.SchemaVersion,
		BuildID:       r.BuildID,
		Version:       r.Version,
		ToolVersion:   r.ToolVersion,
		Source:        r.Source,
		Start:         r.Start,
		End:           r.End,
		DurationMS:    r.End.Sub(r.Start).Milliseconds(),
		Outcome:       string(r.Outcome),
		Errors:        make([]string, len(r.Errors)),
		Stages:        make([]StageSummary, 0, len(r.StageOrder)),
		Issues:        r.Issues,
		Warnings:      r.Warnings,
		Checksums:     r.Checksums,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for _, name := range r.StageOrder {
		s.Stages = append(s.Stages, StageSummary{
			Name:       name,
			Result:     r.StageResults[name],
			DurationMS: float64(r.StageDurations[name].Microseconds()) / 1000,
			Files:      r.StageFiles[name],
		})
	}
	if s.Issues == nil {
		s.Issues = []ReportIssue{}
	}
	if s.Checksums == nil {
		s.Checksums = []digest.Checksum{}
	}
	return s
}

// MarshalJSON renders the sanitized form.
func (r *BuildReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.SanitizedCopy())
}

// Persist writes the report as indented JSON to path atomically.
func (r *BuildReport) Persist(path string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(jb, '\n'), 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}
