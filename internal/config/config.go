package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/newport-ds/ndsdist/internal/foundation/errors"
)

// DefaultConfigFile is looked up in the working directory when no --config is given.
const DefaultConfigFile = "dist.yaml"

// Config represents the packaging configuration. Every field has a default so
// a project that follows the standard layout needs no file at all.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Paths   PathsConfig   `yaml:"paths"`
	Styles  StylesConfig  `yaml:"styles"`
	Build   BuildConfig   `yaml:"build"`
	Notify  NotifyConfig  `yaml:"notify"`
	Log     LogConfig     `yaml:"log"`
}

// ProjectConfig names the published artifact.
type ProjectConfig struct {
	DisplayName    string `yaml:"display_name"`
	ModuleName     string `yaml:"module_name"`
	PublicName     string `yaml:"public_name"`
	InternalMarker string `yaml:"internal_marker"`
	Manifest       string `yaml:"manifest"`
	ReadmeTemplate string `yaml:"readme_template"`
	ReleaseNotes   string `yaml:"release_notes"`
}

// PathsConfig holds the named source roots. Relative entries resolve against Root.
type PathsConfig struct {
	Root         string `yaml:"root"`
	Output       string `yaml:"output"`
	UI           string `yaml:"ui"`
	Assets       string `yaml:"assets"`
	DesignTokens string `yaml:"design_tokens"`
	Dependencies string `yaml:"dependencies"`
	IconPackage  string `yaml:"icon_package"` // relative to Dependencies
	IconSet      string `yaml:"icon_set"`     // directory inside IconPackage
	IconList     string `yaml:"icon_list"`    // file inside IconPackage
}

// StylesConfig controls the stylesheet compile step.
type StylesConfig struct {
	Entries     []string `yaml:"entries"` // relative to the staged scss directory
	Fragment    string   `yaml:"fragment"`
	Passthrough []string `yaml:"passthrough"`
	SassBinary  string   `yaml:"sass_binary"`
	Targets     []string `yaml:"targets"`
}

// BuildConfig controls runner behaviour and run artifacts.
type BuildConfig struct {
	StepTimeout time.Duration `yaml:"step_timeout"`
	ReportFile  string        `yaml:"report_file"`
	MetricsFile string        `yaml:"metrics_file"`
}

// NotifyConfig enables build-completed publication.
type NotifyConfig struct {
	NATSURL string        `yaml:"nats_url"`
	Subject string        `yaml:"subject"`
	Timeout time.Duration `yaml:"timeout"`

	// Retries bounds publish attempts after the first failure.
	Retries    int              `yaml:"retries"`
	Backoff    RetryBackoffMode `yaml:"backoff"`
	RetryDelay time.Duration    `yaml:"retry_delay"`
	RetryMax   time.Duration    `yaml:"retry_max"`
}

// RetryBackoffMode selects how the delay between publish attempts grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// Enabled reports whether a NATS endpoint is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from configPath. A missing file yields defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "parse config").
				WithContext("path", configPath).Fatal().Build()
		}
		slog.Debug("Loaded configuration", "path", configPath)
	case os.IsNotExist(err):
		slog.Debug("No configuration file, using defaults", "path", configPath)
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "read config").
			WithContext("path", configPath).Fatal().Build()
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Default()
	example.Build.ReportFile = "dist-report.json"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal example config").Build()
	}
	header := "# ndsdist configuration. Every key is optional.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write config").
			WithContext("path", configPath).Fatal().Build()
	}
	slog.Info("Configuration file created", "path", configPath)
	return nil
}
