package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/newport-ds/ndsdist/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	required := map[string]string{
		"project.display_name": cfg.Project.DisplayName,
		"project.module_name":  cfg.Project.ModuleName,
		"project.public_name":  cfg.Project.PublicName,
		"styles.fragment":      cfg.Styles.Fragment,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return errors.ValidationError(key + " must not be empty").Build()
		}
	}
	if strings.ContainsAny(cfg.Project.ModuleName, `/\`) {
		return errors.ValidationError(fmt.Sprintf("project.module_name %q must be a plain file stem", cfg.Project.ModuleName)).Build()
	}
	for _, entry := range cfg.Styles.Entries {
		if filepath.IsAbs(entry) || strings.HasPrefix(filepath.Clean(entry), "..") {
			return errors.ValidationError(fmt.Sprintf("styles.entries %q must be relative to the staged scss directory", entry)).Build()
		}
	}
	if cfg.Build.StepTimeout < 0 {
		return errors.ValidationError("build.step_timeout must not be negative").Build()
	}
	if cfg.Notify.Retries < 0 {
		return errors.ValidationError("notify.retries must not be negative").Build()
	}
	switch cfg.Notify.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return errors.ValidationError(fmt.Sprintf("notify.backoff %q must be fixed, linear or exponential", cfg.Notify.Backoff)).Build()
	}
	return nil
}
