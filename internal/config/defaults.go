package config

import "time"

// Standard names of the distributed design system.
const (
	DefaultDisplayName    = "Vlocity Newport Design System"
	DefaultModuleName     = "vlocity-newport-design-system"
	DefaultPublicName     = "@vlocity/newport-design-system"
	DefaultInternalMarker = "important"
)

func applyDefaults(cfg *Config) {
	p := &cfg.Project
	setDefault(&p.DisplayName, DefaultDisplayName)
	setDefault(&p.ModuleName, DefaultModuleName)
	setDefault(&p.PublicName, DefaultPublicName)
	setDefault(&p.InternalMarker, DefaultInternalMarker)
	setDefault(&p.Manifest, "package.json")
	setDefault(&p.ReadmeTemplate, "README-dist.md")
	setDefault(&p.ReleaseNotes, "RELEASENOTES*")

	paths := &cfg.Paths
	setDefault(&paths.Root, ".")
	setDefault(&paths.Output, "dist")
	setDefault(&paths.UI, "ui")
	setDefault(&paths.Assets, "assets")
	setDefault(&paths.DesignTokens, "design-tokens")
	setDefault(&paths.Dependencies, "node_modules")
	setDefault(&paths.IconPackage, "@salesforce-ux/icons/dist")
	setDefault(&paths.IconSet, "salesforce-lightning-design-system-icons")
	setDefault(&paths.IconList, "ui.icons.json")

	s := &cfg.Styles
	if len(s.Entries) == 0 {
		s.Entries = []string{"index-scoped.scss", "index-scoped.rtl.scss", "nds-fonts.scss"}
	}
	setDefault(&s.Fragment, "index-scoped")
	if len(s.Passthrough) == 0 {
		s.Passthrough = []string{"nds-fonts"}
	}
	setDefault(&s.SassBinary, "sass")
	if len(s.Targets) == 0 {
		s.Targets = []string{"chrome58", "firefox57", "safari11", "edge16"}
	}

	if cfg.Notify.Timeout <= 0 {
		cfg.Notify.Timeout = 5 * time.Second
	}
	setDefault(&cfg.Notify.Subject, "ndsdist.builds")
	if cfg.Notify.Backoff == "" {
		cfg.Notify.Backoff = RetryBackoffExponential
	}
	if cfg.Notify.RetryDelay <= 0 {
		cfg.Notify.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Notify.RetryMax <= 0 {
		cfg.Notify.RetryMax = 5 * time.Second
	}

	setDefault(&cfg.Log.Level, string(LogLevelInfo))
	setDefault(&cfg.Log.Format, string(LogFormatText))
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
