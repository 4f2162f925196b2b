package styles

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Prefixer adds vendor-prefixed declarations for the configured browser
// targets. Existing declarations, prefixed or not, are kept.
type Prefixer struct {
	engines []api.Engine
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

// NewPrefixer parses targets such as "chrome58" or "safari11.1".
func NewPrefixer(targets []string) (*Prefixer, error) {
	engines := make([]api.Engine, 0, len(targets))
	for _, raw := range targets {
		target := strings.ToLower(strings.TrimSpace(raw))
		i := strings.IndexAny(target, "0123456789")
		if i <= 0 {
			return nil, fmt.Errorf("invalid browser target %q", raw)
		}
		name, ok := engineNames[target[:i]]
		if !ok {
			return nil, fmt.Errorf("unknown browser %q in target %q", target[:i], raw)
		}
		engines = append(engines, api.Engine{Name: name, Version: target[i:]})
	}
	return &Prefixer{engines: engines}, nil
}

// Prefix rewrites css for the prefixer's targets. sourceName only labels errors.
func (p *Prefixer) Prefix(css, sourceName string) (string, error) {
	if len(p.engines) == 0 {
		return css, nil
	}
	res := api.Transform(css, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    p.engines,
		Sourcefile: sourceName,
		LogLevel:   api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		msgs := api.FormatMessages(res.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return "", fmt.Errorf("prefix %s: %s", sourceName, strings.TrimSpace(strings.Join(msgs, "")))
	}
	return string(res.Code), nil
}
