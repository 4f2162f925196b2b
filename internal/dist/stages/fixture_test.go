package stages

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newport-ds/ndsdist/internal/config"
	"github.com/newport-ds/ndsdist/internal/dist/models"
	"github.com/newport-ds/ndsdist/internal/styles"
	dtesting "github.com/newport-ds/ndsdist/internal/testing"
)

const fixtureVersion = dtesting.ProjectVersion

// cannedCompiler serves fixed CSS for every entry and can be told to fail one.
type cannedCompiler struct {
	css   string
	fail  map[string]error
	calls []string
}

func (c *cannedCompiler) Compile(_ context.Context, entry string, _ []string) (string, error) {
	base := filepath.Base(entry)
	c.calls = append(c.calls, base)
	if err, ok := c.fail[base]; ok {
		return "", err
	}
	return c.css, nil
}

const cannedCSS = `/* generated */
.nds-button {
  color: #ff0000;
  width: 0.3333333333rem;
}

.nds-card {
  margin: 0px 0px 0px 0px;
}
`

func writeFixtureFile(t *testing.T, root, rel, content string) {
	t.Helper()
	dtesting.WriteFile(t, root, rel, content)
}

func newProjectTree(t *testing.T) string {
	t.Helper()
	return dtesting.NewProject(t)
}

// newFixtureState resolves a build state over root with a canned compiler.
func newFixtureState(t *testing.T, root string, compiler styles.Compiler) *models.BuildState {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Root = root
	roots, err := cfg.Roots()
	require.NoError(t, err)

	bc := models.BuildContext{
		Roots:          roots,
		DisplayName:    cfg.Project.DisplayName,
		ModuleName:     cfg.Project.ModuleName,
		PublicName:     cfg.Project.PublicName,
		InternalMarker: cfg.Project.InternalMarker,
		Version:        fixtureVersion,
		BuildID:        "test-build",
	}
	return models.NewBuildState(bc, cfg, models.Tools{
		Compiler: compiler,
		Minifier: styles.NewMinifier(),
	})
}
