package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// ProjectVersion is the manifest version of the project written by NewProject.
const ProjectVersion = "2.3.0"

// IconSetDir is where NewProject puts the icon package's rendered icons.
const IconSetDir = "node_modules/@salesforce-ux/icons/dist/salesforce-lightning-design-system-icons"

// ProjectFiles returns the files of a minimal design-system checkout using
// the default layout.
func ProjectFiles() map[string]string {
	return map[string]string{
		"package.json": `{
  "name": "newport-design-system",
  "version": "` + ProjectVersion + `",
  "description": "Newport",
  "scripts": {"dist": "ndsdist"},
  "dependencies": {"a": "1.0.0"},
  "devDependencies": {"b": "2.0.0"},
  "engines": {"node": ">=8"},
  "important": true,
  "license": "MIT"
}
`,
		"README-dist.md":   "Install with npm.\n",
		"RELEASENOTES.md":  "## 2.3.0\n",
		"RELEASENOTES.txt": "2.3.0\n",

		"ui/index-scoped.scss":                   "@import 'components/button/base/index';\n",
		"ui/index-scoped.rtl.scss":               "@import 'components/button/base/index';\n",
		"ui/nds-fonts.scss":                      "@font-face { font-family: x; }\n",
		"ui/components/button/base/_index.scss":  ".nds-button { color: red; }\n",
		"ui/components/button/tokens/button.yml": "props:\n  BUTTON_COLOR:\n    value: red\n",
		"ui/components/button/docs/readme.md":    "not shipped\n",
		"ui/vendor/_normalize.scss":              "html { margin: 0; }\n",

		"assets/licenses/License-for-Sass.txt":    "sass license\n",
		"assets/licenses/License-for-font.txt":    "font license\n",
		"assets/licenses/License-for-images.txt":  "image license\n",
		"assets/fonts/webfonts/NewportSans.woff2": "woff2",
		"assets/fonts/webfonts/NewportSans.ttf":   "ttf",
		"assets/images/logo.svg":                  "<svg/>",
		"assets/images/themes/dark/bg.png":        "png",
		"assets/downloads/swatches/Newport.ase":   "ase",

		"design-tokens/colors.yml":           "props:\n  COLOR_BRAND:\n    value: '#0070d2'\n",
		"design-tokens/aliases/palette.json": `{"aliases": {"BLUE": "#0070d2"}}`,

		"node_modules/@salesforce-ux/icons/dist/ui.icons.json": `{"utility": ["add"]}`,
		IconSetDir + "/utility/add.svg":                        "<svg/>",
		IconSetDir + "/utility/add.png":                        "png",
		IconSetDir + "/utility/120/add.png":                    "png",
	}
}

// WriteTree writes files (slash-separated relative path to content) under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
}

// WriteFile writes one file under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), testDirPermissions); err != nil {
		t.Fatalf("create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), testFilePermissions); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// NewProject lays out ProjectFiles in a fresh temp dir and returns its path.
func NewProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, ProjectFiles())
	return root
}
