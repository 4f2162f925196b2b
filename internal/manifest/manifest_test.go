package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceManifest = `{
  "name": "@vlocity-internal/newport-design-system",
  "description": "Newport Design System",
  "version": "2.3.1",
  "important": "do not publish",
  "scripts": {"build": "node scripts/dist.js"},
  "license": "BSD-3-Clause",
  "dependencies": {"lodash": "^4.17.0"},
  "devDependencies": {"gulp": "^3.9.1"},
  "optionalDependencies": {"fsevents": "*"},
  "engines": {"node": ">=6"},
  "repository": {"type": "git", "url": "https://example.com/nds.git?a=1&b=<2>"},
  "keywords": ["css", "design"]
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublishableEdit(t *testing.T) {
	path := writeManifest(t, sourceManifest)

	require.NoError(t, Edit(path, Publishable("@vlocity/newport-design-system", "important")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `{
  "name": "@vlocity/newport-design-system",
  "description": "Newport Design System",
  "version": "2.3.1",
  "license": "BSD-3-Clause",
  "repository": {
    "type": "git",
    "url": "https://example.com/nds.git?a=1&b=<2>"
  },
  "keywords": [
    "css",
    "design"
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestPublishable_AbsentFieldsAreIgnored(t *testing.T) {
	r, err := Parse([]byte(`{"version":"1.0.0"}`))
	require.NoError(t, err)

	require.NoError(t, Publishable("@vlocity/newport-design-system", "important")(r))
	assert.Equal(t, []string{"version", "name"}, r.Keys())
	name, ok := r.String("name")
	require.True(t, ok)
	assert.Equal(t, "@vlocity/newport-design-system", name)
}

func TestParse_Rejects(t *testing.T) {
	for name, input := range map[string]string{
		"array":     `[1,2]`,
		"truncated": `{"name": "x"`,
		"trailing":  `{"a":1} {"b":2}`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestRecord_SetKeepsPosition(t *testing.T) {
	r, err := Parse([]byte(`{"a":1,"b":2,"c":3}`))
	require.NoError(t, err)

	require.NoError(t, r.Set("b", "two"))
	r.Delete("a")
	r.Delete("missing")
	assert.Equal(t, []string{"b", "c"}, r.Keys())

	out, err := r.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": \"two\",\n  \"c\": 3\n}\n", string(out))

	empty, err := New().Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestEdit_FailureLeavesFileUntouched(t *testing.T) {
	path := writeManifest(t, sourceManifest)

	err := Edit(path, func(*Record) error { return assert.AnError })
	require.ErrorIs(t, err, assert.AnError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sourceManifest, string(data))
}

func TestReadVersion(t *testing.T) {
	v, err := ReadVersion(writeManifest(t, sourceManifest))
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", v)

	_, err = ReadVersion(writeManifest(t, `{"name":"x"}`))
	assert.Error(t, err)

	_, err = ReadVersion(writeManifest(t, `{"version": 3}`))
	assert.Error(t, err)

	_, err = ReadVersion(filepath.Join(t.TempDir(), "package.json"))
	assert.True(t, os.IsNotExist(err))
}
