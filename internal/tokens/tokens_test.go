package tokens

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonTokens = `global:
  type: size
  category: spacing
props:
  BUTTON_BORDER_RADIUS:
    value: "{!BORDER_RADIUS_MEDIUM}"
aliases:
  BORDER_RADIUS_MEDIUM: ".25rem"
`

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("button.yml", []byte(buttonTokens)))
	assert.NoError(t, Validate("empty.yml", nil))
	assert.NoError(t, Validate("multi.yaml", []byte("a: 1\n---\nb: 2\n")))
	assert.NoError(t, Validate("tokens.json", []byte(`{"props":{}}`)))
	assert.NoError(t, Validate("list.yml", []byte("- a\n- b\n")))
	assert.NoError(t, Validate("aliases.json", []byte(`["a","b"]`)))
	assert.NoError(t, Validate("scalar.json", []byte(`"just a string"`)))

	assert.Error(t, Validate("broken.yml", []byte("props:\n  A: [1, 2\n")))
	assert.Error(t, Validate("tabs.yml", []byte("props:\n\tA: 1\n")))
	assert.Error(t, Validate("broken.json", []byte(`{"props":`)))
	assert.Error(t, Validate("two.json", []byte(`{} {}`)))
}

func TestValidateTree(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "components", "buttons", "tokens")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "button.yml"), []byte(buttonTokens), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "list.json"), []byte(`["a","b"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# not a token"), 0o644))

	res, err := ValidateTree(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Checked)
	assert.Empty(t, res.Invalid)

	bad := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(bad, []byte("props: [unterminated\n"), 0o644))
	res, err = ValidateTree(context.Background(), root)
	require.NoError(t, err, "unparsable files are reported, not returned")
	assert.Equal(t, 3, res.Checked)
	require.Len(t, res.Invalid, 1)
	assert.Equal(t, bad, res.Invalid[0].Path)
	assert.Contains(t, res.Invalid[0].Error(), "broken.yml")
}

func TestValidateTree_MissingRoot(t *testing.T) {
	res, err := ValidateTree(context.Background(), filepath.Join(t.TempDir(), "ui"))
	require.NoError(t, err)
	assert.Zero(t, res.Checked)
}

func TestValidateTree_Canceled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.yml"), []byte("a: 1\n"), 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ValidateTree(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
